package constant

// Logo is printed by the version command.
const Logo = `
 ___  _ __ ___  ___| |__   _____      __
| '_ \| '__/ _ \/ __| '_ \ / _ \ \ /\ / /
| |_) | | |  __/\__ \ | | | (_) \ V  V /
| .__/|_|  \___||___/_| |_|\___/ \_/\_/
|_|`
