// Package constant defines immutable application-level identifiers and defaults.
package constant

const (
	// Preshow is the canonical application identifier used for filesystem paths and CLI branding.
	Preshow = "preshow"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is sent with trailer provider requests and handed to the media device for remote streams.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// SequenceExtension is the file extension of sequence documents.
	SequenceExtension = ".pseq"

	// LuaExtension is the file extension of action scripts and trailer provider scripts.
	LuaExtension = ".lua"
)

// Build metadata, set with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// runtime.GOOS values with platform specific code paths.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
