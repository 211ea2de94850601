package constant

// Trailer provider script entry points. A provider script must define both as global functions.
const (
	FetchTrailersFn = "FetchTrailers"
	ResolveURLFn    = "ResolveURL"
)

// ActionTemplate is a text/template for scaffolding new action scripts.
const ActionTemplate = `{{ $divider := repeat "-" (plus (max (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @author  {{ .Author }}
-- @kind    action
{{ $divider }}

-- Action scripts run top to bottom every time the action fires.
-- Available modules: preshow (log, sleep, feature), osc (send), http_tls
-- and everything shipped with mangal-lua-libs.

local preshow = require("preshow")

preshow.log("{{ .Name }} fired")

--[[
local osc = require("osc")
osc.send("127.0.0.1", 53000, "/go")
]]

-- ex: ts=4 sw=4 et filetype=lua
`

// TrailerSourceTemplate is a text/template for scaffolding new trailer provider scripts.
const TrailerSourceTemplate = `{{ $divider := repeat "-" (plus (max (len .URL) (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @url     {{ .URL }}
-- @author  {{ .Author }}
-- @kind    trailers
{{ $divider }}


---@alias trailer { id: string, title: string, url: string, rating: string|nil, genres: string|nil, thumb: string|nil, release: string|nil, user_agent: string|nil }


----- MAIN -----

--- Returns every trailer the provider currently offers.
-- @param recent boolean True when only a daily refresh is due
-- @return trailer[] Table of trailers
function {{ .FetchTrailersFn }}(recent)
	return {}
end


--- Resolves a stored trailer into a playable URL.
-- @param id string Provider specific trailer ID
-- @param quality string Requested quality, e.g. 1080p
-- @param url string Last known URL
-- @return string Playable URL or empty string
function {{ .ResolveURLFn }}(id, quality, url)
	return url
end


--- END MAIN ---

-- ex: ts=4 sw=4 et filetype=lua
`
