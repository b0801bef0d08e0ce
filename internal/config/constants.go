package config

import "time"

const SourceFileExt = ".lx"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".lx", ".loxy"}

// Built-in function names
const (
	ClockFuncName = "clock"
	StrFuncName   = "str"
	TypeFuncName  = "type"
)

// Runtime defaults, used when loxy.yaml leaves a field unset.
const (
	ConfigFileName    = "loxy.yaml"
	DefaultMaxDepth   = 10000
	DefaultServeAddr  = ":7878"
	DefaultSessionTTL = 30 * time.Minute
)
