// Package settings provides build metadata, per-run CLI settings, and
// context helpers shared by the cellgrid command and its packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "cellgrid"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// InputSettings records where the grid's data comes from.
type InputSettings struct {
	// Path is a CSV/JSON/YAML/XLSX file; empty means stdin or a catalog query.
	Path      string
	FromStdin bool
	// TableID names a catalog table ("dataset.table" or "project.dataset.table").
	TableID string
}

// Run holds configuration settings for a single execution of the application.
type Run struct {
	MinLogLevel int8
	LogFile     string
	ConfigFile  string
	Input       InputSettings
	Interactive bool
	NoColor     bool
	IsQuiet     bool
	ExitOnError bool
}

// NewCliParams returns the defaults used by the command line.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		IsQuiet:     false,
		NoColor:     false,
		ExitOnError: true,
	}
}
