// File: internal/flags/flags.go
package flags

// Centralized definitions for CLI flags used across the application

const (
	// Provider flags select the single provider an operation targets
	Provider      = "provider"
	ProviderShort = "p"

	// Providers (plural) flags select the providers queried by fan-out listings.
	// 'p' is reused for both forms depending on the subcommand
	Providers      = "providers"
	ProvidersShort = "p"

	// Location of a new bucket; the provider default applies when empty
	Location      = "location"
	LocationShort = "l"

	// Upper bound on listed entries; 0 leaves the page size to the provider
	MaxResults      = "max-results"
	MaxResultsShort = "n"

	// Byte range selection for downloads
	Start = "start"
	End   = "end"
	Last  = "last"

	// Local file read by uploads or written by downloads; "-" means stdin/stdout
	File      = "file"
	FileShort = "f"

	// Selects the upload (PUT) URL instead of the download URL
	Upload = "upload"

	// Adds bucket usage metrics to describe output where the provider supports it
	Usage = "usage"

	// Bypasses interactive confirmation for destructive operations
	Force = "force"

	// Global flags
	Debug       = "debug"
	DebugShort  = "d"
	Output      = "output"
	OutputShort = "o"
	Config      = "config"
)
