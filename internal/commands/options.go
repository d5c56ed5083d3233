package commands

// VidctlOptions holds common command-line flags and options
type VidctlOptions struct {
	OutputFormat string
	Verbosity    int
	Sort         string
}
