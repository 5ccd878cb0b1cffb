package service

// DefaultMessage is printed after a successful patch run.
const DefaultMessage = "Added getters to controller DTO classes"

type Config struct {
	// URL is the file patched when the input does not name one; plain paths resolve against the working directory.
	URL string `json:"url,omitempty"`
	// Message overrides the confirmation line.
	Message string `json:"message,omitempty"`
	// DiffBytes caps the preview diff size (default 8192).
	DiffBytes int `json:"diffBytes,omitempty"`
	// BackupSuffix is appended to the target URL for backups (default .orig).
	BackupSuffix string `json:"backupSuffix,omitempty"`
	// Verbose enables per-rule diagnostics on the logger.
	Verbose bool `json:"verbose,omitempty"`
	// If true, return MCP tool results in structured content instead of text.
	UseData bool `json:"useData,omitempty"`
}
