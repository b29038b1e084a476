package types

type (
	// ExtStat aggregates the files sharing one extension.
	ExtStat struct {
		Count     int   `json:"count"`
		TotalSize int64 `json:"total_size"`
	}

	// VaultStats summarizes a vault walk. FileTypes is keyed by lower-case
	// extension without the dot; files without an extension use ".".
	VaultStats struct {
		FileTypes        map[string]ExtStat `json:"file_type_stats"`
		TotalFiles       int                `json:"total_files"`
		TotalDirectories int                `json:"total_directories"`
		UsageFiles       int64              `json:"usage_files"`
		UsageDirectories int64              `json:"usage_directories"`
	}

	// VaultInfo is the vault summary reported by the info command and the
	// get_vault_info tool.
	VaultInfo struct {
		VaultPath       string   `json:"vault_path"`
		Exists          bool     `json:"exists"`
		MarkdownFiles   int      `json:"markdown_files"`
		Blacklist       []string `json:"blacklist"`
		Editor          string   `json:"editor"`
		IdentKey        string   `json:"ident_key"`
		JournalTemplate string   `json:"journal_template"`
		JournalPath     string   `json:"journal_path"`
		ConfigFile      string   `json:"config_file,omitempty"`
		Verbose         bool     `json:"verbose"`
		Version         string   `json:"version"`
		VaultStats
	}
)
