package types

type (
	// FindResult is a single note matched by name or title.
	FindResult struct {
		Path  string `json:"path"`
		Title string `json:"title,omitempty"`
		URI   string `json:"uri,omitempty"`
	}

	// QueryParams mirrors the query command's filter flags.
	QueryParams struct {
		Key      string  `json:"key"`
		Value    *string `json:"value,omitempty"`
		Contains *string `json:"contains,omitempty"`
		Exists   bool    `json:"exists,omitempty"`
		Missing  bool    `json:"missing,omitempty"`
	}
)
