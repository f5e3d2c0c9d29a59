package models

// ChatQuery is a free-form question about the catalog.
type ChatQuery struct {
	Message string `json:"message" validate:"required"`
}

// ChatAnswer is the deterministic reply built from catalog data.
type ChatAnswer struct {
	Intent  string   `json:"intent"`
	Message string   `json:"message"`
	Matches []string `json:"matches,omitempty"`
}
