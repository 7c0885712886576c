// Package types contains the wire shapes shared by the HTTP API and the CLI.
package types

// Field describes one input of a disease form.
type Field struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// Model describes the artifact loaded for a disease.
type Model struct {
	Kind     string  `json:"kind"`
	Features int     `json:"features"`
	Path     string  `json:"path"`
	SHA256   string  `json:"sha256"`
	LoadedMs float64 `json:"loaded_ms"`
}

// Disease is a catalog entry with its ordered schema.
type Disease struct {
	Key    string  `json:"key"`
	Title  string  `json:"title"`
	Icon   string  `json:"icon,omitempty"`
	Prompt string  `json:"prompt,omitempty"`
	Fields []Field `json:"fields"`
	Model  *Model  `json:"model,omitempty"`
}

// Prediction is the result of one inference call.
type Prediction struct {
	Disease   string `json:"disease"`
	Label     int    `json:"label"`
	Positive  bool   `json:"positive"`
	Verdict   string `json:"verdict"`
	RequestID string `json:"request_id,omitempty"`
}
