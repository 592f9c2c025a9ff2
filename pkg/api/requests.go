package api

// ImprovePromptRequest is the HTTP request body for
// POST /api/v1/improve-prompt.
type ImprovePromptRequest struct {
	Idea       string   `json:"idea"`
	Context    string   `json:"context,omitempty"`
	Guardrails []string `json:"guardrails,omitempty"`
	Mode       string   `json:"mode,omitempty"` // "legacy" | "nlac"
}
