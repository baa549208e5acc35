// Package compile turns parsed tickets into normalized task payloads.
// Two extraction paths are available (rule tables or a schema-constrained
// generative backend); both converge through Normalize so callers always
// see fully-defaulted output.
package compile

// Task is the canonical task payload. Field names follow the downstream
// task API, so a Task marshals directly into a create/update request.
type Task struct {
	Content     string   `json:"content"`
	Description string   `json:"description"`
	DueDate     string   `json:"due_date,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	Priority    int      `json:"priority,omitempty"`
}
