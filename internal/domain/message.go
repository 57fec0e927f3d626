package domain

// Chat roles understood by the pipeline.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ValidRole reports whether role is one a client may send.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAssistant
}
