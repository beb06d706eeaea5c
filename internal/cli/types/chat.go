package types

// Message roles
const (
	RoleNameUser      = "user"
	RoleNameAssistant = "assistant"
)

// Conversation represents a stored chat conversation
type Conversation struct {
	ID        ID                    `json:"id"`
	Title     string                `json:"title"`
	CreatedAt string                `json:"created_at,omitempty"`
	UpdatedAt string                `json:"updated_at,omitempty"`
	Messages  []ConversationMessage `json:"messages,omitempty"`
}

// ConversationMessage is a stored message of a conversation
type ConversationMessage struct {
	ID        ID       `json:"id"`
	Role      string   `json:"role"`    // user, assistant
	Content   string   `json:"content"` // Message content
	Images    []string `json:"images,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
}

// CreateConversationRequest opens a new conversation
type CreateConversationRequest struct {
	Title string `json:"title"`
}

// MessagePayload appends a message to a conversation
type MessagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ReviewRequest submits a satisfaction rating
type ReviewRequest struct {
	Rating int `json:"rating"`
}

// TitleCount is one row of the most-searched titles report
type TitleCount struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// SatisfactionMetrics summarises submitted ratings
type SatisfactionMetrics struct {
	Average      float64        `json:"average"`
	TotalReviews int            `json:"total_reviews"`
	Distribution map[string]int `json:"distribution,omitempty"`
}
