package models

// Turn is a single message in a conversation.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
	History []Turn `json:"history"`
}

// ChatResponse is the reply from the cat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// SanitizeHistory drops entries that are not well-formed user/assistant turns
// and keeps only the last max entries. Invalid entries are filtered, never
// rejected.
func SanitizeHistory(history []Turn, max int) []Turn {
	if max <= 0 {
		return nil
	}
	safe := make([]Turn, 0, len(history))
	for _, t := range history {
		if (t.Role == "user" || t.Role == "assistant") && t.Content != "" {
			safe = append(safe, t)
		}
	}
	if len(safe) > max {
		safe = safe[len(safe)-max:]
	}
	return safe
}
