package models

// Notification is a delivered email/notification log entry.
type Notification struct {
	ID         string `json:"id"`
	Subject    string `json:"subject"`
	Recipients string `json:"recipients"`
	Body       string `json:"body"`
	CreatedAt  string `json:"createdAt"`
}
