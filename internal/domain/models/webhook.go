package models

import "time"

// Webhook is a project-scoped delivery endpoint. The signing secret is
// generated server-side and shown once at creation.
type Webhook struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	URL       string    `json:"url"`
	Event     string    `json:"event"`
	Secret    string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
