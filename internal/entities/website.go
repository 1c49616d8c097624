package entities

import "time"

// WebsiteSection is a block of public marketing-site content.
type WebsiteSection struct {
	Key         string         `json:"key"`
	Title       string         `json:"title"`
	Content     map[string]any `json:"content"`
	IsPublished bool           `json:"is_published"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
