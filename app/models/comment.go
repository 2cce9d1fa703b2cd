package models

import "time"

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	return Check(c)
}

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate() {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
}

// OwnedBy reports whether userID wrote the comment.
func (c *Comment) OwnedBy(userID string) bool {
	return userID != "" && c.AuthorID == userID
}
