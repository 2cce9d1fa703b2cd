package models

import "time"

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	return Check(p)
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	p.PV = 0
}

// OwnedBy reports whether userID is the author of the post.
func (p *Post) OwnedBy(userID string) bool {
	return userID != "" && p.AuthorID == userID
}

// WithRawAuthor populates Author with the identity reference only.
func (p *Post) WithRawAuthor() *Post {
	p.Author = &Author{ID: p.AuthorID}
	return p
}
