package models

import "time"

// Author is the minimal profile joined onto posts and comments for display.
type Author struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Bio    string `json:"bio"`
}

// User is a registered account. Password holds the bcrypt hash, never plaintext.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required,max=10"`
	Password  string    `json:"password" validate:"required"`
	Gender    string    `json:"gender" validate:"oneof=m f x"`
	Bio       string    `json:"bio" validate:"required,max=30"`
	CreatedAt time.Time `json:"created_at"`
}

// Post is a blog post. Author is only populated by reads; it is never stored.
type Post struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"author_id" validate:"required"`
	Title         string    `json:"title" validate:"required"`
	Content       string    `json:"content" validate:"required"`
	PV            int64     `json:"pv" validate:"gte=0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	CommentsCount int       `json:"-" validate:"-"`
	Author        *Author   `json:"-" validate:"-"`
}

// Comment belongs to exactly one post and is immutable once created.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id" validate:"required"`
	AuthorID  string    `json:"author_id" validate:"required"`
	Content   string    `json:"content" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	Author    *Author   `json:"-" validate:"-"`
}

// SignUpForm is the raw registration input before the password is hashed.
type SignUpForm struct {
	Name       string `validate:"required,max=10"`
	Password   string `validate:"required,min=6"`
	RePassword string `validate:"eqfield=Password"`
	Gender     string `validate:"oneof=m f x"`
	Bio        string `validate:"required,max=30"`
}
