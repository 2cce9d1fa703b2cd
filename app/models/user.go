package models

import "time"

// Validate checks the stored form of a user. Password must already be hashed.
func (u *User) Validate() error {
	return Check(u)
}

// BeforeCreate sets up any necessary fields before creation
func (u *User) BeforeCreate() {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
}

// Profile returns the public part of the user.
func (u *User) Profile() *Author {
	return &Author{
		ID:     u.ID,
		Name:   u.Name,
		Gender: u.Gender,
		Bio:    u.Bio,
	}
}

// Validate checks the registration input, including password confirmation.
func (f *SignUpForm) Validate() error {
	return Check(f)
}

// GenderLabel renders the stored gender code for templates.
func (a *Author) GenderLabel() string {
	switch a.Gender {
	case "m":
		return "male"
	case "f":
		return "female"
	default:
		return "secret"
	}
}
