package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUpFormValidation(t *testing.T) {
	valid := func() SignUpForm {
		return SignUpForm{
			Name:       "alice",
			Password:   "secret1",
			RePassword: "secret1",
			Gender:     "f",
			Bio:        "hello",
		}
	}

	tests := []struct {
		name    string
		mutate  func(f *SignUpForm)
		wantMsg string
	}{
		{name: "valid", mutate: func(f *SignUpForm) {}},
		{name: "empty name", mutate: func(f *SignUpForm) { f.Name = "" }, wantMsg: "Please enter a name!"},
		{name: "long name", mutate: func(f *SignUpForm) { f.Name = strings.Repeat("a", 11) }, wantMsg: "Name must be at most 10 characters!"},
		{name: "short password", mutate: func(f *SignUpForm) { f.Password, f.RePassword = "abc", "abc" }, wantMsg: "Password must be at least 6 characters!"},
		{name: "mismatched passwords", mutate: func(f *SignUpForm) { f.RePassword = "other12" }, wantMsg: "Passwords do not match!"},
		{name: "bad gender", mutate: func(f *SignUpForm) { f.Gender = "q" }, wantMsg: "Gender must be m, f or x!"},
		{name: "long bio", mutate: func(f *SignUpForm) { f.Bio = strings.Repeat("b", 31) }, wantMsg: "Bio must be at most 30 characters!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid()
			tt.mutate(&form)
			err := form.Validate()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantMsg, verr.Message)
		})
	}
}

func TestUserProfile(t *testing.T) {
	user := &User{ID: "9", Name: "bob", Password: "hash", Gender: "m", Bio: "hi"}
	user.BeforeCreate()
	assert.False(t, user.CreatedAt.IsZero())

	profile := user.Profile()
	assert.Equal(t, &Author{ID: "9", Name: "bob", Gender: "m", Bio: "hi"}, profile)
	assert.Equal(t, "male", profile.GenderLabel())
	assert.Equal(t, "secret", (&Author{Gender: "x"}).GenderLabel())
}
