package controllers

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"myblog/app/models"
	"myblog/app/services"
	"myblog/app/session"
)

// UserController handles sign-up, sign-in and sign-out
type UserController struct {
	base
	userService *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService, templates map[string]*template.Template, log *zap.Logger) *UserController {
	return &UserController{
		base:        base{templates: templates, log: log},
		userService: userService,
	}
}

// SignUpForm displays the registration form
func (uc *UserController) SignUpForm(w http.ResponseWriter, r *http.Request) {
	uc.render(w, r, http.StatusOK, "users/signup", "Sign up", nil)
}

// SignUp registers a user and signs them in
func (uc *UserController) SignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		uc.redirect(w, r, session.Error, "Failed to parse form!", "/signup")
		return
	}

	user, err := uc.userService.SignUp(r.Context(), models.SignUpForm{
		Name:       r.FormValue("name"),
		Password:   r.FormValue("password"),
		RePassword: r.FormValue("repassword"),
		Gender:     r.FormValue("gender"),
		Bio:        r.FormValue("bio"),
	})
	if err != nil {
		uc.back(w, r, err, "", "/signup")
		return
	}

	session.FromContext(r.Context()).SignIn(user)
	uc.redirect(w, r, session.Success, "Welcome, "+user.Name+"!", "/posts")
}

// SignInForm displays the sign-in form
func (uc *UserController) SignInForm(w http.ResponseWriter, r *http.Request) {
	uc.render(w, r, http.StatusOK, "users/signin", "Sign in", nil)
}

// SignIn checks credentials and records the identity in the session
func (uc *UserController) SignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		uc.redirect(w, r, session.Error, "Failed to parse form!", "/signin")
		return
	}

	user, err := uc.userService.SignIn(r.Context(), r.FormValue("name"), r.FormValue("password"))
	if err != nil {
		uc.back(w, r, err, "", "/signin")
		return
	}

	session.FromContext(r.Context()).SignIn(user)
	uc.redirect(w, r, session.Success, "Signed in!", "/posts")
}

// SignOut clears the identity
func (uc *UserController) SignOut(w http.ResponseWriter, r *http.Request) {
	session.FromContext(r.Context()).SignOut()
	uc.redirect(w, r, session.Success, "Signed out!", "/posts")
}
