package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"myblog/app/middleware"
	"myblog/app/models"
	"myblog/app/repositories/mock"
	"myblog/app/services"
	"myblog/app/session"
	"myblog/app/views"
)

type testApp struct {
	router  http.Handler
	repos   *mock.Repositories
	users   *services.UserService
	manager *session.Manager
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	templates, err := views.Load()
	require.NoError(t, err)

	log := zap.NewNop()
	repos := mock.New()
	users := services.NewUserService(repos.Users)
	users.SetHashCost(bcrypt.MinCost)

	pc := NewPostController(services.NewPostService(repos.Posts, repos.Comments, log), templates, log, 2)
	cc := NewCommentController(services.NewCommentService(repos.Comments, repos.Posts), templates, log)
	uc := NewUserController(users, templates, log)

	router := mux.NewRouter()
	guarded := func(h http.HandlerFunc) http.Handler { return middleware.RequireLogin(log)(h) }
	guest := func(h http.HandlerFunc) http.Handler { return middleware.RequireGuest(log)(h) }

	router.Handle("/signup", guest(uc.SignUpForm)).Methods("GET")
	router.Handle("/signup", guest(uc.SignUp)).Methods("POST")
	router.Handle("/signin", guest(uc.SignInForm)).Methods("GET")
	router.Handle("/signin", guest(uc.SignIn)).Methods("POST")
	router.HandleFunc("/signout", uc.SignOut).Methods("GET")
	router.HandleFunc("/posts", pc.Index).Methods("GET")
	router.Handle("/posts/create", guarded(pc.New)).Methods("GET")
	router.Handle("/posts/create", guarded(pc.Create)).Methods("POST")
	router.HandleFunc("/posts/{postId}", pc.Show).Methods("GET")
	router.Handle("/posts/{postId}/edit", guarded(pc.EditForm)).Methods("GET")
	router.Handle("/posts/{postId}/edit", guarded(pc.Edit)).Methods("POST")
	router.Handle("/posts/{postId}/remove", guarded(pc.Remove)).Methods("GET")
	router.Handle("/comments", guarded(cc.Create)).Methods("POST")
	router.Handle("/comments/{commentId}/remove", guarded(cc.Remove)).Methods("GET")

	manager := session.NewManager("myblog", []byte("test-secret"), 3600, false, log)
	return &testApp{router: manager.Middleware(router), repos: repos, users: users, manager: manager}
}

// client is a browser stand-in that keeps the session cookie between requests
type client struct {
	t       *testing.T
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) client(t *testing.T) *client {
	return &client{t: t, app: a, cookies: make(map[string]*http.Cookie)}
}

func (c *client) do(method, path string, form url.Values, referer string) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if referer != "" {
		req.Header.Set("Referer", "http://localhost:3000"+referer)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.app.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, nil, "")
}

func (c *client) post(path string, form url.Values, referer string) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, path, form, referer)
}

// signUp registers name and leaves the client signed in
func (c *client) signUp(name string) *models.User {
	c.t.Helper()
	w := c.post("/signup", url.Values{
		"name":       {name},
		"password":   {"secret1"},
		"repassword": {"secret1"},
		"gender":     {"x"},
		"bio":        {"hello"},
	}, "/signup")
	require.Equal(c.t, http.StatusFound, w.Code)
	require.Equal(c.t, "/posts", w.Header().Get("Location"))

	user, err := c.app.repos.Users.GetByName(context.Background(), name)
	require.NoError(c.t, err)
	return user
}
