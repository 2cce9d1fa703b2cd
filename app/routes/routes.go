package routes

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"myblog/app/controllers"
	"myblog/app/middleware"
	"myblog/app/repositories"
	"myblog/app/services"
	"myblog/app/session"
	"myblog/app/views"
)

// Deps are the collaborators the router is built from
type Deps struct {
	Posts    repositories.PostRepository
	Comments repositories.CommentRepository
	Users    repositories.UserRepository
	Sessions *session.Manager
	Log      *zap.Logger
	PerPage  int
	// HashCost overrides the bcrypt cost when non-zero.
	HashCost int
}

// Setup defines the application's routes and returns a router.
func Setup(d Deps) (*mux.Router, error) {
	templates, err := views.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	postService := services.NewPostService(d.Posts, d.Comments, d.Log)
	commentService := services.NewCommentService(d.Comments, d.Posts)
	userService := services.NewUserService(d.Users)
	if d.HashCost != 0 {
		userService.SetHashCost(d.HashCost)
	}

	postController := controllers.NewPostController(postService, templates, d.Log, d.PerPage)
	commentController := controllers.NewCommentController(commentService, templates, d.Log)
	userController := controllers.NewUserController(userService, templates, d.Log)

	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Recoverer(d.Log))
	router.Use(middleware.Logger(d.Log))
	router.Use(d.Sessions.Middleware)

	// Serve static files
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(views.Static()))))

	router.Handle("/", http.RedirectHandler("/posts", http.StatusFound)).Methods("GET")

	requireLogin := middleware.RequireLogin(d.Log)
	requireGuest := middleware.RequireGuest(d.Log)

	// Users
	router.Handle("/signup", requireGuest(http.HandlerFunc(userController.SignUpForm))).Methods("GET")
	router.Handle("/signup", requireGuest(http.HandlerFunc(userController.SignUp))).Methods("POST")
	router.Handle("/signin", requireGuest(http.HandlerFunc(userController.SignInForm))).Methods("GET")
	router.Handle("/signin", requireGuest(http.HandlerFunc(userController.SignIn))).Methods("POST")
	router.Handle("/signout", requireLogin(http.HandlerFunc(userController.SignOut))).Methods("GET")

	// Posts. /posts/create must be registered before /posts/{postId}.
	posts := router.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", postController.Index).Methods("GET")
	posts.Handle("/create", requireLogin(http.HandlerFunc(postController.New))).Methods("GET")
	posts.Handle("/create", requireLogin(http.HandlerFunc(postController.Create))).Methods("POST")
	posts.HandleFunc("/{postId}", postController.Show).Methods("GET")
	posts.Handle("/{postId}/edit", requireLogin(http.HandlerFunc(postController.EditForm))).Methods("GET")
	posts.Handle("/{postId}/edit", requireLogin(http.HandlerFunc(postController.Edit))).Methods("POST")
	posts.Handle("/{postId}/remove", requireLogin(http.HandlerFunc(postController.Remove))).Methods("GET")

	// Comments
	router.Handle("/comments", requireLogin(http.HandlerFunc(commentController.Create))).Methods("POST")
	router.Handle("/comments/{commentId}/remove", requireLogin(http.HandlerFunc(commentController.Remove))).Methods("GET")

	// Unmatched paths skip router middleware, so wrap the handler directly
	router.NotFoundHandler = d.Sessions.Middleware(http.HandlerFunc(postController.NotFound))

	return router, nil
}
