package controllers

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"myblog/app/middleware"
	"myblog/app/services"
	"myblog/app/session"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	base
	commentService *services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService, templates map[string]*template.Template, log *zap.Logger) *CommentController {
	return &CommentController{
		base:           base{templates: templates, log: log},
		commentService: commentService,
	}
}

// Create handles adding a comment to a post
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		cc.redirect(w, r, session.Error, "Failed to parse form!", middleware.Back(r, "/posts"))
		return
	}
	postID := r.FormValue("postId")
	fallback := "/posts/" + url.PathEscape(postID)

	_, err := cc.commentService.CreateComment(r.Context(), currentUser(r).ID, postID, r.FormValue("content"))
	if err != nil {
		cc.back(w, r, err, "No such post!", fallback)
		return
	}
	cc.redirect(w, r, session.Success, "Comment posted!", middleware.Back(r, fallback))
}

// Remove handles deleting a comment
func (cc *CommentController) Remove(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["commentId"]

	if err := cc.commentService.DeleteComment(r.Context(), currentUser(r).ID, id); err != nil {
		cc.back(w, r, err, "No such comment!", "/posts")
		return
	}
	cc.redirect(w, r, session.Success, "Comment removed!", middleware.Back(r, "/posts"))
}
