package controllers

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"myblog/app/models"
	"myblog/app/repositories"
	"myblog/app/services"
	"myblog/app/session"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	base
	postService *services.PostService
	perPage     int
}

// NewPostController creates a new PostController. perPage below one disables paging.
func NewPostController(postService *services.PostService, templates map[string]*template.Template, log *zap.Logger, perPage int) *PostController {
	return &PostController{
		base:        base{templates: templates, log: log},
		postService: postService,
		perPage:     perPage,
	}
}

// Index lists posts, most recent first, optionally for one author
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	author := r.URL.Query().Get("author")

	posts, hasMore, err := pc.postService.ListPosts(r.Context(), author, page, pc.perPage)
	if err != nil {
		pc.fail(w, r, err)
		return
	}

	data := struct {
		Posts   []*models.Post
		Author  string
		Page    int
		HasMore bool
	}{
		Posts:   posts,
		Author:  author,
		Page:    page,
		HasMore: hasMore,
	}
	pc.render(w, r, http.StatusOK, "posts/index", "Posts", data)
}

// Show displays a single post with its comments and counts the view
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["postId"]

	post, comments, err := pc.postService.ViewPost(r.Context(), id)
	if err != nil {
		pc.fail(w, r, err)
		return
	}

	data := struct {
		Post     *models.Post
		Comments []*models.Comment
	}{
		Post:     post,
		Comments: comments,
	}
	pc.render(w, r, http.StatusOK, "posts/show", post.Title, data)
}

// New displays the form for creating a new post
func (pc *PostController) New(w http.ResponseWriter, r *http.Request) {
	pc.render(w, r, http.StatusOK, "posts/create", "Write", nil)
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		pc.redirect(w, r, session.Error, "Failed to parse form!", "/posts/create")
		return
	}

	post, err := pc.postService.CreatePost(r.Context(), currentUser(r).ID, r.FormValue("title"), r.FormValue("content"))
	if err != nil {
		pc.back(w, r, err, "", "/posts/create")
		return
	}
	pc.redirect(w, r, session.Success, "Post created!", "/posts/"+post.ID)
}

// EditForm displays the edit form to the post's author
func (pc *PostController) EditForm(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["postId"]

	post, err := pc.postService.EditablePost(r.Context(), currentUser(r).ID, id)
	if err != nil {
		pc.back(w, r, err, "No such post!", "/posts")
		return
	}

	data := struct {
		Post *models.Post
	}{
		Post: post,
	}
	pc.render(w, r, http.StatusOK, "posts/edit", "Edit "+post.Title, data)
}

// Edit handles updating an existing post
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["postId"]
	if err := r.ParseForm(); err != nil {
		pc.redirect(w, r, session.Error, "Failed to parse form!", "/posts/"+id+"/edit")
		return
	}

	err := pc.postService.UpdatePost(r.Context(), currentUser(r).ID, id, r.FormValue("title"), r.FormValue("content"))
	if err != nil {
		pc.back(w, r, err, "No such post!", "/posts/"+id+"/edit")
		return
	}
	pc.redirect(w, r, session.Success, "Post updated!", "/posts/"+id)
}

// Remove handles deleting a post and its comments
func (pc *PostController) Remove(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["postId"]

	if err := pc.postService.DeletePost(r.Context(), currentUser(r).ID, id); err != nil {
		pc.back(w, r, err, "No such post!", "/posts")
		return
	}
	pc.redirect(w, r, session.Success, "Post removed!", "/posts")
}

// NotFound renders the 404 page for unmatched paths
func (pc *PostController) NotFound(w http.ResponseWriter, r *http.Request) {
	pc.fail(w, r, repositories.ErrNotFound)
}
