package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

// BlogHandler handles blog post requests
type BlogHandler struct {
	service ministry.Service
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(service ministry.Service) *BlogHandler {
	return &BlogHandler{service: service}
}

// Routes returns the routes for blog posts
func (h *BlogHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreatePost)
	r.Get("/", h.ListPosts)
	r.Get("/main", h.ListPostsPage)
	r.Get("/search", h.SearchPosts)
	r.Get("/{id}", h.GetPost)
	r.Put("/{id}", h.UpdatePost)
	r.Delete("/{id}", h.DeletePost)

	return r
}

// CreatePost creates a post from a multipart form with an optional image
func (h *BlogHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, r, "Invalid form", err)
		return
	}

	image, file, err := formImage(r)
	if err != nil {
		writeError(w, r, "Invalid image", err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	post, err := h.service.CreatePost(r.Context(), ministry.CreatePostRequest{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
		Image:   image,
	})
	if err != nil {
		writeError(w, r, "Failed to create post", err)
		return
	}

	slog.Info("Post created", "post_id", post.ID, "image", post.Image)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toPostResponse(post, h.service.MediaURL))
}

// ListPosts returns every post, newest first
func (h *BlogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(r.Context())
	if err != nil {
		writeError(w, r, "Failed to list posts", err)
		return
	}
	render.JSON(w, r, toPostResponses(posts, h.service.MediaURL))
}

// ListPostsPage returns one page of posts and the number of pages
func (h *BlogHandler) ListPostsPage(w http.ResponseWriter, r *http.Request) {
	page, err := parsePageRequest(r)
	if err != nil {
		writeError(w, r, "Invalid paging parameters", err)
		return
	}

	result, err := h.service.ListPostsPage(r.Context(), page)
	if err != nil {
		writeError(w, r, "Failed to list posts", err)
		return
	}

	render.JSON(w, r, PostPageResponse{
		Blogs: toPostResponses(result.Posts, h.service.MediaURL),
		Total: result.TotalPages,
	})
}

// SearchPosts matches titles against ?searchQuery
func (h *BlogHandler) SearchPosts(w http.ResponseWriter, r *http.Request) {
	page, err := parsePageRequest(r)
	if err != nil {
		writeError(w, r, "Invalid paging parameters", err)
		return
	}

	posts, err := h.service.SearchPosts(r.Context(), ministry.SearchPostsRequest{
		Query:       r.URL.Query().Get("searchQuery"),
		PageRequest: page,
	})
	if err != nil {
		writeError(w, r, "Failed to search posts", err)
		return
	}

	render.JSON(w, r, PostSearchResponse{Blogs: toPostResponses(posts, h.service.MediaURL)})
}

// GetPost returns one post
func (h *BlogHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "Post not found", err)
		return
	}
	render.JSON(w, r, toPostResponse(post, h.service.MediaURL))
}

// UpdatePost merges the submitted fields and replaces the image when a new
// one is attached
func (h *BlogHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, r, "Invalid form", err)
		return
	}

	image, file, err := formImage(r)
	if err != nil {
		writeError(w, r, "Invalid image", err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	post, err := h.service.UpdatePost(r.Context(), ministry.UpdatePostRequest{
		ID:      chi.URLParam(r, "id"),
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
		Image:   image,
	})
	if err != nil {
		writeError(w, r, "Failed to update post", err)
		return
	}

	slog.Info("Post updated", "post_id", post.ID)
	render.JSON(w, r, toPostResponse(post, h.service.MediaURL))
}

// DeletePost removes a post and its image
func (h *BlogHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeletePost(r.Context(), id); err != nil {
		writeError(w, r, "Failed to delete post", err)
		return
	}

	slog.Info("Post deleted", "post_id", id)
	w.WriteHeader(http.StatusNoContent)
}
