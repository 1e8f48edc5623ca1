package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nik/article-hub/internal/api/middleware"
	"github.com/nik/article-hub/internal/domain"
	"github.com/nik/article-hub/internal/service"
)

type ArticleHandler struct {
	articleService *service.ArticleService
}

func NewArticleHandler(articleService *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

type UploadRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

type UploadResponse struct {
	Message string          `json:"message"`
	Article *domain.Article `json:"article"`
	Author  string          `json:"author"`
}

func (h *ArticleHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title == "" || req.Description == "" || req.Content == "" {
		http.Error(w, "Title, description and content are required", http.StatusBadRequest)
		return
	}

	article, err := h.articleService.Publish(r.Context(), req.Title, req.Description, req.Content, user.Username)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Message: "Article uploaded successfully",
		Article: article,
		Author:  user.Username,
	})
}

func (h *ArticleHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		http.Error(w, "Query parameter is required", http.StatusBadRequest)
		return
	}

	articles, err := h.articleService.Search(r.Context(), query)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, articles)
}

func (h *ArticleHandler) RandomFeed(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 10)
	if page < 1 || pageSize < 1 || pageSize > 100 {
		http.Error(w, "Invalid paging parameters", http.StatusBadRequest)
		return
	}

	var categoryID *int64
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "Invalid category id", http.StatusBadRequest)
			return
		}
		categoryID = &id
	}

	feed, err := h.articleService.RandomFeed(r.Context(), page, pageSize, categoryID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, feed)
}

func (h *ArticleHandler) Content(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid article id", http.StatusBadRequest)
		return
	}

	content, err := h.articleService.FetchContent(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrArticleNotFound), errors.Is(err, domain.ErrContentNotFound):
			http.Error(w, "Article not found", http.StatusNotFound)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(content))
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return val
}
