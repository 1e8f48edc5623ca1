package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/nik/article-hub/internal/api/handlers"
	"github.com/nik/article-hub/internal/api/middleware"
	"github.com/nik/article-hub/internal/auth"
	"github.com/nik/article-hub/internal/service"
)

func NewRouter(services *service.Services) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth)
	articleHandler := handlers.NewArticleHandler(services.Article)

	r.Route("/users", func(r chi.Router) {
		r.Post("/register/", authHandler.Register)
		r.Post("/login/", authHandler.Login)
		r.Post("/confirm/{token}", authHandler.Confirm)
		r.Post("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(services.Auth, auth.TokenTypeRefresh))
			r.Post("/refresh/", authHandler.Refresh)
		})
	})

	r.Route("/articles", func(r chi.Router) {
		r.Get("/search/", articleHandler.Search)
		r.Get("/random/", articleHandler.RandomFeed)
		r.Get("/{id}/content", articleHandler.Content)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(services.Auth, auth.TokenTypeAccess))
			r.Use(middleware.RequireActive)
			r.Post("/upload/", articleHandler.Upload)
		})
	})

	return r
}
