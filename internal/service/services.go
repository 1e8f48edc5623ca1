package service

import (
	"github.com/nik/article-hub/internal/auth"
	"github.com/nik/article-hub/internal/repository"
)

type Services struct {
	Auth    *AuthService
	Article *ArticleService
}

func NewServices(repos *repository.Repositories, tokens *auth.TokenService, mailer ConfirmationSender) *Services {
	return &Services{
		Auth:    NewAuthService(repos.User, repos.Denylist, tokens, mailer),
		Article: NewArticleService(repos.Article, repos.Blob),
	}
}
