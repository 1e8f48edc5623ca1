package repository

import (
	"context"
	"time"

	"github.com/nik/article-hub/internal/domain"
)

type UserRepository interface {
	Exists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Activate(ctx context.Context, username string) error
	Delete(ctx context.Context, username string) error
}

type ArticleRepository interface {
	Add(ctx context.Context, title, description, s3Key, author string) (*domain.Article, error)
	Search(ctx context.Context, query string) ([]*domain.Article, error)
	GetByID(ctx context.Context, id int64) (*domain.Article, error)
	Count(ctx context.Context, categoryID *int64) (int64, error)
	SampleIDs(ctx context.Context, page, pageSize int, categoryID *int64) ([]int64, error)
}

type BlobRepository interface {
	Put(ctx context.Context, key, content string) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type TokenDenylist interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type Repositories struct {
	User     UserRepository
	Article  ArticleRepository
	Blob     BlobRepository
	Denylist TokenDenylist
}
