package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/nik/article-hub/internal/domain"
	"github.com/nik/article-hub/internal/repository"
)

type ArticleService struct {
	articleRepo repository.ArticleRepository
	blobRepo    repository.BlobRepository
}

func NewArticleService(articleRepo repository.ArticleRepository, blobRepo repository.BlobRepository) *ArticleService {
	return &ArticleService{
		articleRepo: articleRepo,
		blobRepo:    blobRepo,
	}
}

type FeedPage struct {
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Total    int64             `json:"total"`
	Articles []*domain.Article `json:"articles"`
}

// Publish writes the content blob first and the metadata row second, so a
// crash between the two can never leave metadata pointing at a missing
// blob. The reverse failure leaves an orphaned blob; that is logged and
// accepted rather than compensated.
func (s *ArticleService) Publish(ctx context.Context, title, description, content, author string) (*domain.Article, error) {
	key := fmt.Sprintf("articles/%s.txt", uuid.New())

	if err := s.blobRepo.Put(ctx, key, content); err != nil {
		return nil, err
	}

	article, err := s.articleRepo.Add(ctx, title, description, key, author)
	if err != nil {
		log.Printf("ERROR [service.Article] metadata write failed, blob %s orphaned: %v", key, err)
		return nil, err
	}

	return article, nil
}

func (s *ArticleService) Search(ctx context.Context, query string) ([]*domain.Article, error) {
	return s.articleRepo.Search(ctx, query)
}

func (s *ArticleService) FetchContent(ctx context.Context, articleID int64) (string, error) {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return "", err
	}
	return s.blobRepo.Get(ctx, article.S3Key)
}

// RandomFeed samples up to pageSize articles from a fresh random ordering.
// Ids that vanish between sampling and metadata resolution are skipped.
func (s *ArticleService) RandomFeed(ctx context.Context, page, pageSize int, categoryID *int64) (*FeedPage, error) {
	total, err := s.articleRepo.Count(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	feed := &FeedPage{Page: page, PageSize: pageSize, Total: total, Articles: []*domain.Article{}}
	if total == 0 {
		return feed, nil
	}

	ids, err := s.articleRepo.SampleIDs(ctx, page, pageSize, categoryID)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		article, err := s.articleRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrArticleNotFound) {
				continue
			}
			return nil, err
		}
		feed.Articles = append(feed.Articles, article)
	}

	return feed, nil
}
