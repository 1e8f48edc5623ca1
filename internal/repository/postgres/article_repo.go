package postgres

import (
	"context"
	"errors"

	"github.com/nik/article-hub/internal/domain"
	"gorm.io/gorm"
)

const articleColumns = "id, title, short_description, s3_key, author, created_at, updated_at"

type articleRepository struct {
	db *gorm.DB
	// Postgres text-search configuration, e.g. "russian" or "english".
	searchLanguage string
}

func NewArticleRepository(db *gorm.DB, searchLanguage string) *articleRepository {
	return &articleRepository{db: db, searchLanguage: searchLanguage}
}

func (r *articleRepository) Add(ctx context.Context, title, description, s3Key, author string) (*domain.Article, error) {
	var article domain.Article
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO articles (title, short_description, s3_key, author, search_vector, created_at, updated_at)
		VALUES (?, ?, ?, ?, to_tsvector(?::regconfig, ?), NOW(), NOW())
		RETURNING `+articleColumns,
		title, description, s3Key, author, r.searchLanguage, title+" "+description,
	).Scan(&article).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) Search(ctx context.Context, query string) ([]*domain.Article, error) {
	articles := []*domain.Article{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+articleColumns+`
		FROM articles
		WHERE search_vector @@ plainto_tsquery(?::regconfig, ?)
		ORDER BY ts_rank(search_vector, plainto_tsquery(?::regconfig, ?)) DESC`,
		r.searchLanguage, query, r.searchLanguage, query,
	).Scan(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *articleRepository) GetByID(ctx context.Context, id int64) (*domain.Article, error) {
	var article domain.Article
	err := r.db.WithContext(ctx).
		Select(articleColumns).
		First(&article, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrArticleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) Count(ctx context.Context, categoryID *int64) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&domain.Article{})
	if categoryID != nil {
		q = q.Joins("JOIN categories_articles ca ON ca.article_id = articles.id").
			Where("ca.category_id = ?", *categoryID)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SampleIDs draws up to pageSize ids from a fresh random ordering on every
// call. Repeated calls with the same page intentionally return different
// ids; this feeds the discovery endpoint, not stable pagination.
func (r *articleRepository) SampleIDs(ctx context.Context, page, pageSize int, categoryID *int64) ([]int64, error) {
	ids := []int64{}
	q := r.db.WithContext(ctx).Model(&domain.Article{})
	if categoryID != nil {
		q = q.Joins("JOIN categories_articles ca ON ca.article_id = articles.id").
			Where("ca.category_id = ?", *categoryID)
	}
	err := q.Order("random()").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Pluck("articles.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
