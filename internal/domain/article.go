package domain

import "time"

type Article struct {
	ID               int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title            string    `json:"title" gorm:"not null"`
	ShortDescription string    `json:"shortDescription" gorm:"not null"`
	S3Key            string    `json:"-" gorm:"not null"`
	Author           string    `json:"author" gorm:"not null"`
	// Derived from title and short description at insert time; read back
	// only by the full-text search queries, never by the JSON layer.
	SearchVector string    `json:"-" gorm:"type:tsvector;index:idx_articles_search_vector,type:gin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Category struct {
	ID           int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	CategoryName string `json:"categoryName" gorm:"not null"`
}

type CategoryArticle struct {
	CategoryID int64 `json:"categoryId" gorm:"primaryKey"`
	ArticleID  int64 `json:"articleId" gorm:"primaryKey"`
}

func (CategoryArticle) TableName() string {
	return "categories_articles"
}
