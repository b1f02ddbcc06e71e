package catalog

import (
	"time"

	"github.com/google/uuid"
)

// ArticleType selects the generation pipeline the articles came from.
type ArticleType string

const (
	ArticleTypeNormal ArticleType = "normal"
	ArticleTypeRAG    ArticleType = "rag"
)

// BookArticle holds the three styled promotional articles the generation
// endpoint returns for a book. One row per (book, type).
type BookArticle struct {
	ID     uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"_id"`
	BookID uuid.UUID   `gorm:"type:uuid;not null;index:idx_book_article_book_type,unique" json:"book_id"`
	Type   ArticleType `gorm:"column:type;not null;index:idx_book_article_book_type,unique" json:"type"`

	ContentOriented string `gorm:"column:content_oriented;type:text" json:"Content-oriented"`
	Promotional     string `gorm:"column:promotional;type:text" json:"Promotional"`
	ThreatBased     string `gorm:"column:threat_based;type:text" json:"Threat-based"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (BookArticle) TableName() string { return "book_article" }
