package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Book is a normalized catalog record produced by the DocAgent transform.
// Content always carries every key of the standard schema; consumers must
// never see a partial map.
type Book struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"_id"`
	SupplierName  string    `gorm:"column:supplier_name" json:"supplier_name"`
	PublisherName string    `gorm:"column:publisher_name" json:"publisher_name"`

	Content datatypes.JSONType[map[string]string] `gorm:"column:content;type:jsonb" json:"content"`

	// Relevance is the descending sort key for listings; ties break on id.
	Relevance float64 `gorm:"column:relevance;index" json:"relevance"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Book) TableName() string { return "book" }
