package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PublisherRule is a free-text extraction rule the transform service applies
// to a given publisher/supplier pair.
type PublisherRule struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"_id"`
	PublisherName string    `gorm:"column:publisher_name" json:"publisher_name"`
	SupplierName  string    `gorm:"column:supplier_name" json:"supplier_name"`
	PublisherID   string    `gorm:"column:publisher_id" json:"publisher_id"`
	SupplierID    string    `gorm:"column:supplier_id" json:"supplier_id"`
	Rule          string    `gorm:"column:rule;type:text" json:"rule"`
	Tips          string    `gorm:"column:tips;type:text" json:"tips"`
	Score         int       `gorm:"column:score" json:"score"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PublisherRule) TableName() string { return "publisher_rule" }

// PreprocessRule is the second rule shape: it maps a standard column to a
// list of preprocessing aliases plus free-text exception notes.
type PreprocessRule struct {
	ID          uuid.UUID                   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"_id"`
	StandardCol string                      `gorm:"column:standard_col" json:"standard_col"`
	Pre         datatypes.JSONSlice[string] `gorm:"column:pre;type:jsonb" json:"pre"`
	Exception   string                      `gorm:"column:exception;type:text" json:"exception"`
	Rules       string                      `gorm:"column:rules;type:text" json:"rules"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PreprocessRule) TableName() string { return "preprocess_rule" }
