package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// FieldMapping maps one standard long-text field to the publisher-specific
// column names that feed it, grouped by preprocessing alias. The transform
// service both consumes and produces these rows; this application only
// renders and edits them.
type FieldMapping struct {
	ID       uuid.UUID                               `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"_id"`
	Standard string                                  `gorm:"column:standard" json:"standard"`
	PreCol   datatypes.JSONType[map[string][]string] `gorm:"column:pre_col;type:jsonb" json:"pre_col"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (FieldMapping) TableName() string { return "field_mapping" }
