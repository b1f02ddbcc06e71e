package catalog

import (
	"time"

	"github.com/google/uuid"
)

// StoredFile is the persisted metadata for an uploaded source document.
// Records are immutable once written; the object store owns the binary.
type StoredFile struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	URL       string    `gorm:"column:url" json:"url"`
	MimeType  string    `gorm:"column:mime_type" json:"mime_type"`
	SizeBytes int64     `gorm:"column:size_bytes" json:"size_bytes"`

	// Base64 holds inline document content for the legacy metadata-only
	// intake path that never touched the object store.
	Base64 string `gorm:"column:base64;type:text" json:"base64,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (StoredFile) TableName() string { return "stored_file" }
