package services

import (
	"sync"

	"github.com/google/uuid"

	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
)

// SelectionService keeps cross-page row selections server-side so the table
// UI can page freely without losing checked rows. Selections are keyed by a
// client-chosen name and live only as long as the process.
type SelectionService interface {
	Get(key string) []uuid.UUID
	Set(key string, ids []uuid.UUID)
	Clear(key string)
}

type selectionService struct {
	log *logger.Logger

	mu         sync.RWMutex
	selections map[string][]uuid.UUID
}

func NewSelectionService(baseLog *logger.Logger) SelectionService {
	return &selectionService{
		log:        baseLog.With("service", "SelectionService"),
		selections: make(map[string][]uuid.UUID),
	}
}

func (ss *selectionService) Get(key string) []uuid.UUID {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return append([]uuid.UUID(nil), ss.selections[key]...)
}

func (ss *selectionService) Set(key string, ids []uuid.UUID) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.selections[key] = append([]uuid.UUID(nil), ids...)
}

func (ss *selectionService) Clear(key string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.selections, key)
}
