package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openshelf/catalog-intake-backend/internal/http/response"
	apperrors "github.com/openshelf/catalog-intake-backend/internal/pkg/errors"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
	"github.com/openshelf/catalog-intake-backend/internal/services"
)

type BookHandler struct {
	log       *logger.Logger
	books     services.BookService
	selection services.SelectionService
}

func NewBookHandler(log *logger.Logger, books services.BookService, selection services.SelectionService) *BookHandler {
	return &BookHandler{
		log:       log.With("handler", "BookHandler"),
		books:     books,
		selection: selection,
	}
}

// setNoCache keeps the freshly-invalidated listing from being pinned by
// browser or proxy caches.
func setNoCache(c *gin.Context) {
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
}

func (h *BookHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "pageSize", 10)

	setNoCache(c)
	result, err := h.books.List(c.Request.Context(), page, pageSize)
	if err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, result)
}

func (h *BookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", fmt.Errorf("invalid book id"))
		return
	}

	var input services.UpdateBookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	if err := h.books.Update(c.Request.Context(), id, input); err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"updated": id})
}

type deleteBooksRequest struct {
	IDs []string `json:"ids"`
}

func (h *BookHandler) Delete(c *gin.Context) {
	var req deleteBooksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	ids, err := parseIDs(req.IDs)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	deleted, err := h.books.Delete(c.Request.Context(), ids)
	if err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": deleted})
}

func (h *BookHandler) Export(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("ids"))
	if raw == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", fmt.Errorf("ids query parameter required"))
		return
	}
	ids, err := parseIDs(strings.Split(raw, ","))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	filename, data, err := h.books.ExportCSV(c.Request.Context(), ids)
	if err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

type selectionRequest struct {
	IDs []string `json:"ids"`
}

func (h *BookHandler) GetSelection(c *gin.Context) {
	key := c.Param("key")
	ids := h.selection.Get(key)
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	response.RespondOK(c, gin.H{"ids": out})
}

func (h *BookHandler) PutSelection(c *gin.Context) {
	key := c.Param("key")
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	ids, err := parseIDs(req.IDs)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	h.selection.Set(key, ids)
	response.RespondOK(c, gin.H{"count": len(ids)})
}

func (h *BookHandler) ClearSelection(c *gin.Context) {
	h.selection.Clear(c.Param("key"))
	response.RespondOK(c, gin.H{"cleared": true})
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	var v int
	if _, err := fmt.Sscanf(raw, "%d", &v); err != nil {
		return def
	}
	return v
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no ids", apperrors.ErrInvalidArgument)
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed id %q", apperrors.ErrInvalidArgument, s)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no ids", apperrors.ErrInvalidArgument)
	}
	return ids, nil
}
