package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openshelf/catalog-intake-backend/internal/http/response"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
	"github.com/openshelf/catalog-intake-backend/internal/services"
)

type MappingHandler struct {
	log      *logger.Logger
	mappings services.MappingService
}

func NewMappingHandler(log *logger.Logger, mappings services.MappingService) *MappingHandler {
	return &MappingHandler{
		log:      log.With("handler", "MappingHandler"),
		mappings: mappings,
	}
}

func (h *MappingHandler) List(c *gin.Context) {
	setNoCache(c)
	rows, err := h.mappings.List(c.Request.Context())
	if err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"data": rows})
}

func (h *MappingHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", fmt.Errorf("invalid mapping id"))
		return
	}

	var input services.UpdateFieldMappingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	if err := h.mappings.Update(c.Request.Context(), id, input); err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"updated": id})
}
