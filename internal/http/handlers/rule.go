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

type RuleHandler struct {
	log   *logger.Logger
	rules services.RuleService
}

func NewRuleHandler(log *logger.Logger, rules services.RuleService) *RuleHandler {
	return &RuleHandler{
		log:   log.With("handler", "RuleHandler"),
		rules: rules,
	}
}

func (h *RuleHandler) ListPublisherRules(c *gin.Context) {
	setNoCache(c)
	rows, err := h.rules.ListPublisherRules(c.Request.Context())
	if err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"data": rows})
}

func (h *RuleHandler) UpdatePublisherRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", fmt.Errorf("invalid rule id"))
		return
	}

	var input services.UpdatePublisherRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	if err := h.rules.UpdatePublisherRule(c.Request.Context(), id, input); err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"updated": id})
}

func (h *RuleHandler) ListPreprocessRules(c *gin.Context) {
	setNoCache(c)
	rows, err := h.rules.ListPreprocessRules(c.Request.Context())
	if err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"data": rows})
}

func (h *RuleHandler) UpdatePreprocessRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", fmt.Errorf("invalid rule id"))
		return
	}

	var input services.UpdatePreprocessRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	if err := h.rules.UpdatePreprocessRule(c.Request.Context(), id, input); err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"updated": id})
}
