package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/openshelf/catalog-intake-backend/internal/domain"
	"github.com/openshelf/catalog-intake-backend/internal/http/response"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
	"github.com/openshelf/catalog-intake-backend/internal/services"
)

type ArticleHandler struct {
	log      *logger.Logger
	articles services.ArticleService
}

func NewArticleHandler(log *logger.Logger, articles services.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		log:      log.With("handler", "ArticleHandler"),
		articles: articles,
	}
}

func articleTypeFromQuery(c *gin.Context) types.ArticleType {
	if t := c.Query("type"); t != "" {
		return types.ArticleType(t)
	}
	return types.ArticleTypeNormal
}

type generateArticlesRequest struct {
	Type        string `json:"type"`
	CustomStyle string `json:"custom_style"`
}

func (h *ArticleHandler) Generate(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", fmt.Errorf("invalid book id"))
		return
	}

	var req generateArticlesRequest
	// The body is optional; defaults generate the normal set.
	_ = c.ShouldBindJSON(&req)
	articleType := types.ArticleTypeNormal
	if req.Type != "" {
		articleType = types.ArticleType(req.Type)
	}

	article, err := h.articles.Generate(c.Request.Context(), bookID, articleType, req.CustomStyle)
	if err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, article)
}

func (h *ArticleHandler) Get(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", fmt.Errorf("invalid book id"))
		return
	}

	article, err := h.articles.Get(c.Request.Context(), bookID, articleTypeFromQuery(c))
	if err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, article)
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", fmt.Errorf("invalid book id"))
		return
	}

	if err := h.articles.Delete(c.Request.Context(), bookID, articleTypeFromQuery(c)); err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}
