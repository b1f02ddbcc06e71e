package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/catalog-intake-backend/internal/http/response"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
	"github.com/openshelf/catalog-intake-backend/internal/services"
)

type FileHandler struct {
	log   *logger.Logger
	files services.FileService
}

func NewFileHandler(log *logger.Logger, files services.FileService) *FileHandler {
	return &FileHandler{
		log:   log.With("handler", "FileHandler"),
		files: files,
	}
}

// Upload stores one multipart document and returns its public URL.
func (h *FileHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", fmt.Errorf("file field required: %w", err))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	defer src.Close()

	url, err := h.files.UploadDocument(
		c.Request.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		src,
	)
	if err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"fileUrl": url})
}

type registerFilesRequest struct {
	Files []struct {
		Name   string `json:"name"`
		URL    string `json:"url"`
		Base64 string `json:"base64"`
	} `json:"files"`
}

// Register persists metadata-only file records (the legacy intake path that
// never touches the object store).
func (h *FileHandler) Register(c *gin.Context) {
	var req registerFilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	inputs := make([]services.FileRecordInput, len(req.Files))
	for i, f := range req.Files {
		inputs[i] = services.FileRecordInput{
			Name:   f.Name,
			URL:    f.URL,
			Base64: f.Base64,
		}
	}

	ids, err := h.files.RegisterFiles(c.Request.Context(), nil, inputs)
	if err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}

	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	response.RespondOK(c, gin.H{"ids": out})
}
