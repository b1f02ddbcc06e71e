package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openshelf/catalog-intake-backend/internal/http/response"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
	"github.com/openshelf/catalog-intake-backend/internal/services"
)

type IntakeHandler struct {
	log    *logger.Logger
	intake services.IntakeService
}

func NewIntakeHandler(log *logger.Logger, intake services.IntakeService) *IntakeHandler {
	return &IntakeHandler{
		log:    log.With("handler", "IntakeHandler"),
		intake: intake,
	}
}

func openUploads(fileHeaders []*multipart.FileHeader) ([]services.UploadInput, func(), error) {
	inputs := make([]services.UploadInput, 0, len(fileHeaders))
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	for _, fh := range fileHeaders {
		src, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("open %q: %w", fh.Filename, err)
		}
		opened = append(opened, src)
		inputs = append(inputs, services.UploadInput{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			SizeBytes:   fh.Size,
			Reader:      src,
		})
	}
	return inputs, closeAll, nil
}

// CreateBatch runs the full upload-and-transform pipeline on a multipart
// batch and returns the settled report.
func (h *IntakeHandler) CreateBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	fileHeaders := form.File["files"]

	inputs, closeAll, err := openUploads(fileHeaders)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	defer closeAll()

	report, err := h.intake.Run(c.Request.Context(), inputs)
	if err != nil {
		status, code := statusForError(err)
		// The report still describes which file sank the batch.
		c.JSON(status, gin.H{"error": response.APIError{Message: err.Error(), Code: code}, "report": report})
		return
	}
	response.RespondOK(c, report)
}

func (h *IntakeHandler) GetBatch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", fmt.Errorf("invalid batch id"))
		return
	}

	report, err := h.intake.GetBatch(id)
	if err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, report)
}

// BookUpsert runs the single-file product-upsert flow.
func (h *IntakeHandler) BookUpsert(c *gin.Context) {
	orgProdID := c.PostForm("org_prod_id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", fmt.Errorf("file field required: %w", err))
		return
	}
	inputs, closeAll, err := openUploads([]*multipart.FileHeader{fileHeader})
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	defer closeAll()

	report, err := h.intake.RunBookUpsert(c.Request.Context(), inputs[0], orgProdID)
	if err != nil {
		status, code := statusForError(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, report)
}
