package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openshelf/catalog-intake-backend/internal/clients/objectstore"
	"github.com/openshelf/catalog-intake-backend/internal/data/repos"
	types "github.com/openshelf/catalog-intake-backend/internal/domain"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/dbctx"
	apperrors "github.com/openshelf/catalog-intake-backend/internal/pkg/errors"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
	"github.com/openshelf/catalog-intake-backend/internal/utils"
)

// DefaultMaxUploadBytes caps a single uploaded document (4 MiB).
const DefaultMaxUploadBytes int64 = 4 << 20

var allowedMimeTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   {},
	"application/vnd.ms-excel":                                                  {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {},
	"text/csv": {},
}

// FileService stores uploaded documents and their metadata records.
type FileService interface {
	// UploadDocument validates and streams one document into the object
	// store, returning its public URL.
	UploadDocument(ctx context.Context, name, contentType string, sizeBytes int64, file io.Reader) (string, error)

	// RegisterFiles batch-inserts metadata records and returns their
	// generated ids aligned with the input order.
	RegisterFiles(ctx context.Context, tx *gorm.DB, inputs []FileRecordInput) ([]uuid.UUID, error)

	MaxUploadBytes() int64
	IsAllowedMimeType(contentType string) bool
}

type FileRecordInput struct {
	Name      string
	URL       string
	Base64    string
	MimeType  string
	SizeBytes int64
}

type fileService struct {
	db             *gorm.DB
	log            *logger.Logger
	bucket         objectstore.BucketService
	storedFileRepo repos.StoredFileRepo
	maxUploadBytes int64
}

func NewFileService(
	db *gorm.DB,
	baseLog *logger.Logger,
	bucket objectstore.BucketService,
	storedFileRepo repos.StoredFileRepo,
) FileService {
	serviceLog := baseLog.With("service", "FileService")
	maxBytes := utils.GetEnvAsInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes, serviceLog)
	return &fileService{
		db:             db,
		log:            serviceLog,
		bucket:         bucket,
		storedFileRepo: storedFileRepo,
		maxUploadBytes: maxBytes,
	}
}

func (fs *fileService) MaxUploadBytes() int64 { return fs.maxUploadBytes }

func (fs *fileService) IsAllowedMimeType(contentType string) bool {
	contentType = strings.TrimSpace(strings.Split(contentType, ";")[0])
	_, ok := allowedMimeTypes[contentType]
	return ok
}

func (fs *fileService) UploadDocument(ctx context.Context, name, contentType string, sizeBytes int64, file io.Reader) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", apperrors.ErrInvalidArgument
	}
	if !fs.IsAllowedMimeType(contentType) {
		return "", fmt.Errorf("%w: unsupported content type %q", apperrors.ErrInvalidArgument, contentType)
	}
	if sizeBytes > fs.maxUploadBytes {
		return "", fmt.Errorf("%w: %s is %d bytes (limit %d)", apperrors.ErrFileTooLarge, name, sizeBytes, fs.maxUploadBytes)
	}

	key := uuid.New().String() + strings.ToLower(path.Ext(name))
	url, err := fs.bucket.UploadFile(ctx, key, file, sizeBytes, contentType)
	if err != nil {
		fs.log.Error("UploadDocument failed", "name", name, "error", err)
		return "", fmt.Errorf("upload document %q: %w", name, err)
	}
	fs.log.Info("UploadDocument", "name", name, "key", key, "size_bytes", sizeBytes)
	return url, nil
}

func (fs *fileService) RegisterFiles(ctx context.Context, tx *gorm.DB, inputs []FileRecordInput) ([]uuid.UUID, error) {
	if len(inputs) == 0 {
		return nil, apperrors.ErrInvalidArgument
	}

	records := make([]*types.StoredFile, len(inputs))
	for i, in := range inputs {
		if strings.TrimSpace(in.Name) == "" {
			return nil, fmt.Errorf("%w: file %d has no name", apperrors.ErrInvalidArgument, i)
		}
		if in.URL == "" && in.Base64 == "" {
			return nil, fmt.Errorf("%w: file %q has neither url nor base64", apperrors.ErrInvalidArgument, in.Name)
		}
		records[i] = &types.StoredFile{
			Name:      in.Name,
			URL:       in.URL,
			Base64:    in.Base64,
			MimeType:  in.MimeType,
			SizeBytes: in.SizeBytes,
		}
	}

	ids, err := fs.storedFileRepo.CreateBatch(dbctx.Context{Ctx: ctx, Tx: tx}, records)
	if err != nil {
		fs.log.Error("RegisterFiles failed", "count", len(inputs), "error", err)
		return nil, fmt.Errorf("register files: %w", err)
	}
	return ids, nil
}
