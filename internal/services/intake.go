package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/openshelf/catalog-intake-backend/internal/clients/docagent"
	apperrors "github.com/openshelf/catalog-intake-backend/internal/pkg/errors"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/httpx"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
	"github.com/openshelf/catalog-intake-backend/internal/utils"
)

// MaxIntakeFiles bounds one intake batch.
const MaxIntakeFiles = 5

type FileStatus string

const (
	StatusWaiting           FileStatus = "waiting"
	StatusUploading         FileStatus = "uploading"
	StatusUploaded          FileStatus = "uploaded"
	StatusUploadFailed      FileStatus = "upload_failed"
	StatusTransforming      FileStatus = "transforming"
	StatusTransformComplete FileStatus = "transform_complete"
	StatusTransformFailed   FileStatus = "transform_failed"
)

// validTransitions is the per-file state machine. Merges that would jump an
// illegal edge are dropped and logged rather than applied.
var validTransitions = map[FileStatus][]FileStatus{
	StatusWaiting:      {StatusUploading},
	StatusUploading:    {StatusUploaded, StatusUploadFailed},
	StatusUploaded:     {StatusTransforming},
	StatusTransforming: {StatusTransformComplete, StatusTransformFailed},
}

// FileState is one file's view inside a batch report.
type FileState struct {
	Name   string     `json:"name"`
	Status FileStatus `json:"status"`
	FileID uuid.UUID  `json:"file_id,omitempty"`
	URL    string     `json:"url,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// BatchReport is the queryable snapshot of an intake batch.
type BatchReport struct {
	ID        uuid.UUID   `json:"id"`
	Files     []FileState `json:"files"`
	Done      bool        `json:"done"`
	CreatedAt time.Time   `json:"created_at"`
}

// UploadInput is one incoming document for an intake batch.
type UploadInput struct {
	Name        string
	ContentType string
	SizeBytes   int64
	Reader      io.Reader
}

// IntakeService runs the upload-then-transform pipeline. The upload phase is
// fail-fast across the batch; the transform phase settles every file
// independently. There is no retry, cancellation or idempotency key:
// resubmitting a batch duplicates its records.
type IntakeService interface {
	Run(ctx context.Context, files []UploadInput) (*BatchReport, error)
	RunBookUpsert(ctx context.Context, file UploadInput, orgProdID string) (*BatchReport, error)
	GetBatch(id uuid.UUID) (*BatchReport, error)
}

type intakeService struct {
	db          *gorm.DB
	log         *logger.Logger
	fileService FileService
	agent       docagent.Client

	useTransformV2 bool
	batchTTL       time.Duration

	mu      sync.RWMutex
	batches map[uuid.UUID]*BatchReport
}

func NewIntakeService(
	db *gorm.DB,
	baseLog *logger.Logger,
	fileService FileService,
	agent docagent.Client,
) IntakeService {
	serviceLog := baseLog.With("service", "IntakeService")
	useV2 := strings.EqualFold(utils.GetEnv("DOC_AGENT_USE_TRANSFORM_V2", "true", serviceLog), "true")
	ttlSec := utils.GetEnvAsInt("INTAKE_BATCH_TTL_SECONDS", 3600, serviceLog)
	return &intakeService{
		db:             db,
		log:            serviceLog,
		fileService:    fileService,
		agent:          agent,
		useTransformV2: useV2,
		batchTTL:       time.Duration(ttlSec) * time.Second,
		batches:        make(map[uuid.UUID]*BatchReport),
	}
}

func (is *intakeService) newBatch(files []UploadInput) *BatchReport {
	batch := &BatchReport{
		ID:        uuid.New(),
		Files:     make([]FileState, len(files)),
		CreatedAt: time.Now(),
	}
	for i, f := range files {
		batch.Files[i] = FileState{Name: f.Name, Status: StatusWaiting}
	}
	is.mu.Lock()
	is.evictExpired(batch.CreatedAt)
	is.batches[batch.ID] = batch
	is.mu.Unlock()
	return batch
}

// evictExpired drops settled reports older than the TTL so the registry
// stays bounded in a long-running process. Caller holds the mutex.
func (is *intakeService) evictExpired(now time.Time) {
	if is.batchTTL <= 0 {
		return
	}
	for id, b := range is.batches {
		if b.Done && now.Sub(b.CreatedAt) > is.batchTTL {
			delete(is.batches, id)
		}
	}
}

// merge applies a functional update to one file's state under the batch
// mutex, rejecting illegal status transitions.
func (is *intakeService) merge(batchID uuid.UUID, idx int, fn func(FileState) FileState) {
	is.mu.Lock()
	defer is.mu.Unlock()

	batch, ok := is.batches[batchID]
	if !ok || idx < 0 || idx >= len(batch.Files) {
		return
	}
	cur := batch.Files[idx]
	next := fn(cur)
	if next.Status != cur.Status && !transitionAllowed(cur.Status, next.Status) {
		is.log.Warn("Dropping illegal status transition",
			"batch_id", batchID, "file", cur.Name, "from", cur.Status, "to", next.Status)
		return
	}
	batch.Files[idx] = next
}

func transitionAllowed(from, to FileStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (is *intakeService) finish(batchID uuid.UUID) {
	is.mu.Lock()
	if batch, ok := is.batches[batchID]; ok {
		batch.Done = true
	}
	is.mu.Unlock()
}

func (is *intakeService) snapshot(batchID uuid.UUID) *BatchReport {
	is.mu.RLock()
	defer is.mu.RUnlock()

	batch, ok := is.batches[batchID]
	if !ok {
		return nil
	}
	out := &BatchReport{
		ID:        batch.ID,
		Files:     append([]FileState(nil), batch.Files...),
		Done:      batch.Done,
		CreatedAt: batch.CreatedAt,
	}
	return out
}

func (is *intakeService) GetBatch(id uuid.UUID) (*BatchReport, error) {
	if snap := is.snapshot(id); snap != nil {
		return snap, nil
	}
	return nil, apperrors.ErrNotFound
}

func validateBatch(files []UploadInput, fs FileService) error {
	if len(files) == 0 {
		return fmt.Errorf("%w: no files", apperrors.ErrInvalidArgument)
	}
	if len(files) > MaxIntakeFiles {
		return fmt.Errorf("%w: %d files exceeds limit of %d", apperrors.ErrInvalidArgument, len(files), MaxIntakeFiles)
	}
	for _, f := range files {
		if !fs.IsAllowedMimeType(f.ContentType) {
			return fmt.Errorf("%w: %q has unsupported content type %q", apperrors.ErrInvalidArgument, f.Name, f.ContentType)
		}
	}
	return nil
}

func (is *intakeService) Run(ctx context.Context, files []UploadInput) (*BatchReport, error) {
	if err := validateBatch(files, is.fileService); err != nil {
		return nil, err
	}

	batch := is.newBatch(files)

	ids, err := is.uploadAndRegister(ctx, batch.ID, files)
	if err != nil {
		is.finish(batch.ID)
		return is.snapshot(batch.ID), err
	}

	is.transformAll(ctx, batch.ID, ids)
	// Mark done before snapshotting so the returned report agrees with
	// what a later GetBatch reads.
	is.finish(batch.ID)
	return is.snapshot(batch.ID), nil
}

func (is *intakeService) RunBookUpsert(ctx context.Context, file UploadInput, orgProdID string) (*BatchReport, error) {
	// Validated before any side effect.
	orgProdID = strings.TrimSpace(orgProdID)
	if orgProdID == "" {
		return nil, fmt.Errorf("%w: org_prod_id required", apperrors.ErrInvalidArgument)
	}
	files := []UploadInput{file}
	if err := validateBatch(files, is.fileService); err != nil {
		return nil, err
	}

	batch := is.newBatch(files)

	ids, err := is.uploadAndRegister(ctx, batch.ID, files)
	if err != nil {
		is.finish(batch.ID)
		return is.snapshot(batch.ID), err
	}

	is.merge(batch.ID, 0, func(s FileState) FileState {
		s.Status = StatusTransforming
		return s
	})
	if err := is.agent.UpsertBook(ctx, ids[0], orgProdID); err != nil {
		is.merge(batch.ID, 0, func(s FileState) FileState {
			s.Status = StatusTransformFailed
			s.Error = transformErrorMessage(err)
			return s
		})
		is.finish(batch.ID)
		return is.snapshot(batch.ID), nil
	}
	is.merge(batch.ID, 0, func(s FileState) FileState {
		s.Status = StatusTransformComplete
		return s
	})
	is.finish(batch.ID)
	return is.snapshot(batch.ID), nil
}

// uploadAndRegister runs the fail-fast upload phase, then one batch insert
// of the stored-file records. Ids come back aligned with the input order.
func (is *intakeService) uploadAndRegister(ctx context.Context, batchID uuid.UUID, files []UploadInput) ([]uuid.UUID, error) {
	urls := make([]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i := range files {
		i := i
		f := files[i]
		g.Go(func() error {
			is.merge(batchID, i, func(s FileState) FileState {
				s.Status = StatusUploading
				return s
			})
			url, err := is.fileService.UploadDocument(gctx, f.Name, f.ContentType, f.SizeBytes, f.Reader)
			if err != nil {
				is.merge(batchID, i, func(s FileState) FileState {
					s.Status = StatusUploadFailed
					s.Error = err.Error()
					return s
				})
				return err
			}
			urls[i] = url
			is.merge(batchID, i, func(s FileState) FileState {
				s.Status = StatusUploaded
				s.URL = url
				return s
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		is.log.Error("Intake upload phase failed", "batch_id", batchID, "error", err)
		return nil, fmt.Errorf("upload phase: %w", err)
	}

	inputs := make([]FileRecordInput, len(files))
	for i, f := range files {
		inputs[i] = FileRecordInput{
			Name:      f.Name,
			URL:       urls[i],
			MimeType:  f.ContentType,
			SizeBytes: f.SizeBytes,
		}
	}
	ids, err := is.fileService.RegisterFiles(ctx, nil, inputs)
	if err != nil {
		is.log.Error("Intake register phase failed", "batch_id", batchID, "error", err)
		return nil, err
	}
	for i, id := range ids {
		id := id
		is.merge(batchID, i, func(s FileState) FileState {
			s.FileID = id
			return s
		})
	}
	return ids, nil
}

// transformAll settles every file independently; one failure never cancels
// the rest of the batch.
func (is *intakeService) transformAll(ctx context.Context, batchID uuid.UUID, ids []uuid.UUID) {
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			is.merge(batchID, i, func(s FileState) FileState {
				s.Status = StatusTransforming
				return s
			})

			var err error
			if is.useTransformV2 {
				err = is.agent.TransformV2(ctx, id)
			} else {
				err = is.agent.Transform(ctx, id)
			}
			if err != nil {
				is.log.Error("Transform failed", "batch_id", batchID, "file_id", id, "error", err)
				is.merge(batchID, i, func(s FileState) FileState {
					s.Status = StatusTransformFailed
					s.Error = transformErrorMessage(err)
					return s
				})
				return
			}
			is.merge(batchID, i, func(s FileState) FileState {
				s.Status = StatusTransformComplete
				return s
			})
		}(i, id)
	}
	wg.Wait()
}

func transformErrorMessage(err error) string {
	if httpx.IsTimeout(err) {
		return "transform timed out"
	}
	return err.Error()
}
