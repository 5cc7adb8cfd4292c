// Package services contains server-side business logic. This file implements
// BlobService: streaming ingestion into the object store behind a durable
// ledger row, and claiming completed uploads as permanent files.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/sbts/internal/common"
	"github.com/dmitrijs2005/sbts/internal/dbx"
	"github.com/dmitrijs2005/sbts/internal/logging"
	"github.com/dmitrijs2005/sbts/internal/server/config"
	"github.com/dmitrijs2005/sbts/internal/server/models"
	"github.com/dmitrijs2005/sbts/internal/server/objstore"
	"github.com/dmitrijs2005/sbts/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// claimInput carries the fields of a claim that are checked against the
// File schema before anything is written.
type claimInput struct {
	Name string `validate:"required,max=255,nonul"`
}

// noNUL rejects strings containing U+0000, which PostgreSQL text columns
// cannot store.
func noNUL(fl validator.FieldLevel) bool {
	return !strings.ContainsRune(fl.Field().String(), 0)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("nonul", noNUL); err != nil {
		panic(err)
	}
	return v
}

// BlobService coordinates the upload ledger, the file table and the object
// store. Ingest and Claim are the only writers of ledger state.
type BlobService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       objstore.ObjectStore
	bucket      string
	chunkSize   int64
	logger      logging.Logger
	validate    *validator.Validate

	newID func() string
}

// NewBlobService wires a BlobService from explicit dependencies. Only the
// bucket and chunk size are read from cfg.
func NewBlobService(db *sql.DB, m repomanager.RepositoryManager, store objstore.ObjectStore, cfg *config.Config, logger logging.Logger) *BlobService {
	chunk := cfg.S3ChunkSize
	if chunk <= 0 {
		chunk = common.DefaultChunkSize
	}
	return &BlobService{
		db:          db,
		repomanager: m,
		store:       store,
		bucket:      cfg.S3Bucket,
		chunkSize:   chunk,
		logger:      logger.With("module", "blobs"),
		validate:    newValidator(),
		newID:       uuid.NewString,
	}
}

// Ingest streams r into the object store under a fresh key and returns the
// key once the upload is recorded as completed.
//
// The ledger row is committed before the first object store call. If any
// later step fails the row is left in the uploading state with no size, and
// the multipart upload is not aborted. Calling Ingest inside a transaction
// opened with dbx.WithTx returns common.ErrNestedTransaction and writes nothing.
func (s *BlobService) Ingest(ctx context.Context, r io.Reader, owner string) (string, error) {
	if dbx.InTx(ctx) {
		return "", common.ErrNestedTransaction
	}
	if len([]rune(owner)) > common.MaxOwnerLength {
		return "", fmt.Errorf("%w: owner longer than %d characters", common.ErrorValidation, common.MaxOwnerLength)
	}

	id := s.newID()
	log := s.logger.With("id", id, "owner", owner)

	err := dbx.WithDurableTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Uploads(tx).Create(ctx, &models.ProvisionalUpload{
			ID:     id,
			Status: models.UploadStatusUploading,
			Owner:  owner,
		})
	})
	if err != nil {
		return "", fmt.Errorf("failed to record upload: %w", err)
	}
	log.Info(ctx, "upload started")

	uploadID, err := s.store.CreateMultipart(ctx, s.bucket, id)
	if err != nil {
		return "", s.storeFailure(ctx, log, "create multipart", err)
	}

	var (
		parts []objstore.CompletedPart
		total int64
		buf   = make([]byte, s.chunkSize)
	)
	for {
		n, readErr := io.ReadFull(r, buf)
		if n > 0 {
			if err := s.uploadPart(ctx, log, id, uploadID, buf[:n], &parts); err != nil {
				return "", err
			}
			total += int64(n)
		}
		if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
			break
		}
		if readErr != nil {
			log.Error(ctx, "reading upload stream failed", "error", readErr)
			return "", fmt.Errorf("%w: %w", common.ErrReadStream, readErr)
		}
	}

	// A multipart upload cannot complete without parts.
	if len(parts) == 0 {
		if err := s.uploadPart(ctx, log, id, uploadID, []byte{}, &parts); err != nil {
			return "", err
		}
	}

	if err := s.store.CompleteMultipart(ctx, s.bucket, id, uploadID, parts); err != nil {
		return "", s.storeFailure(ctx, log, "complete multipart", err)
	}

	err = dbx.WithDurableTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Uploads(tx).MarkCompleted(ctx, id, total)
	})
	if err != nil {
		return "", fmt.Errorf("failed to mark upload completed: %w", err)
	}

	log.Info(ctx, "upload completed", "size", total, "parts", len(parts))
	return id, nil
}

func (s *BlobService) uploadPart(ctx context.Context, log logging.Logger, id, uploadID string, chunk []byte, parts *[]objstore.CompletedPart) error {
	partNumber := int32(len(*parts) + 1)
	etag, err := s.store.UploadPart(ctx, s.bucket, id, uploadID, partNumber, chunk)
	if err != nil {
		return s.storeFailure(ctx, log, fmt.Sprintf("upload part %d", partNumber), err)
	}
	log.Debug(ctx, "part uploaded", "part", partNumber, "bytes", len(chunk))
	*parts = append(*parts, objstore.CompletedPart{PartNumber: partNumber, ETag: etag})
	return nil
}

func (s *BlobService) storeFailure(ctx context.Context, log logging.Logger, step string, err error) error {
	log.Error(ctx, "object store call failed", "step", step, "error", err)
	return fmt.Errorf("%w: %s: %w", common.ErrObjectStore, step, err)
}

// Claim converts the caller's completed upload id into a File named name.
// Lookup, insert and ledger delete share one transaction. Any textual form
// of the id accepted by uuid.Parse is reduced to the canonical lowercase form
// before it reaches the database.
func (s *BlobService) Claim(ctx context.Context, id, owner, name string, ts time.Time) (*models.File, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed blob key %q", common.ErrorValidation, id)
	}
	id = u.String()
	if len([]rune(owner)) > common.MaxOwnerLength {
		return nil, common.ErrorNotFound
	}

	var file *models.File
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		uploads := s.repomanager.Uploads(tx)

		up, err := uploads.GetCompletedForOwner(ctx, id, owner)
		if err != nil {
			return err
		}

		if err := s.validate.Struct(claimInput{Name: name}); err != nil {
			return fmt.Errorf("%w: filename: %w", common.ErrorValidation, err)
		}

		f := &models.File{
			Key:          up.ID,
			Name:         name,
			LastModified: ts.UTC(),
			Size:         up.Size.Int64,
			Owner:        owner,
		}
		if err := s.repomanager.Files(tx).Create(ctx, f); err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		if err := uploads.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete upload: %w", err)
		}
		file = f
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "claim target not found", "id", id, "owner", owner)
		}
		return nil, err
	}

	s.logger.Info(ctx, "upload claimed", "id", id, "owner", owner, "name", name, "size", file.Size)
	return file, nil
}

// Open returns the File stored under key together with its content.
// The caller must close the returned reader.
func (s *BlobService) Open(ctx context.Context, key string) (*models.File, io.ReadCloser, int64, error) {
	u, err := uuid.Parse(key)
	if err != nil {
		return nil, nil, 0, common.ErrorNotFound
	}

	file, err := s.repomanager.Files(s.db).GetByKey(ctx, u.String())
	if err != nil {
		return nil, nil, 0, err
	}

	body, size, err := s.store.GetObject(ctx, s.bucket, file.Key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "file record without object", "key", file.Key)
			return nil, nil, 0, err
		}
		return nil, nil, 0, fmt.Errorf("%w: get object: %w", common.ErrObjectStore, err)
	}
	return file, body, size, nil
}

// ListFiles returns every File ordered by name, then last modified, then key.
func (s *BlobService) ListFiles(ctx context.Context) ([]*models.File, error) {
	return s.repomanager.Files(s.db).List(ctx)
}

// StaleUploads lists uploads still in the uploading state that were started
// more than olderThan ago by the database clock.
func (s *BlobService) StaleUploads(ctx context.Context, olderThan time.Duration) ([]*models.ProvisionalUpload, error) {
	return s.repomanager.Uploads(s.db).ListStale(ctx, olderThan)
}

// ReportStaleUploads logs one warning per stale upload and returns how many
// were found. Nothing is aborted or deleted.
func (s *BlobService) ReportStaleUploads(ctx context.Context, olderThan time.Duration) (int, error) {
	stale, err := s.StaleUploads(ctx, olderThan)
	if err != nil {
		return 0, err
	}
	for _, u := range stale {
		s.logger.Warn(ctx, "stale upload", "id", u.ID, "owner", u.Owner, "created_at", u.CreatedAt)
	}
	return len(stale), nil
}
