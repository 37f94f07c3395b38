package services

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/vkazlou/askpdf/internal/client/client"
	"github.com/vkazlou/askpdf/internal/client/models"
	"github.com/vkazlou/askpdf/internal/client/repositories/documents"
	"github.com/vkazlou/askpdf/internal/client/repositories/metadata"
	"github.com/vkazlou/askpdf/internal/client/repositories/tempdocs"
	"github.com/vkazlou/askpdf/internal/client/state"
	"github.com/vkazlou/askpdf/internal/common"
	"github.com/vkazlou/askpdf/internal/cryptox"
	"github.com/vkazlou/askpdf/internal/filex"
	"github.com/vkazlou/askpdf/internal/logging"
	"github.com/vkazlou/askpdf/internal/netx"
)

// metadata keys for the at-rest sealing key material
const (
	metaSealSecret = "seal_secret"
	metaSealSalt   = "seal_salt"
)

const (
	uploadAttempts = 3
	pollAttempts   = 60
)

// DocumentService drives the upload pipeline: validate, authorize, push to
// storage, cache the payload locally, and wait for backend processing.
type DocumentService interface {
	Upload(ctx context.Context, filePath string) (string, error)
	WaitReady(ctx context.Context, docID string) (*client.DocumentStatus, error)
	Pending(ctx context.Context) ([]*models.TempDocument, error)
	Export(ctx context.Context, docID string) (string, error)
}

type documentService struct {
	client   client.Client
	docRepo  documents.Repository
	tempRepo tempdocs.Repository
	metaRepo metadata.Repository
	state    *state.AppState
	log      logging.Logger

	// paces both status polling and storage upload retries
	pollInterval time.Duration
}

func NewDocumentService(
	client client.Client,
	docRepo documents.Repository,
	tempRepo tempdocs.Repository,
	metaRepo metadata.Repository,
	st *state.AppState,
	log logging.Logger,
	pollInterval time.Duration,
) DocumentService {
	return &documentService{
		client:       client,
		docRepo:      docRepo,
		tempRepo:     tempRepo,
		metaRepo:     metaRepo,
		state:        st,
		log:          log,
		pollInterval: pollInterval,
	}
}

// ValidatePDF checks the payload's sniffed media type. Only
// application/pdf passes; everything else fails with
// common.ErrorInvalidFileType before any network call.
func ValidatePDF(payload []byte) error {
	if http.DetectContentType(payload) != "application/pdf" {
		return common.ErrorInvalidFileType
	}
	return nil
}

// Upload pushes a PDF through the full pipeline: validate the payload,
// obtain an upload authorization, POST the multipart form directly to the
// storage URL (with bounded retries), then cache the sealed payload locally
// under the server-assigned id. Nothing is persisted and no state changes
// until the storage upload has succeeded, so a failed upload leaves no
// partial state behind.
func (s *documentService) Upload(ctx context.Context, filePath string) (string, error) {
	payload, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	if err := ValidatePDF(payload); err != nil {
		return "", err
	}

	fileName := filepath.Base(filePath)
	session, err := s.client.CreateUploadSession(ctx, fileName)
	if err != nil {
		return "", fmt.Errorf("upload authorization: %w", err)
	}

	backoff := retry.WithMaxRetries(uploadAttempts, retry.NewConstant(s.pollInterval))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := netx.UploadToPresignedPOST(ctx, session.URL, session.Fields, fileName, payload); err != nil {
			s.log.Debug(ctx, "storage upload attempt failed", "doc_id", session.DocID, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("storage upload: %w", err)
	}

	key, err := s.storeKey(ctx)
	if err != nil {
		return "", err
	}
	sealed, nonce, err := cryptox.Seal(payload, key)
	if err != nil {
		return "", fmt.Errorf("seal payload: %w", err)
	}

	td := &models.TempDocument{
		ID:        session.DocID,
		FileName:  fileName,
		Payload:   sealed,
		Nonce:     nonce,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tempRepo.Add(ctx, td); err != nil {
		return "", fmt.Errorf("cache payload: %w", err)
	}

	s.state.SetActiveDocument(session.DocID)
	return session.DocID, nil
}

// WaitReady polls the processing status at a constant interval until the
// backend reports a terminal state. On success the document moves to the
// finalized partition and the cached payload record is dropped.
func (s *documentService) WaitReady(ctx context.Context, docID string) (*client.DocumentStatus, error) {
	var status *client.DocumentStatus

	backoff := retry.WithMaxRetries(pollAttempts, retry.NewConstant(s.pollInterval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		st, err := s.client.DocumentStatus(ctx, docID)
		if err != nil {
			return retry.RetryableError(err)
		}
		if st.Status == models.DocumentStatusProcessing {
			return retry.RetryableError(fmt.Errorf("document %s still processing", docID))
		}
		status = st
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("status poll: %w", err)
	}

	if status.Status == models.DocumentStatusFailed {
		return status, fmt.Errorf("processing failed for document %s", docID)
	}

	doc := &models.Document{
		ID:        status.DocID,
		Title:     status.Title,
		CreatedAt: status.CreatedAt,
		UpdatedAt: status.UpdatedAt,
	}
	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("persist document: %w", err)
	}
	if err := s.tempRepo.Delete(ctx, docID); err != nil {
		s.log.Warn(ctx, "failed to drop cached payload", "doc_id", docID, "error", err)
	}

	return status, nil
}

// Pending lists cached uploads still awaiting backend processing.
func (s *documentService) Pending(ctx context.Context) ([]*models.TempDocument, error) {
	return s.tempRepo.GetAll(ctx)
}

// Export writes the decrypted cached payload to the downloads directory and
// returns the written path.
func (s *documentService) Export(ctx context.Context, docID string) (string, error) {
	td, err := s.tempRepo.Get(ctx, docID)
	if err != nil {
		return "", err
	}
	if td == nil {
		return "", fmt.Errorf("%w: no cached payload for document %s", common.ErrorNotFound, docID)
	}

	key, err := s.storeKey(ctx)
	if err != nil {
		return "", err
	}
	plain, err := cryptox.Open(td.Payload, td.Nonce, key)
	if err != nil {
		return "", fmt.Errorf("open payload: %w", err)
	}

	dir, err := filex.EnsureSubDir("downloads")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, td.FileName)
	if err := os.WriteFile(path, plain, 0o600); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

// storeKey returns the at-rest sealing key, generating and persisting the
// per-install secret and salt on first use.
func (s *documentService) storeKey(ctx context.Context) ([]byte, error) {
	secret, err := s.metaRepo.Get(ctx, metaSealSecret)
	if err != nil {
		return nil, err
	}
	salt, err := s.metaRepo.Get(ctx, metaSealSalt)
	if err != nil {
		return nil, err
	}

	if secret == nil || salt == nil {
		secret = common.GenerateRandByteArray(32)
		salt = common.GenerateRandByteArray(16)
		if err := s.metaRepo.Set(ctx, metaSealSecret, secret); err != nil {
			return nil, err
		}
		if err := s.metaRepo.Set(ctx, metaSealSalt, salt); err != nil {
			return nil, err
		}
	}

	return cryptox.DeriveStoreKey(secret, salt), nil
}
