package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vkazlou/askpdf/internal/client/client"
	"github.com/vkazlou/askpdf/internal/client/models"
	"github.com/vkazlou/askpdf/internal/client/state"
	"github.com/vkazlou/askpdf/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pdfPayload = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")

func writeTempPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, pdfPayload, 0o600))
	return path
}

func newDocumentService(fc *fakeClient, repos *client.Repositories, st *state.AppState) DocumentService {
	return NewDocumentService(fc, repos.Documents, repos.TempDocuments, repos.Metadata, st, testLogger(), time.Millisecond)
}

func TestValidatePDF(t *testing.T) {
	require.NoError(t, ValidatePDF(pdfPayload))

	err := ValidatePDF([]byte("plain text, definitely not a pdf"))
	require.ErrorIs(t, err, common.ErrorInvalidFileType)

	err = ValidatePDF([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}) // png magic
	require.ErrorIs(t, err, common.ErrorInvalidFileType)
}

func TestUpload_NonPDFMakesNoNetworkCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world, this is text"), 0o600))

	fc := &fakeClient{}
	svc := newDocumentService(fc, setupRepos(t), state.New())

	_, err := svc.Upload(context.Background(), path)
	require.ErrorIs(t, err, common.ErrorInvalidFileType)
	assert.Zero(t, fc.sessionCalls)
}

func TestUpload_FieldsPrecedeFileAndPayloadCached(t *testing.T) {
	var sawFieldBeforeFile bool
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		sawFieldBeforeFile = r.FormValue("key") == "docs/d1.pdf"
		w.WriteHeader(http.StatusNoContent)
	}))
	defer storage.Close()

	fc := &fakeClient{uploadSession: &client.UploadSession{
		DocID:  "d1",
		URL:    storage.URL,
		Fields: map[string]string{"key": "docs/d1.pdf"},
	}}
	repos := setupRepos(t)
	st := state.New()
	svc := newDocumentService(fc, repos, st)

	docID, err := svc.Upload(context.Background(), writeTempPDF(t))
	require.NoError(t, err)
	assert.Equal(t, "d1", docID)
	assert.True(t, sawFieldBeforeFile)
	assert.Equal(t, "d1", st.ActiveDocumentID())

	td, err := repos.TempDocuments.Get(context.Background(), "d1")
	require.NoError(t, err)
	require.NotNil(t, td)
	assert.Equal(t, "report.pdf", td.FileName)
	// sealed at rest
	assert.NotEqual(t, pdfPayload, td.Payload)
	assert.Len(t, td.Nonce, 12)
}

func TestUpload_StorageFailureLeavesNoPartialState(t *testing.T) {
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer storage.Close()

	fc := &fakeClient{uploadSession: &client.UploadSession{DocID: "d1", URL: storage.URL}}
	repos := setupRepos(t)
	st := state.New()

	svc := NewDocumentService(fc, repos.Documents, repos.TempDocuments, repos.Metadata, st, testLogger(), time.Millisecond)
	_, err := svc.Upload(context.Background(), writeTempPDF(t))
	require.Error(t, err)

	td, err := repos.TempDocuments.Get(context.Background(), "d1")
	require.NoError(t, err)
	assert.Nil(t, td)
	assert.Empty(t, st.ActiveDocumentID())
}

func TestWaitReady_PollsUntilProcessedAndFinalizes(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	require.NoError(t, repos.TempDocuments.Add(ctx, &models.TempDocument{ID: "d1", FileName: "report.pdf"}))

	fc := &fakeClient{statuses: []*client.DocumentStatus{
		{DocID: "d1", Status: models.DocumentStatusProcessing},
		{DocID: "d1", Status: models.DocumentStatusProcessing},
		{DocID: "d1", Status: models.DocumentStatusProcessed, Title: "report.pdf"},
	}}
	svc := newDocumentService(fc, repos, state.New())

	status, err := svc.WaitReady(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusProcessed, status.Status)

	doc, err := repos.Documents.Get(ctx, "d1")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "report.pdf", doc.Title)

	td, err := repos.TempDocuments.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Nil(t, td)
}

func TestWaitReady_FailedProcessingKeepsCachedPayload(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	require.NoError(t, repos.TempDocuments.Add(ctx, &models.TempDocument{ID: "d1", FileName: "report.pdf"}))

	fc := &fakeClient{statuses: []*client.DocumentStatus{
		{DocID: "d1", Status: models.DocumentStatusFailed},
	}}
	svc := newDocumentService(fc, repos, state.New())

	status, err := svc.WaitReady(ctx, "d1")
	require.Error(t, err)
	require.NotNil(t, status)
	assert.Equal(t, models.DocumentStatusFailed, status.Status)

	td, err := repos.TempDocuments.Get(ctx, "d1")
	require.NoError(t, err)
	assert.NotNil(t, td)
}

func TestWaitReady_TransportErrorsAreRetriedThenPropagated(t *testing.T) {
	repos := setupRepos(t)
	fc := &fakeClient{statusErr: errors.New("connection refused")}
	svc := newDocumentService(fc, repos, state.New())

	_, err := svc.WaitReady(context.Background(), "d1")
	require.Error(t, err)
}

func TestExport_UnknownDocument(t *testing.T) {
	svc := newDocumentService(&fakeClient{}, setupRepos(t), state.New())

	_, err := svc.Export(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUploadThenExport_RoundTripsPayload(t *testing.T) {
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer storage.Close()

	home := t.TempDir()
	t.Setenv("HOME", home)

	fc := &fakeClient{uploadSession: &client.UploadSession{DocID: "d1", URL: storage.URL}}
	repos := setupRepos(t)
	svc := newDocumentService(fc, repos, state.New())

	ctx := context.Background()
	docID, err := svc.Upload(ctx, writeTempPDF(t))
	require.NoError(t, err)

	path, err := svc.Export(ctx, docID)
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pdfPayload, got)
}
