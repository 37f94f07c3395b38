package models

import "time"

// Document processing states reported by the backend.
const (
	DocumentStatusProcessing = "processing"
	DocumentStatusProcessed  = "processed"
	DocumentStatusFailed     = "failed"
)

// Document mirrors a server document record once processing has finished.
// The id is assigned by the upload-authorization step, never by the client.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TempDocument holds the raw uploaded payload until the backend reports the
// document processed. The payload is sealed at rest with AES-GCM; Nonce is
// the matching nonce.
type TempDocument struct {
	ID        string
	FileName  string
	Payload   []byte
	Nonce     []byte
	CreatedAt time.Time
}
