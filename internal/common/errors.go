// Package common contains shared constants and sentinel errors used across
// askpdf components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrorDuplicateKey = errors.New("duplicate key")
	ErrorFailedBatch  = errors.New("batch upsert failed")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors, raised before any network or storage call.
	ErrorInvalidFileType = errors.New("invalid file type, only PDF is supported")
	ErrorNoSendTarget    = errors.New("no document or conversation to send the message to")
	ErrorUnknownProvider = errors.New("unknown oauth provider")
)
