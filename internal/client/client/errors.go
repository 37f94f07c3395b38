package client

import "errors"

var (
	ErrUnavailable        = errors.New("server unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrDecode             = errors.New("malformed server response")
	ErrStorageUnavailable = errors.New("local storage unavailable")
)
