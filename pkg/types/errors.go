package types

import "errors"

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
