package user

import "errors"

var (
	ErrInvalidToken         = errors.New("invalid or missing token")
	ErrHRAccessRequired     = errors.New("hr or admin access required")
	ErrViewerAccessRequired = errors.New("manager or hr access required")
)
