package errors

import "errors"

var (
	ErrTokenRequired  = errors.New("notion token is required")
	ErrTargetRequired = errors.New("either database_id or page_ids is required")
)
