package employee

import "errors"

var (
	ErrInvalidID             = errors.New("employee: invalid id")
	ErrEmployeeNotFound      = errors.New("employee: not found")
	ErrEmployeeAlreadyExists = errors.New("employee: already exists")
	ErrDirectReportNotFound  = errors.New("employee: direct report not found")
)
