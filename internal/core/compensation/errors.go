package compensation

import "errors"

var (
	// ErrCompensationNotFound は対象社員の報酬レコードが存在しない場合に返却されます。
	ErrCompensationNotFound = errors.New("compensation: not found")
	// ErrEmployeeNotFound は参照先の社員が存在しない場合に返却されます。
	ErrEmployeeNotFound = errors.New("compensation: employee not found")
	// ErrAlreadyExists は ID が重複した場合に返却されます。
	ErrAlreadyExists = errors.New("compensation: already exists")
)
