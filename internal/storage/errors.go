package storage

import "errors"

var (
	ErrNotFound  = errors.New("registro não encontrado")
	ErrDuplicate = errors.New("registro duplicado")
	// ErrInUse is returned when a hard delete would orphan historical records.
	ErrInUse = errors.New("registro possui histórico vinculado")
)
