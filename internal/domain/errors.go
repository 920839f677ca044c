package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrUserExists       = errors.New("user already exist")
	ErrAlreadyAdopted   = errors.New("already adopted this pet")
	ErrDuplicatePayment = errors.New("duplicate payment")
)
