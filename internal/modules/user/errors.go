package user

import "errors"

var (
	ErrNotFound         = errors.New("user not found")
	ErrAlreadyPremium   = errors.New("user already premium")
	ErrCannotPromote    = errors.New("cannot promote an administrator")
)
