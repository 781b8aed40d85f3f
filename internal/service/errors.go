package service

import "errors"

// Errors returned by the domain operations. All are recoverable and meant to
// be translated into a response by the caller.
var (
	ErrDuplicateUsername     = errors.New("username already taken")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrInvalidCredential     = errors.New("invalid username or password")
	ErrBlocked               = errors.New("account is blocked")
	ErrInsufficientCredit    = errors.New("at least 1 credit is required")
	ErrNotASeller            = errors.New("only sellers can submit bids")
	ErrNotAdmin              = errors.New("admin access required")
	ErrNotFound              = errors.New("not found")
	ErrDuplicateCategoryName = errors.New("category name already exists")
	ErrUnknownCategory       = errors.New("unknown category")
	ErrUnknownPackage        = errors.New("unknown credit package")
	ErrInvalidAmount         = errors.New("amount must be non-zero")
	ErrInvalidInput          = errors.New("invalid input")
)
