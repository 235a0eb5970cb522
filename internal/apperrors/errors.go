package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidTransition indicates that the requested action is not valid from the entity's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrInsufficientStock indicates a stock adjustment would drive available or reserved quantity negative.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrCreditLimitExceeded indicates a purchase order would push the vendor's payables above its credit limit.
var ErrCreditLimitExceeded = errors.New("vendor credit limit exceeded")

// ErrConflict indicates the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("resource state conflict")

// ErrUnauthorized indicates missing or invalid caller identity.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is not allowed to act on the resource.
var ErrForbidden = errors.New("forbidden")
