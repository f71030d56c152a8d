package repository

import "errors"

// ErrNotFound is returned by repositories when the requested row does not
// exist. Services translate it into the API-level error for the operation.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned by UserRepository.Create when the email is
// already taken (unique constraint on users.email).
var ErrDuplicateEmail = errors.New("email already exists")
