package store

import "errors"

var (
	// ErrStateNotFound indicates no snapshot exists under the given label.
	ErrStateNotFound = errors.New("store: state not found")

	// ErrDecryptFailed indicates the snapshot could not be decrypted, most
	// commonly because the password is wrong.
	ErrDecryptFailed = errors.New("store: decryption failed")

	// ErrPasswordRequired indicates an encrypted snapshot was loaded without
	// a password.
	ErrPasswordRequired = errors.New("store: password required")

	// ErrEmptyLabel indicates an empty snapshot label.
	ErrEmptyLabel = errors.New("store: empty label")
)
