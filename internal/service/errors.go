package service

import "errors"

var (
	// ErrEmailTaken is returned when the users unique index rejects a
	// signup for an already registered email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password;
	// callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrDocumentNotVisible is returned both when a document id does not
	// exist and when it belongs to another user. Keeping the two cases
	// indistinguishable avoids leaking which ids exist.
	ErrDocumentNotVisible = errors.New("document not visible")

	// ErrBlobMissing means the catalog row exists but its blob is gone.
	ErrBlobMissing = errors.New("stored file missing")

	// ErrUnsupportedType is returned for disallowed upload extensions.
	ErrUnsupportedType = errors.New("unsupported file type")
)
