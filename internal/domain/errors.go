package domain

import "errors"

var (
	ErrUnsupportedFormat    = errors.New("unsupported file format")
	ErrProfileBlockNotFound = errors.New("profile block not found")
	ErrUnbalancedBlock      = errors.New("unbalanced profile block")
	ErrMalformedFormat      = errors.New("malformed mod list")
	ErrInvalidDestination   = errors.New("invalid sync destination")
	ErrDecryptionFailure    = errors.New("decryption failed")
	ErrIO                   = errors.New("i/o failure")
	ErrCountLineMissing     = errors.New("active_mods count line not found")
	ErrProfileNotLoaded     = errors.New("profile not loaded")
	ErrNotReady             = errors.New("source and target must both be loaded")
	ErrGameNotFound         = errors.New("game not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrRunNotFound          = errors.New("sync run not found")
)
