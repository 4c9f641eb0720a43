package model

import "errors"

// Error taxonomy of the inference core. Callers discriminate with
// errors.Is; every error produced by this package wraps exactly one of
// these sentinels.
var (
	// ErrModelLoad marks an artifact fetch/parse/validation failure.
	// The load attempt is fatal; nothing usable is returned.
	ErrModelLoad = errors.New("model load failed")

	// ErrSelfTest marks a load whose artifacts were read successfully
	// but whose sanity-check inference failed. The artifact is discarded.
	ErrSelfTest = errors.New("model self-test failed")

	// ErrNotLoaded marks an inference or recommendation call made
	// without a loaded artifact. Recoverable: load first, retry.
	ErrNotLoaded = errors.New("model not loaded")

	// ErrInference marks a shape mismatch or runtime failure during the
	// forward pass of an otherwise loaded artifact.
	ErrInference = errors.New("inference failed")
)
