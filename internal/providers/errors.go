package providers

import "errors"

var (
	// ErrProviderUnavailable is returned when a provider has nothing to delegate to.
	ErrProviderUnavailable = errors.New("team provider unavailable")
	// ErrUnsupportedFormat is returned for a teams file with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported teams file format")
)
