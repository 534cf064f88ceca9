package container

import "errors"

var (
	// ErrInvalidFormat is returned for packed data or manifests that cannot
	// be parsed.
	ErrInvalidFormat = errors.New("container: invalid format")
	// ErrChecksum is returned when a stored buffer fails CRC verification.
	ErrChecksum = errors.New("container: checksum mismatch")
	// ErrUnknownCodec is returned when a container names a codec this build
	// does not know.
	ErrUnknownCodec = errors.New("container: unknown codec")
)
