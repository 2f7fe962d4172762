package library

import "errors"

var (
	// ErrUnknownTexture indicates a reference to a texture the library does
	// not define.
	ErrUnknownTexture = errors.New("unknown texture")

	// ErrUnknownMaterial indicates a reference to an undefined material.
	ErrUnknownMaterial = errors.New("unknown material")

	// ErrDuplicateName indicates two objects sharing a name.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrInvalidKind indicates an unsupported material kind.
	ErrInvalidKind = errors.New("invalid material kind")

	// ErrInvalidValue indicates a malformed field value.
	ErrInvalidValue = errors.New("invalid value")
)
