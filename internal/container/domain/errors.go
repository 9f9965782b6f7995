package domain

import (
	"github.com/allisson/tokenbox/internal/errors"
)

// Container error definitions. The numeric codes attached here are part of
// the external result envelope and must survive to the HTTP boundary.
var (
	// ErrContainerNotFound indicates no container exists with the given serial.
	ErrContainerNotFound = errors.WithCode(
		errors.Wrap(errors.ErrNotFound, "unable to find container with this serial"),
		601,
	)

	// ErrMissingType indicates the container type parameter was absent.
	ErrMissingType = errors.WithCode(
		errors.Wrap(errors.ErrMissingParameter, "missing container type"),
		404,
	)

	// ErrUnsupportedType indicates an unknown container type name.
	ErrUnsupportedType = errors.WithCode(
		errors.Wrap(errors.ErrUnsupportedType, "type is not a valid container type"),
		404,
	)

	// ErrAlreadyAssigned indicates the container already has a different owner.
	ErrAlreadyAssigned = errors.WithCode(
		errors.Wrap(errors.ErrConflict, "this container is already assigned to another user"),
		301,
	)

	// ErrMissingSerial indicates the serial parameter was absent.
	ErrMissingSerial = errors.WithCode(
		errors.Wrap(errors.ErrMissingParameter, "missing serial"),
		905,
	)

	// ErrMissingDescription indicates the description parameter was absent.
	ErrMissingDescription = errors.WithCode(
		errors.Wrap(errors.ErrMissingParameter, "missing description"),
		905,
	)

	// ErrMissingInfoValue indicates the info value parameter was absent.
	ErrMissingInfoValue = errors.WithCode(
		errors.Wrap(errors.ErrMissingParameter, "missing value"),
		905,
	)

	// ErrMissingRealms indicates the realms parameter was absent.
	ErrMissingRealms = errors.WithCode(
		errors.Wrap(errors.ErrMissingParameter, "missing realms"),
		905,
	)

	// ErrTemplateNotFound indicates no template exists with the given name.
	ErrTemplateNotFound = errors.Wrap(errors.ErrNotFound, "unable to find template with this name")
)
