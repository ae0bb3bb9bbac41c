package catalog

import "errors"

var (
	// ErrInvalidCatalog is returned when a catalog description is inconsistent.
	ErrInvalidCatalog = errors.New("lattice: invalid index catalog")

	// ErrUnknownEntityType is returned when no catalog is registered for an entity type.
	ErrUnknownEntityType = errors.New("lattice: unknown entity type")
)
