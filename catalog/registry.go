package catalog

import "fmt"

// Registry holds the catalog of every queryable entity type.
// It is built once at startup and only read afterwards.
type Registry struct {
	catalogs []*Catalog
	byType   map[string]*Catalog
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		catalogs: []*Catalog{},
		byType:   make(map[string]*Catalog),
	}
}

// Register adds a catalog to the registry.
// This should only be called while the process starts.
func (r *Registry) Register(c *Catalog) error {
	if _, dup := r.byType[c.EntityType]; dup {
		return fmt.Errorf("%w: entity type %q registered twice", ErrInvalidCatalog, c.EntityType)
	}
	r.catalogs = append(r.catalogs, c)
	r.byType[c.EntityType] = c
	return nil
}

// Lookup returns the catalog for an entity type.
func (r *Registry) Lookup(entityType string) (*Catalog, error) {
	c, ok := r.byType[entityType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntityType, entityType)
	}
	return c, nil
}

// All returns all registered catalogs in registration order.
func (r *Registry) All() []*Catalog {
	return r.catalogs
}
