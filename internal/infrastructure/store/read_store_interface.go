package store

// ReadStoreInterface is the storage contract shared by the in-memory and
// PostgreSQL read stores. Collections map one-to-one to read model types;
// the projector writes through Set/Update and the query side reads through
// Get/GetAll.
type ReadStoreInterface interface {
	// Set stores or replaces a read model
	Set(collection, id string, data any)

	// Get retrieves a read model by id
	Get(collection, id string) (any, bool)

	// GetAll retrieves every item in a collection
	GetAll(collection string) []any

	// Delete removes a read model
	Delete(collection, id string)

	// Update applies updateFn to an existing model, returning false when absent
	Update(collection, id string, updateFn func(current any) any) bool
}
