package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"sync"

	"github.com/example/container-market/internal/readmodel"
)

// PostgresReadStore implements ReadStoreInterface on a single read_models
// table (collection, id, data jsonb). Read models are projections that can
// always be rebuilt from the event log, so a document table is enough; no
// per-collection DDL to keep in sync with the models.
type PostgresReadStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// collectionTypes maps a collection name to a factory for its read model
// type, so rows can be decoded back into the same pointer types the
// in-memory store holds.
var collectionTypes = map[string]func() any{
	"listings":          func() any { return &readmodel.ListingReadModel{} },
	"carts":             func() any { return &readmodel.CartReadModel{} },
	"quotes":            func() any { return &readmodel.QuoteReadModel{} },
	"shipping_requests": func() any { return &readmodel.ShippingRequestReadModel{} },
	"transport_options": func() any { return &readmodel.TransportOptionSetReadModel{} },
	"bookings":          func() any { return &readmodel.BookingReadModel{} },
	"documents":         func() any { return &readmodel.DocumentBatchReadModel{} },
	"tracking":          func() any { return &readmodel.TrackingHistoryReadModel{} },
	"incidents":         func() any { return &readmodel.IncidentReadModel{} },
	"notifications":     func() any { return &readmodel.NotificationReadModel{} },
	"accounts":          func() any { return &readmodel.AccountReadModel{} },
}

// NewPostgresReadStore creates a new PostgreSQL-backed read store
func NewPostgresReadStore(db *sql.DB) *PostgresReadStore {
	return &PostgresReadStore{db: db}
}

// Set stores a read model
func (rs *PostgresReadStore) Set(collection, id string, data any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("[ReadStore] Failed to marshal %s/%s: %v", collection, id, err)
		return
	}

	_, err = rs.db.ExecContext(context.Background(),
		`INSERT INTO read_models (collection, id, data)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data`,
		collection, id, jsonData,
	)
	if err != nil {
		log.Printf("[ReadStore] Failed to set %s/%s: %v", collection, id, err)
	}
}

// Get retrieves a read model by id
func (rs *PostgresReadStore) Get(collection, id string) (any, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	var jsonData []byte
	err := rs.db.QueryRowContext(context.Background(),
		`SELECT data FROM read_models WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&jsonData)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		log.Printf("[ReadStore] Failed to get %s/%s: %v", collection, id, err)
		return nil, false
	}

	return rs.decode(collection, id, jsonData)
}

// GetAll retrieves all items in a collection
func (rs *PostgresReadStore) GetAll(collection string) []any {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	rows, err := rs.db.QueryContext(context.Background(),
		`SELECT id, data FROM read_models WHERE collection = $1`,
		collection,
	)
	if err != nil {
		log.Printf("[ReadStore] Failed to list %s: %v", collection, err)
		return nil
	}
	defer rows.Close()

	var items []any
	for rows.Next() {
		var id string
		var jsonData []byte
		if err := rows.Scan(&id, &jsonData); err != nil {
			continue
		}
		if item, ok := rs.decode(collection, id, jsonData); ok {
			items = append(items, item)
		}
	}
	return items
}

// Delete removes a read model
func (rs *PostgresReadStore) Delete(collection, id string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	_, err := rs.db.ExecContext(context.Background(),
		`DELETE FROM read_models WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	if err != nil {
		log.Printf("[ReadStore] Failed to delete %s/%s: %v", collection, id, err)
	}
}

// Update modifies a read model using an update function
func (rs *PostgresReadStore) Update(collection, id string, updateFn func(current any) any) bool {
	current, ok := rs.Get(collection, id)
	if !ok {
		return false
	}
	rs.Set(collection, id, updateFn(current))
	return true
}

func (rs *PostgresReadStore) decode(collection, id string, jsonData []byte) (any, bool) {
	newModel, ok := collectionTypes[collection]
	if !ok {
		log.Printf("[ReadStore] Unknown collection %q", collection)
		return nil, false
	}
	model := newModel()
	if err := json.Unmarshal(jsonData, model); err != nil {
		log.Printf("[ReadStore] Failed to decode %s/%s: %v", collection, id, err)
		return nil, false
	}
	return model, true
}
