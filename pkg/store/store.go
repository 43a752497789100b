// Package store provides persistence for named diagrams.
//
// This package defines an interface for diagram storage with
// implementations for different backends:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for server deployments
//
// # Architecture
//
// A stored record couples the source schema graph with the computed
// diagram and its layout options, so a saved diagram can be re-rendered
// or re-laid-out later without re-reading the database. Records are
// identified by UUIDs assigned at save time.
//
// # Usage
//
// Create a store:
//
//	// Development
//	st := store.NewMemoryStore()
//
//	// Production
//	st, err := store.NewMongoStore(ctx, store.MongoOptions{
//	    URI:      "mongodb://localhost:27017",
//	    Database: "schemascope",
//	})
//
// Save and retrieve:
//
//	rec, err := st.Save(ctx, &store.Record{Name: "prod-reports", Graph: g, Diagram: d})
//	if err != nil {
//	    return err
//	}
//	rec, err = st.Get(ctx, rec.ID)
package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mwolf/schemascope/pkg/diagram"
	"github.com/mwolf/schemascope/pkg/schema"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyName is returned when saving a record without a name.
	ErrEmptyName = errors.New("record name is empty")
)

// Record couples a schema graph with its computed diagram.
type Record struct {
	ID        string           `json:"id" bson:"_id"`
	Name      string           `json:"name" bson:"name"`
	Graph     *schema.Graph    `json:"graph" bson:"graph"`
	Diagram   *diagram.Diagram `json:"diagram" bson:"diagram"`
	Options   diagram.Options  `json:"options" bson:"options"`
	CreatedAt time.Time        `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time        `json:"updatedAt" bson:"updated_at"`
}

// Store is the interface for diagram storage backends.
type Store interface {
	// Save persists a record. A record without an ID gets a fresh UUID;
	// an existing ID overwrites the stored record. Returns the saved record.
	Save(ctx context.Context, rec *Record) (*Record, error)

	// Get retrieves a record by ID.
	// Returns ErrNotFound if no record has the given ID.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns all records sorted by name, without graph or diagram
	// payloads.
	List(ctx context.Context) ([]*Record, error)

	// Delete removes a record by ID.
	// Returns ErrNotFound if no record has the given ID.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// prepare validates a record and fills in ID and timestamps.
func prepare(rec *Record) (*Record, error) {
	if strings.TrimSpace(rec.Name) == "" {
		return nil, ErrEmptyName
	}
	out := *rec
	now := time.Now().UTC()
	if out.ID == "" {
		out.ID = uuid.NewString()
		out.CreatedAt = now
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = now
	}
	out.UpdatedAt = now
	return &out, nil
}

// summary strips the heavy payloads for listing.
func summary(rec *Record) *Record {
	return &Record{
		ID:        rec.ID,
		Name:      rec.Name,
		Options:   rec.Options,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

// MemoryStore is an in-memory store for development and testing.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (s *MemoryStore) Save(ctx context.Context, rec *Record) (*Record, error) {
	out, err := prepare(rec)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.records[out.ID]; ok {
		out.CreatedAt = prev.CreatedAt
	}
	s.records[out.ID] = out
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, summary(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
