// Package store defines the document collections behind rememberme and the
// contract every storage backend (internal/store/sqlite, internal/store/mongodb)
// implements.
package store

import (
	"context"
	"time"
)

// Store exposes the four collections. Implementations must be safe for
// concurrent use.
type Store interface {
	Events() Events
	Family() Family
	Memories() Memories
	Patient() Patient

	Ping(ctx context.Context) error
	Close() error
}

// EventFilter narrows Events.List. A zero From lists every event; a zero
// Limit returns all matches.
type EventFilter struct {
	From  time.Time
	Limit int
}

type Events interface {
	Create(ctx context.Context, e *Event) (*Event, error)
	// List returns events with date >= From, earliest first.
	List(ctx context.Context, f EventFilter) ([]Event, error)
}

type Family interface {
	Create(ctx context.Context, m *FamilyMember) (*FamilyMember, error)
	List(ctx context.Context) ([]FamilyMember, error)
}

// MemoryFilter narrows Memories.List. An empty PersonName matches everything.
type MemoryFilter struct {
	PersonName string
}

type Memories interface {
	Create(ctx context.Context, m *Memory) (*Memory, error)
	Get(ctx context.Context, id string) (*Memory, error)
	List(ctx context.Context, f MemoryFilter) ([]Memory, error)
	Update(ctx context.Context, id string, p MemoryPatch) (*Memory, error)
	Delete(ctx context.Context, id string) error
	// Random returns one memory chosen uniformly, or ErrNotFound when the
	// collection is empty.
	Random(ctx context.Context) (*Memory, error)
}

type Patient interface {
	// Get returns the current patient record or ErrNotFound.
	Get(ctx context.Context) (*PatientInfo, error)
	// Save overwrites the current patient record, creating it when absent.
	// created reports whether this call inserted it.
	Save(ctx context.Context, p *PatientInfo) (saved *PatientInfo, created bool, err error)
}
