// Package conthost defines the host-provided capabilities the stage
// scheduler depends on: progress reporting, cooperative yielding, and an
// opaque blob store for continent metadata and textures (component L).
// The core generator depends only on these interfaces; a concrete store
// is a host concern, not a core one.
package conthost

import (
	"context"

	"github.com/nickelm/golemcraft-worldgen/internal/worlddata"
)

// ProgressRecord is emitted once after every stage boundary.
type ProgressRecord struct {
	StageID       string
	StageIndex    uint32
	StageCount    uint32
	Progress      float32
	StageProgress float32
	Message       string
}

// ProgressFunc receives progress records in strictly increasing stage
// order; no record is delivered after generation returns.
type ProgressFunc func(ProgressRecord)

// Yielder hands control back to the host at a cooperative suspension
// point. On a UI platform this is typically "wait one frame"; on a
// server, an immediate yield. Returning a non-nil error (e.g.
// context.Canceled) aborts the run at the next stage boundary.
type Yielder interface {
	Yield(ctx context.Context) error
}

// YielderFunc adapts a plain function to the Yielder interface.
type YielderFunc func(ctx context.Context) error

func (f YielderFunc) Yield(ctx context.Context) error { return f(ctx) }

// Store is the opaque blob store the host supplies for continent
// metadata and baked textures. The pure generation core never implements
// this itself, nor does it ever return a StorageError — only a Store
// implementation can fail that way.
type Store interface {
	SaveContinentMetadata(rec worlddata.Record) error
	SaveTexture(rec worlddata.TextureRecord) error
	GetContinentMetadata(worldID, continentID string) (worlddata.Record, bool, error)
	NeedsRegeneration(worldID, continentID string) (bool, error)
}
