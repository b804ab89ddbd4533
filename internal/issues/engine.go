// Package issues implements the group state engine: selecting groups by id
// or query, applying bulk status and metadata mutations, and coordinating
// merges and deletions with the background worker.
package issues

import (
	"time"

	"github.com/rowanmoss/faultdeck/internal/jobs"
	"github.com/rowanmoss/faultdeck/internal/store"
)

// DefaultPageSize caps a listing when the client asks for more or for nothing.
const DefaultPageSize = 100

// Config tunes the engine.
type Config struct {
	// RetentionDays hides groups not seen within the window. Zero disables
	// the cutoff.
	RetentionDays int
	// PageSize is the hard cap on listing results.
	PageSize int
	// DiscardGroups gates the discard (tombstone) mutation.
	DiscardGroups bool
}

// Engine coordinates group selection and mutation against the store and the
// background job queue.
type Engine struct {
	store store.Store
	queue jobs.Queue
	cfg   Config
}

func NewEngine(s store.Store, q jobs.Queue, cfg Config) *Engine {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return &Engine{store: s, queue: q, cfg: cfg}
}

// retentionCutoff returns the oldest last_seen still visible, or the zero
// time when retention is unbounded.
func (e *Engine) retentionCutoff(now time.Time) time.Time {
	if e.cfg.RetentionDays <= 0 {
		return time.Time{}
	}
	return now.AddDate(0, 0, -e.cfg.RetentionDays)
}
