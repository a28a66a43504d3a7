package credstore

import (
	"context"
	"time"
)

// Record is the persisted authorization tuple. AccessToken and ExpiresAt
// are written together; a record carrying one without the other is invalid
// and treated as absent.
type Record struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	Email        string
	ExpiresAt    int64 // epoch milliseconds
}

// Valid reports structural completeness, not freshness.
func (r *Record) Valid() bool {
	return r != nil && r.AccessToken != "" && r.ExpiresAt > 0
}

// Expired reports whether the access token must no longer be trusted.
func (r *Record) Expired(now time.Time) bool {
	return r == nil || r.ExpiresAt <= now.UnixMilli()
}

// Remaining returns the access token lifetime left at now; zero or negative
// once expired.
func (r *Record) Remaining(now time.Time) time.Duration {
	if r == nil {
		return 0
	}
	return time.Duration(r.ExpiresAt-now.UnixMilli()) * time.Millisecond
}

// Clone returns an independent copy so callers cannot mutate stored state.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	return &out
}

// Store is single-slot credential persistence. Load returns (nil, nil) for
// both "never saved" and "saved but corrupt"; consumers treat the two
// identically. Errors are reserved for backend failures (I/O, network).
type Store interface {
	Save(ctx context.Context, record *Record) error
	Load(ctx context.Context) (*Record, error)
	Clear(ctx context.Context) error
}
