// Package habitlog holds the Entity Store: a Session owns the Ledger for
// one run of the program, loads it once, and durably persists every
// mutation before returning.
//
// A Session is the only writer of its Ledger. Two sessions over the same
// files race, and the last full write wins.
package habitlog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/habitlog/internal/localfile"
	"github.com/mesh-intelligence/habitlog/internal/persist"
	"github.com/mesh-intelligence/habitlog/pkg/sqlite"
	"github.com/mesh-intelligence/habitlog/pkg/types"
)

// Outcome reports where a Ledger was loaded from and whether the remote
// step of the last Load or persist was skipped or failed.
type Outcome = persist.Outcome

// Load sources.
const (
	SourceRemote = persist.SourceRemote
	SourceLocal  = persist.SourceLocal
	SourceSeed   = persist.SourceSeed
)

// ErrRemoteUnavailable is wrapped by Outcome.RemoteErr.
var ErrRemoteUnavailable = persist.ErrRemoteUnavailable

// RemoteStore is an attached remote tabular store.
type RemoteStore interface {
	ReadLedger(ctx context.Context) (*types.Ledger, error)
	WriteLedger(ctx context.Context, l *types.Ledger) error
	Detach() error
}

// Options configure a Session. Only Config is required.
type Options struct {
	Config types.Config
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Now defaults to time.Now. It decides what "today" is.
	Now func() time.Time
	// OpenRemote attaches the remote store. It defaults to the SQLite
	// backend.
	OpenRemote func(types.RemoteConfig) (RemoteStore, error)
}

// Session is the explicit session context: the cached Ledger plus the
// persistence stack behind it.
type Session struct {
	id     string
	store  *persist.Persister
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	ledger  *types.Ledger
	outcome Outcome
}

// NewSession validates opts.Config and returns a Session with nothing
// loaded yet.
func NewSession(opts Options) (*Session, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("session", id.String())
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	open := opts.OpenRemote
	if open == nil {
		open = func(c types.RemoteConfig) (RemoteStore, error) {
			return sqlite.Open(c, logger)
		}
	}

	local := localfile.New(opts.Config.LocalPath(), logger)
	store := persist.New(local,
		persist.WithLogger(logger),
		persist.WithClock(now),
		persist.WithRemote(opts.Config.Remote, func(c types.RemoteConfig) (persist.Remote, error) {
			return open(c)
		}),
	)

	return &Session{
		id:     id.String(),
		store:  store,
		logger: logger,
		now:    now,
	}, nil
}

// ID returns the session identifier used in log records.
func (s *Session) ID() string {
	return s.id
}

// Today returns the current calendar day in local time.
func (s *Session) Today() types.Day {
	return types.DayOf(s.now())
}

// LocalPath returns the path of the local backing file.
func (s *Session) LocalPath() string {
	return s.store.LocalPath()
}

// Outcome returns the outcome of the most recent Load or persist.
func (s *Session) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Load returns the session Ledger, reading it from storage on first use.
// Later calls return the cached Ledger, which callers must treat as
// read-only; change it through Mutate.
func (s *Session) Load(ctx context.Context) (*types.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Session) loadLocked(ctx context.Context) (*types.Ledger, error) {
	if s.ledger != nil {
		return s.ledger, nil
	}
	l, out, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	s.ledger = l
	s.outcome = out
	s.logger.Debug("loaded ledger", "source", out.Source.String(),
		"habits", len(l.Habits), "days", len(l.Completions),
		"problems", len(l.Problems), "notes", len(l.Notes))
	return l, nil
}

// Mutate applies fn to a copy of the Ledger and persists the copy. The
// session Ledger is replaced only if fn and the local write both succeed,
// so a rejected or failed mutation leaves no partial change.
func (s *Session) Mutate(ctx context.Context, fn func(l *types.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.loadLocked(ctx)
	if err != nil {
		return err
	}
	next := cur.Clone()
	if err := fn(next); err != nil {
		return err
	}
	out, err := s.store.Save(ctx, next)
	if err != nil {
		return fmt.Errorf("persisting ledger: %w", err)
	}
	out.Source = s.outcome.Source
	s.ledger = next
	s.outcome = out
	s.logger.Debug("persisted ledger",
		"habits", len(next.Habits), "days", len(next.Completions),
		"problems", len(next.Problems), "notes", len(next.Notes),
		"remote_unavailable", out.RemoteUnavailable())
	return nil
}

// Reset discards the cached Ledger and deletes the local backing file. The
// next Load seeds the default habits again.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Reset(); err != nil {
		return fmt.Errorf("resetting ledger: %w", err)
	}
	s.ledger = nil
	s.outcome = Outcome{}
	s.logger.Info("reset ledger", "path", s.store.LocalPath())
	return nil
}
