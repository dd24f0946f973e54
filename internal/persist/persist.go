// Package persist implements the Persistence Backend Abstraction: it loads
// the Ledger from the remote tabular store when one is configured, falls
// back to the local file, and seeds a default Ledger when neither holds
// data. Every save writes the local file first and then mirrors the Ledger
// to the remote store.
package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mesh-intelligence/habitlog/pkg/types"
)

// ErrRemoteUnavailable marks an Outcome whose remote step did not succeed.
// The cause is wrapped alongside it.
var ErrRemoteUnavailable = errors.New("remote backend unavailable")

// Local is the durability backstop. Write failures are fatal.
type Local interface {
	Path() string
	Exists() (bool, error)
	Read() (*types.Ledger, []string, error)
	Write(l *types.Ledger) error
	Remove() error
}

// Remote is an attached remote tabular store.
type Remote interface {
	ReadLedger(ctx context.Context) (*types.Ledger, error)
	WriteLedger(ctx context.Context, l *types.Ledger) error
	Detach() error
}

// RemoteOpener attaches a Remote for config. It is called once per Load or
// Save and the Remote is detached afterwards.
type RemoteOpener func(config types.RemoteConfig) (Remote, error)

// Source names where a loaded Ledger came from.
type Source int

const (
	SourceRemote Source = iota
	SourceLocal
	SourceSeed
)

func (s Source) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourceLocal:
		return "local"
	case SourceSeed:
		return "seed"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// Outcome describes what a Load or Save did besides its primary result.
type Outcome struct {
	// Source is where Load found the Ledger. Unused by Save.
	Source Source
	// RemoteConfigured reports whether a remote backend was configured.
	RemoteConfigured bool
	// RemoteErr wraps ErrRemoteUnavailable when the remote step was skipped
	// or failed. It is advisory only.
	RemoteErr error
	// Migrations lists legacy migrations applied to the local file.
	Migrations []string
}

// RemoteUnavailable reports whether the remote step was skipped or failed.
func (o Outcome) RemoteUnavailable() bool {
	return o.RemoteErr != nil
}

// Persister combines a Local backend with an optional remote store.
type Persister struct {
	local  Local
	remote types.RemoteConfig
	open   RemoteOpener
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Persister.
type Option func(*Persister)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Persister) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock sets the clock used to date the seeded Ledger.
func WithClock(now func() time.Time) Option {
	return func(p *Persister) {
		if now != nil {
			p.now = now
		}
	}
}

// WithRemote configures the remote store. A nil opener or an unconfigured
// config leaves the Persister local-only.
func WithRemote(config types.RemoteConfig, open RemoteOpener) Option {
	return func(p *Persister) {
		p.remote = config
		p.open = open
	}
}

// New returns a Persister over local.
func New(local Local, opts ...Option) *Persister {
	p := &Persister{
		local:  local,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LocalPath returns the path of the local backing file.
func (p *Persister) LocalPath() string {
	return p.local.Path()
}

// RemoteConfigured reports whether a remote store is configured.
func (p *Persister) RemoteConfigured() bool {
	return p.open != nil && p.remote.Configured()
}

// Load returns the Ledger. The remote store is tried first when configured;
// any remote failure falls back to the local file without leaving partial
// state. A missing local file is seeded with the default Ledger and
// written. A local file that needed migration is re-written before Load
// returns. Only local I/O failures are returned as errors.
func (p *Persister) Load(ctx context.Context) (*types.Ledger, Outcome, error) {
	out := Outcome{RemoteConfigured: p.RemoteConfigured()}

	l, err := p.readRemote(ctx)
	if err == nil {
		out.Source = SourceRemote
		return l, out, nil
	}
	out.RemoteErr = err
	p.logRemote("remote read unavailable, using local file", err)

	exists, err := p.local.Exists()
	if err != nil {
		return nil, out, err
	}
	if !exists {
		l = types.DefaultLedger(types.DayOf(p.now()))
		if err := p.local.Write(l); err != nil {
			return nil, out, fmt.Errorf("seeding %s: %w", p.local.Path(), err)
		}
		p.logger.Info("seeded default ledger", "path", p.local.Path())
		out.Source = SourceSeed
		return l, out, nil
	}

	l, migrations, err := p.local.Read()
	if err != nil {
		return nil, out, err
	}
	out.Source = SourceLocal
	out.Migrations = migrations
	if len(migrations) > 0 {
		if err := p.local.Write(l); err != nil {
			return nil, out, fmt.Errorf("persisting migrated ledger: %w", err)
		}
	}
	return l, out, nil
}

// Save writes l to the local file and then, when configured, replaces the
// remote tables with it. A local failure is returned; a remote failure is
// recorded in the Outcome and logged. There is no cross-process locking:
// concurrent sessions race and the last full write wins on both stores.
func (p *Persister) Save(ctx context.Context, l *types.Ledger) (Outcome, error) {
	out := Outcome{RemoteConfigured: p.RemoteConfigured()}
	if err := p.local.Write(l); err != nil {
		return out, err
	}
	if err := p.writeRemote(ctx, l); err != nil {
		out.RemoteErr = err
		p.logRemote("remote write failed, local file is authoritative", err)
	}
	return out, nil
}

// Reset deletes the local backing file. The remote store is not touched.
func (p *Persister) Reset() error {
	return p.local.Remove()
}

func (p *Persister) readRemote(ctx context.Context) (*types.Ledger, error) {
	r, err := p.attach()
	if err != nil {
		return nil, err
	}
	defer p.detach(r)

	l, err := r.ReadLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	return l, nil
}

func (p *Persister) writeRemote(ctx context.Context, l *types.Ledger) error {
	r, err := p.attach()
	if err != nil {
		return err
	}
	defer p.detach(r)

	if err := r.WriteLedger(ctx, l); err != nil {
		return fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	return nil
}

func (p *Persister) attach() (Remote, error) {
	if !p.RemoteConfigured() {
		return nil, fmt.Errorf("%w: not configured", ErrRemoteUnavailable)
	}
	r, err := p.open(p.remote)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	return r, nil
}

func (p *Persister) detach(r Remote) {
	if err := r.Detach(); err != nil {
		p.logger.Warn("detaching remote backend", "error", err)
	}
}

// logRemote warns about remote failures. An unconfigured remote is the
// normal local-only mode and is logged at Debug.
func (p *Persister) logRemote(msg string, err error) {
	if !p.RemoteConfigured() {
		p.logger.Debug(msg, "error", err)
		return
	}
	p.logger.Warn(msg, "backend", p.remote.Backend, "error", err)
}
