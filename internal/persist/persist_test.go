package persist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/habitlog/internal/localfile"
	"github.com/mesh-intelligence/habitlog/pkg/types"
)

var fixedNow = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

const today types.Day = "2025-06-15"

var remoteConfig = types.RemoteConfig{Backend: types.BackendSQLite, DSN: "remote.db"}

// fakeRemote records calls and returns canned results.
type fakeRemote struct {
	ledger   *types.Ledger
	readErr  error
	writeErr error
	written  []*types.Ledger
	detached int
}

func (f *fakeRemote) ReadLedger(context.Context) (*types.Ledger, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.ledger.Clone(), nil
}

func (f *fakeRemote) WriteLedger(_ context.Context, l *types.Ledger) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = append(f.written, l.Clone())
	return nil
}

func (f *fakeRemote) Detach() error {
	f.detached++
	return nil
}

func opener(r *fakeRemote) RemoteOpener {
	return func(types.RemoteConfig) (Remote, error) { return r, nil }
}

// failingLocal wraps a Local and fails every Write.
type failingLocal struct {
	Local
}

func (failingLocal) Write(*types.Ledger) error {
	return errors.New("disk full")
}

func newLocal(t *testing.T) *localfile.Backend {
	t.Helper()
	return localfile.New(filepath.Join(t.TempDir(), types.DefaultDataFile), nil)
}

func newPersister(local Local, opts ...Option) *Persister {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(local, opts...)
}

func TestLoadSeedsWhenNothingStored(t *testing.T) {
	local := newLocal(t)
	p := newPersister(local)

	l, out, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceSeed, out.Source)
	assert.False(t, out.RemoteConfigured)
	assert.True(t, out.RemoteUnavailable())
	assert.ErrorIs(t, out.RemoteErr, ErrRemoteUnavailable)
	if diff := cmp.Diff(types.DefaultLedger(today), l); diff != "" {
		t.Errorf("seeded ledger mismatch (-want +got):\n%s", diff)
	}

	exists, err := local.Exists()
	require.NoError(t, err)
	assert.True(t, exists, "seed is persisted immediately")

	again, out, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, out.Source)
	assert.Empty(t, out.Migrations)
	if diff := cmp.Diff(l, again); diff != "" {
		t.Errorf("reloaded ledger mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPrefersRemote(t *testing.T) {
	stored := types.DefaultLedger(today)
	require.NoError(t, stored.Check(1, today, types.Completion{}))
	remote := &fakeRemote{ledger: stored}
	local := newLocal(t)
	p := newPersister(local, WithRemote(remoteConfig, opener(remote)))

	l, out, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceRemote, out.Source)
	assert.True(t, out.RemoteConfigured)
	assert.False(t, out.RemoteUnavailable())
	assert.True(t, l.IsDone(1, today))
	assert.Equal(t, 1, remote.detached)

	exists, err := local.Exists()
	require.NoError(t, err)
	assert.False(t, exists, "a remote read does not touch the local file")
}

func TestLoadFallsBackToLocal(t *testing.T) {
	cause := errors.New("no such table: habits")
	tests := []struct {
		name string
		open RemoteOpener
	}{
		{
			name: "read fails",
			open: opener(&fakeRemote{readErr: cause}),
		},
		{
			name: "attach fails",
			open: func(types.RemoteConfig) (Remote, error) { return nil, cause },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := newLocal(t)
			saved := types.DefaultLedger(today)
			require.NoError(t, saved.UpsertNote(today, "local copy"))
			require.NoError(t, local.Write(saved))

			p := newPersister(local, WithRemote(remoteConfig, tt.open))
			l, out, err := p.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, SourceLocal, out.Source)
			assert.True(t, out.RemoteUnavailable())
			assert.ErrorIs(t, out.RemoteErr, ErrRemoteUnavailable)
			assert.ErrorIs(t, out.RemoteErr, cause)
			if diff := cmp.Diff(saved, l); diff != "" {
				t.Errorf("fallback ledger mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadMigratesOnce(t *testing.T) {
	local := newLocal(t)
	legacy := `{"habits": [{"id": 1, "name": "Read", "icon": "📚", "category": "Learning",
		"target_days": ["Mon"], "color": "#f7971e", "created": "2025-06-01"}],
		"completions": {"2025-06-14": [1], "2025-06-13": ["1"]}}`
	require.NoError(t, os.WriteFile(local.Path(), []byte(legacy), 0o644))
	p := newPersister(local)

	l, out, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, out.Source)
	assert.ElementsMatch(t, []string{
		localfile.MigrateCompletionList,
		localfile.MigrateProblemsAdded,
		localfile.MigrateNotesAdded,
	}, out.Migrations)
	assert.True(t, l.IsDone(1, "2025-06-14"))
	assert.True(t, l.IsDone(1, "2025-06-13"))

	_, out, err = p.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out.Migrations, "migrated file is re-persisted")
}

func TestSaveWritesLocalThenRemote(t *testing.T) {
	remote := &fakeRemote{}
	local := newLocal(t)
	p := newPersister(local, WithRemote(remoteConfig, opener(remote)))
	l := types.DefaultLedger(today)

	out, err := p.Save(context.Background(), l)
	require.NoError(t, err)
	assert.False(t, out.RemoteUnavailable())
	require.Len(t, remote.written, 1)
	if diff := cmp.Diff(l, remote.written[0]); diff != "" {
		t.Errorf("remote copy mismatch (-want +got):\n%s", diff)
	}

	got, _, err := local.Read()
	require.NoError(t, err)
	if diff := cmp.Diff(l, got); diff != "" {
		t.Errorf("local copy mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveSwallowsRemoteFailure(t *testing.T) {
	cause := errors.New("table missing: daily_notes")
	remote := &fakeRemote{writeErr: cause}
	local := newLocal(t)
	p := newPersister(local, WithRemote(remoteConfig, opener(remote)))

	out, err := p.Save(context.Background(), types.DefaultLedger(today))
	require.NoError(t, err)
	assert.True(t, out.RemoteUnavailable())
	assert.ErrorIs(t, out.RemoteErr, cause)
	assert.Equal(t, 1, remote.detached)

	exists, err := local.Exists()
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSaveFailsOnLocalError(t *testing.T) {
	remote := &fakeRemote{}
	p := newPersister(failingLocal{newLocal(t)}, WithRemote(remoteConfig, opener(remote)))

	_, err := p.Save(context.Background(), types.DefaultLedger(today))
	assert.EqualError(t, err, "disk full")
	assert.Empty(t, remote.written, "remote is not written when the local write fails")
}

func TestLoadFailsWhenSeedCannotBeWritten(t *testing.T) {
	p := newPersister(failingLocal{newLocal(t)})
	_, _, err := p.Load(context.Background())
	assert.Error(t, err)
}

func TestResetReseeds(t *testing.T) {
	local := newLocal(t)
	p := newPersister(local)
	l := types.DefaultLedger(today)
	require.NoError(t, l.Check(2, today, types.Completion{}))
	_, err := p.Save(context.Background(), l)
	require.NoError(t, err)

	require.NoError(t, p.Reset())
	got, out, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceSeed, out.Source)
	assert.Empty(t, got.Completions)
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "remote", SourceRemote.String())
	assert.Equal(t, "local", SourceLocal.String())
	assert.Equal(t, "seed", SourceSeed.String())
	assert.Equal(t, "source(9)", Source(9).String())
}
