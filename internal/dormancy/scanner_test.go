package dormancy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hideout/hideout/internal/model"
)

type fakeStore struct {
	users []*model.User
	err   error

	gotCutoff time.Time
}

func (s *fakeStore) FindDormantBefore(_ context.Context, cutoff time.Time) ([]*model.User, error) {
	s.gotCutoff = cutoff
	if s.err != nil {
		return nil, s.err
	}
	var dormant []*model.User
	for _, u := range s.users {
		if u.LastAccessedAt.Before(cutoff) {
			dormant = append(dormant, u)
		}
	}
	return dormant, nil
}

type fakeNotifier struct {
	failFor  map[string]error
	notified []string
}

func (n *fakeNotifier) NotifyDormant(_ context.Context, user *model.User) error {
	if err, ok := n.failFor[user.ID]; ok {
		return err
	}
	n.notified = append(n.notified, user.ID)
	return nil
}

func newTestScanner(store *fakeStore, notifier *fakeNotifier, threshold time.Duration, now time.Time) *Scanner {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewScanner(store, notifier, threshold, logger)
	s.now = func() time.Time { return now }
	return s
}

func TestScan_ThresholdSelectsOnlyDormantAccounts(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC)
	store := &fakeStore{users: []*model.User{
		{ID: "a", Username: "alice", LastAccessedAt: now.Add(-40 * 24 * time.Hour)},
		{ID: "b", Username: "bob", LastAccessedAt: now.Add(-5 * 24 * time.Hour)},
	}}
	notifier := &fakeNotifier{}

	scanner := newTestScanner(store, notifier, 30*24*time.Hour, now)
	require.NoError(t, scanner.Scan(context.Background()))

	assert.Equal(t, []string{"a"}, notifier.notified,
		"only the account idle past the threshold is notified")
	assert.Equal(t, now.Add(-30*24*time.Hour), store.gotCutoff)
}

func TestScan_PartialFailureContinues(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC)
	store := &fakeStore{users: []*model.User{
		{ID: "a", Username: "alice", LastAccessedAt: now.Add(-60 * 24 * time.Hour)},
		{ID: "b", Username: "bob", LastAccessedAt: now.Add(-45 * 24 * time.Hour)},
	}}
	notifier := &fakeNotifier{failFor: map[string]error{
		"a": errors.New("smtp: connection refused"),
	}}

	scanner := newTestScanner(store, notifier, 30*24*time.Hour, now)
	require.NoError(t, scanner.Scan(context.Background()),
		"a failed notification does not fail the sweep")

	assert.Equal(t, []string{"b"}, notifier.notified,
		"remaining accounts are still notified after a failure")
}

func TestScan_ListFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{err: errors.New("db down")}
	notifier := &fakeNotifier{}

	scanner := newTestScanner(store, notifier, 30*24*time.Hour, time.Now())
	err := scanner.Scan(context.Background())

	require.Error(t, err)
	assert.Empty(t, notifier.notified)
}

func TestScan_EmptySweep(t *testing.T) {
	t.Parallel()

	now := time.Now()
	store := &fakeStore{users: []*model.User{
		{ID: "b", Username: "bob", LastAccessedAt: now.Add(-time.Hour)},
	}}
	notifier := &fakeNotifier{}

	scanner := newTestScanner(store, notifier, 30*24*time.Hour, now)
	require.NoError(t, scanner.Scan(context.Background()))
	assert.Empty(t, notifier.notified)
}
