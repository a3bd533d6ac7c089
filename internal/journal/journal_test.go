package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/peerreview/internal/submission"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func samplePayload() submission.Payload {
	return submission.Payload{Reviewer: "Ming", Presenter: "Da-Tong", Total: 76, Details: `{"details":[]}`}
}

func TestNewEntryStatus(t *testing.T) {
	ok := NewEntry(samplePayload(), 1, submission.Receipt{StatusCode: 200}, nil)
	assert.Equal(t, StatusAccepted, ok.Status)
	assert.Equal(t, 200, ok.StatusCode)
	assert.Empty(t, ok.Error)

	rejected := NewEntry(samplePayload(), 2, submission.Receipt{}, &submission.RejectedError{StatusCode: 404, Status: "404 Not Found"})
	assert.Equal(t, StatusFailed, rejected.Status)
	assert.Equal(t, 404, rejected.StatusCode)
	assert.Contains(t, rejected.Error, "404")
	assert.Equal(t, 2, rejected.Attempt)

	transport := NewEntry(samplePayload(), 1, submission.Receipt{}, errors.New("dial tcp: refused"))
	assert.Equal(t, StatusFailed, transport.Status)
	assert.Equal(t, 0, transport.StatusCode)
}

func TestRecordAndListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 12, 18, 9, 0, 0, 0, time.UTC)

	for i, presenter := range []string{"first", "second", "third"} {
		p := samplePayload()
		p.Presenter = presenter
		e := NewEntry(p, 1, submission.Receipt{StatusCode: 200}, nil)
		e.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.Record(ctx, e))
		assert.NotEmpty(t, e.ID)
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Presenter)
	assert.Equal(t, "first", all[2].Presenter)
	assert.Equal(t, StatusAccepted, all[0].Status)
	assert.InDelta(t, 76.0, all[0].Total, 1e-9)
	assert.True(t, all[0].CreatedAt.Equal(base.Add(2*time.Minute)))

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestRecordDefaultsTimestampAndAttempt(t *testing.T) {
	s := newTestStore(t)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.clock = func() time.Time { return fixed }

	e := &Entry{Reviewer: "r", Presenter: "p", Status: StatusFailed, Error: "boom"}
	require.NoError(t, s.Record(context.Background(), e))
	assert.Equal(t, fixed, e.CreatedAt)
	assert.Equal(t, 1, e.Attempt)

	got, err := s.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "boom", got[0].Error)
	assert.Equal(t, StatusFailed, got[0].Status)
}
