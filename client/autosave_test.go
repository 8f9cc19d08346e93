package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saveRecorder struct {
	mu    sync.Mutex
	saved []string
	err   error
}

func (r *saveRecorder) save(_ context.Context, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, content)
	return r.err
}

func (r *saveRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.saved...)
}

func TestAutosaverCoalescesRapidEdits(t *testing.T) {
	rec := &saveRecorder{}
	a := NewAutosaver(rec.save, 40*time.Millisecond, nil)
	defer a.Close()

	a.Edit("m")
	a.Edit("mi")
	a.Edit("mil")
	a.Edit("milk")

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, []string{"milk"}, rec.snapshot(), "only the latest snapshot is written")
}

func TestAutosaverSeparateQuietPeriods(t *testing.T) {
	rec := &saveRecorder{}
	a := NewAutosaver(rec.save, 30*time.Millisecond, nil)
	defer a.Close()

	a.Edit("first")
	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, 10*time.Millisecond)

	a.Edit("second")
	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 2
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, []string{"first", "second"}, rec.snapshot())
}

func TestAutosaverCloseFlushesPendingEdit(t *testing.T) {
	rec := &saveRecorder{}
	a := NewAutosaver(rec.save, time.Hour, nil) // timer never fires on its own

	a.Edit("draft")
	a.Close()

	assert.Equal(t, []string{"draft"}, rec.snapshot())
}

func TestAutosaverCloseWithoutEditsSavesNothing(t *testing.T) {
	rec := &saveRecorder{}
	a := NewAutosaver(rec.save, time.Hour, nil)
	a.Close()

	assert.Empty(t, rec.snapshot())
}

func TestAutosaverIgnoresEditsAfterClose(t *testing.T) {
	rec := &saveRecorder{}
	a := NewAutosaver(rec.save, 10*time.Millisecond, nil)
	a.Close()

	a.Edit("too late")
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestAutosaverFailuresAreNotRetried(t *testing.T) {
	rec := &saveRecorder{err: errors.New("boom")}
	a := NewAutosaver(rec.save, 20*time.Millisecond, nil)
	defer a.Close()

	a.Edit("milk")
	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, 10*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	assert.Len(t, rec.snapshot(), 1, "failed save is dropped, not retried")
}

func TestAutosaverFlush(t *testing.T) {
	rec := &saveRecorder{}
	a := NewAutosaver(rec.save, time.Hour, nil)
	defer a.Close()

	a.Edit("now")
	a.Flush()

	assert.Equal(t, []string{"now"}, rec.snapshot())
}
