package writer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"renogyfleet/internal/buffer"
	"renogyfleet/internal/snapshot"
)

func TestWriteSuccessEmptiesBuffer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	buf := buffer.New(10, nil)
	buf.Push(&snapshot.Snapshot{BatteryID: "a", Timestamp: time.Unix(1700000000, 0)})
	w := New(server.URL, buf)

	w.drainAndWrite(context.Background())

	if !buf.IsEmpty() {
		t.Fatal("buffer should be drained after a successful write")
	}
	if w.backoff != initialBackoff {
		t.Fatalf("got backoff %v, want reset to %v", w.backoff, initialBackoff)
	}
}

func TestWriteFailureRequeuesAndDoublesBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	buf := buffer.New(10, nil)
	buf.Push(&snapshot.Snapshot{BatteryID: "a", Timestamp: time.Unix(1700000000, 0)})
	w := New(server.URL, buf)
	w.backoff = initialBackoff

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // pre-cancelled: sleepBackoff returns immediately via ctx.Done()
	w.drainAndWrite(ctx)

	if buf.IsEmpty() {
		t.Fatal("a failed write must requeue the batch, not drop it")
	}
	if w.backoff != 2*initialBackoff {
		t.Fatalf("got backoff %v, want %v", w.backoff, 2*initialBackoff)
	}
}

func TestBackoffSequenceDoublesAndCaps(t *testing.T) {
	w := &Writer{backoff: initialBackoff}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}
	for _, expect := range want {
		w.sleepBackoff(ctx)
		if w.backoff != expect {
			t.Fatalf("got backoff %v, want %v", w.backoff, expect)
		}
	}

	for w.backoff < maxBackoff {
		w.sleepBackoff(ctx)
	}
	w.sleepBackoff(ctx)
	if w.backoff != maxBackoff {
		t.Fatalf("backoff should cap at %v, got %v", maxBackoff, w.backoff)
	}
}

func TestDrainAndWriteNoopOnEmptyBuffer(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	buf := buffer.New(10, nil)
	w := New(server.URL, buf)
	w.drainAndWrite(context.Background())

	if atomic.LoadInt32(&hits) != 0 {
		t.Fatal("an empty buffer must not trigger a remote write")
	}
}
