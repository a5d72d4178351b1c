package diag

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersAllGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(mfs) != 9 {
		t.Fatalf("got %d registered metric families, want 9", len(mfs))
	}
}

func TestCollectUpdatesProcessGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.startTime = time.Now().Add(-5 * time.Second)

	c.collect()

	if got := testutil.ToFloat64(c.goroutines); got <= 0 {
		t.Errorf("got goroutines %v, want > 0", got)
	}
	if got := testutil.ToFloat64(c.uptimeSeconds); got < 5 {
		t.Errorf("got uptime %v, want >= 5", got)
	}
}
