// Package queryclient implements the read path back out of the remote
// time-series sink: battery discovery, instant-snapshot rehydration, and
// range queries, all expressed as PromQL against the same renogy_*_value
// gauge family the scrape registry exposes.
package queryclient

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	promapi "github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"

	"renogyfleet/internal/config"
)

// Client issues PromQL queries against the configured remote time-series
// sink to reconstruct battery state without talking to hardware.
type Client struct {
	api promv1.API
}

// New builds a client pointed at cfg.Remote.URL.
func New(cfg *config.Config) (*Client, error) {
	c, err := promapi.NewClient(promapi.Config{Address: cfg.Remote.URL})
	if err != nil {
		return nil, fmt.Errorf("queryclient: building http client: %w", err)
	}
	return &Client{api: promv1.NewAPI(c)}, nil
}

// DiscoverBatteries returns every distinct "battery" label value currently
// reporting SoC, via `group by (battery) (renogy_soc_percent_value)`.
func (c *Client) DiscoverBatteries(ctx context.Context) ([]string, error) {
	result, _, err := c.api.Query(ctx, "group by (battery) (renogy_soc_percent_value)", time.Time{})
	if err != nil {
		return nil, fmt.Errorf("queryclient: discovery query: %w", err)
	}

	vector, ok := result.(model.Vector)
	if !ok {
		return nil, fmt.Errorf("queryclient: unexpected result type %T for discovery query", result)
	}

	ids := make([]string, 0, len(vector))
	for _, sample := range vector {
		if id, ok := sample.Metric["battery"]; ok {
			ids = append(ids, string(id))
		}
	}
	return ids, nil
}

// FieldSample is one renogy_*_value gauge reading, with its optional cell or
// sensor index label preserved for array field reconstruction.
type FieldSample struct {
	Field string
	Index int // 0 when the field carries no cell/sensor index
	Value float64
}

// FetchSnapshot runs the `{battery="<id>",__name__=~"renogy_.*_value"}`
// instant query and returns every matching gauge reading for the battery.
// Rehydrating these into a snapshot.Snapshot is left to the caller, since
// the gauge set does not carry every transient field a live poll produces
// (e.g. timestamps finer than the scrape interval).
func (c *Client) FetchSnapshot(ctx context.Context, batteryID string) ([]FieldSample, error) {
	query := fmt.Sprintf(`{battery=%q,__name__=~"renogy_.*_value"}`, batteryID)
	result, _, err := c.api.Query(ctx, query, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("queryclient: snapshot query: %w", err)
	}

	vector, ok := result.(model.Vector)
	if !ok {
		return nil, fmt.Errorf("queryclient: unexpected result type %T for snapshot query", result)
	}

	samples := make([]FieldSample, 0, len(vector))
	for _, s := range vector {
		name := string(s.Metric[model.MetricNameLabel])
		field := strings.TrimSuffix(strings.TrimPrefix(name, "renogy_"), "_value")

		index := 0
		if raw, ok := s.Metric["cell"]; ok {
			index, _ = strconv.Atoi(string(raw))
		} else if raw, ok := s.Metric["sensor"]; ok {
			index, _ = strconv.Atoi(string(raw))
		}

		samples = append(samples, FieldSample{Field: field, Index: index, Value: float64(s.Value)})
	}
	return samples, nil
}

// stepFor picks the PromQL range-query step for a window of the given
// duration: 15s up to 1h, 60s up to 6h, 300s up to 24h, else 1800s.
func stepFor(window time.Duration) time.Duration {
	switch {
	case window <= time.Hour:
		return 15 * time.Second
	case window <= 6*time.Hour:
		return 60 * time.Second
	case window <= 24*time.Hour:
		return 300 * time.Second
	default:
		return 1800 * time.Second
	}
}

// RangeSeries runs `avg_over_time(renogy_<field>_value{battery="<id>"}[<step>s])`
// over [from, to], choosing the step from the window length.
func (c *Client) RangeSeries(ctx context.Context, batteryID, field string, from, to time.Time) (model.Matrix, error) {
	step := stepFor(to.Sub(from))
	query := fmt.Sprintf(`avg_over_time(renogy_%s_value{battery=%q}[%ds])`, field, batteryID, int(step.Seconds()))

	result, _, err := c.api.QueryRange(ctx, query, promv1.Range{Start: from, End: to, Step: step})
	if err != nil {
		return nil, fmt.Errorf("queryclient: range query: %w", err)
	}

	matrix, ok := result.(model.Matrix)
	if !ok {
		return nil, fmt.Errorf("queryclient: unexpected result type %T for range query", result)
	}
	return matrix, nil
}
