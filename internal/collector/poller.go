// Package collector runs one poll loop per configured battery, fanning
// each successful snapshot out to the sample buffer and the live scrape
// registry.
package collector

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"renogyfleet/internal/buffer"
	"renogyfleet/internal/config"
	"renogyfleet/internal/registers"
	"renogyfleet/internal/scrape"
	"renogyfleet/internal/snapshot"
	"renogyfleet/internal/transport"
	"renogyfleet/pkg/logger"
)

// Poller owns one battery's transport and polls it on a fixed interval,
// skipping a tick entirely (rather than queueing a burst of catch-up reads)
// if the previous poll is still running when the next tick fires.
type Poller struct {
	batteryID string
	slave     byte
	transport transport.Transport
	interval  time.Duration

	buf      *buffer.Buffer
	registry *scrape.Registry
	log      logger.Logger

	connected atomic.Bool
	latest    atomic.Pointer[snapshot.Snapshot]
}

// NewPoller builds a poller for one battery/slave-address pair.
func NewPoller(batteryID string, slave byte, t transport.Transport, interval time.Duration, buf *buffer.Buffer, registry *scrape.Registry) *Poller {
	return &Poller{
		batteryID: batteryID,
		slave:     slave,
		transport: t,
		interval:  interval,
		buf:       buf,
		registry:  registry,
		log:       logger.With(logger.String("component", "poller"), logger.String("battery", batteryID)),
	}
}

// Run polls until ctx is cancelled. It never returns an error; failures are
// logged and counted against connectivity state, not fatal.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var busy sync.Mutex
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !busy.TryLock() {
				p.log.Warn("skipping poll tick, previous poll still running")
				continue
			}
			go func() {
				defer busy.Unlock()
				p.pollOnce(ctx)
			}()
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	pollCtx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	snap, err := snapshot.Query(pollCtx, p.transport, p.batteryID, p.slave)
	if err != nil {
		p.connected.Store(false)
		p.log.Warn("poll failed", logger.Err(err))
		return
	}

	p.connected.Store(true)
	p.latest.Store(snap)
	p.buf.Push(snap)
	if p.registry != nil {
		p.registry.Update(snap)
	}
}

// IsConnected reports whether the most recent poll succeeded.
func (p *Poller) IsConnected() bool { return p.connected.Load() }

// Latest returns the most recently successful snapshot, or nil if the
// battery has never answered.
func (p *Poller) Latest() *snapshot.Snapshot { return p.latest.Load() }

// BatteryID returns the configured identifier for this poller's battery.
func (p *Poller) BatteryID() string { return p.batteryID }

// Transport exposes the underlying transport so device-control commands can
// be issued against the same link the poller reads from.
func (p *Poller) Transport() transport.Transport { return p.transport }

// Slave returns the Modbus slave address this poller targets.
func (p *Poller) Slave() byte { return p.slave }

// Fleet owns every configured battery's poller.
type Fleet struct {
	pollers []*Poller
}

// NewFleetFromPollers assembles a Fleet directly from already-constructed
// pollers, bypassing config-driven transport setup. Used where the caller
// builds pollers itself (tests, or a supervisor rewiring a battery's
// transport after a reconnect).
func NewFleetFromPollers(pollers ...*Poller) *Fleet {
	return &Fleet{pollers: pollers}
}

// NewFleet builds one transport + poller per configured battery.
func NewFleet(cfg *config.Config, registry *scrape.Registry, buf *buffer.Buffer) (*Fleet, error) {
	f := &Fleet{}
	for _, b := range cfg.Batteries {
		t, slaves, err := openTransport(b)
		if err != nil {
			return nil, err
		}
		for _, slave := range slaves {
			f.pollers = append(f.pollers, NewPoller(b.ID, slave, t, cfg.Collector.PollInterval, buf, registry))
		}
	}
	return f, nil
}

func openTransport(b config.BatteryConfig) (transport.Transport, []byte, error) {
	switch b.Transport {
	case "serial":
		t, err := transport.OpenSerial(transport.SerialConfig{Path: b.Path, Baud: b.Baud})
		if err != nil {
			return nil, nil, err
		}
		slaves := b.Addresses
		if len(slaves) == 0 {
			slaves, err = transport.Discover(context.Background(), t, transport.SerialScanRange, registers.CellCount.Address)
			if err != nil {
				return nil, nil, err
			}
		}
		return t, slaves, nil
	case "ble":
		t, err := transport.Connect(context.Background(), transport.BLEConfig{Adapter: b.Adapter, Address: b.MAC})
		if err != nil {
			return nil, nil, err
		}
		slaves := b.Addresses
		if len(slaves) == 0 {
			slaves, err = transport.Discover(context.Background(), t, transport.BLEScanRange, registers.CellCount.Address)
			if err != nil {
				return nil, nil, err
			}
		}
		return t, slaves, nil
	default:
		return nil, nil, nil
	}
}

// Run starts every poller and blocks until ctx is cancelled.
func (f *Fleet) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, p := range f.pollers {
		wg.Add(1)
		go func(p *Poller) {
			defer wg.Done()
			p.Run(ctx)
		}(p)
	}
	<-ctx.Done()
	wg.Wait()
}

// Pollers exposes the fleet's pollers, e.g. for health checks and snapshot
// lookups by battery ID.
func (f *Fleet) Pollers() []*Poller { return f.pollers }

// Latest returns the current snapshot for a battery, or nil if unknown.
func (f *Fleet) Latest(batteryID string) *snapshot.Snapshot {
	for _, p := range f.pollers {
		if p.BatteryID() == batteryID {
			return p.Latest()
		}
	}
	return nil
}

// AllLatest returns every poller's most recent non-nil snapshot.
func (f *Fleet) AllLatest() []*snapshot.Snapshot {
	out := make([]*snapshot.Snapshot, 0, len(f.pollers))
	for _, p := range f.pollers {
		if s := p.Latest(); s != nil {
			out = append(out, s)
		}
	}
	return out
}
