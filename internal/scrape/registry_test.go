package scrape

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"renogyfleet/internal/rollup"
	"renogyfleet/internal/snapshot"
)

func u16(v uint16) *uint16 { return &v }

func TestUpdateSetsScalarGauges(t *testing.T) {
	r := New()
	r.Update(&snapshot.Snapshot{
		BatteryID:         "battery-1",
		ModuleVoltage:     51.2,
		CurrentAmps:       2.5,
		RemainingCapacity: 80,
		TotalCapacity:     100,
		SoCPercent:        80,
		CycleCount:        12,
	})

	if got := testutil.ToFloat64(r.moduleVoltage.WithLabelValues("battery-1")); got != 51.2 {
		t.Errorf("module voltage: got %v, want 51.2", got)
	}
	if got := testutil.ToFloat64(r.socPercent.WithLabelValues("battery-1")); got != 80 {
		t.Errorf("soc percent: got %v, want 80", got)
	}
}

func TestUpdateSetsPerCellLabels(t *testing.T) {
	r := New()
	r.Update(&snapshot.Snapshot{BatteryID: "battery-1", CellVoltages: []float64{3.3, 3.31}})

	if got := testutil.ToFloat64(r.cellVoltage.WithLabelValues("battery-1", "1")); got != 3.3 {
		t.Errorf("cell 1: got %v, want 3.3", got)
	}
	if got := testutil.ToFloat64(r.cellVoltage.WithLabelValues("battery-1", "2")); got != 3.31 {
		t.Errorf("cell 2: got %v, want 3.31", got)
	}
}

func TestUpdateDerivesMOSFETGaugesFromStatus1(t *testing.T) {
	r := New()
	r.Update(&snapshot.Snapshot{BatteryID: "battery-1", Status1Raw: u16(1 << 2)}) // discharge MOSFET on

	if got := testutil.ToFloat64(r.dischargeMOSFETOn.WithLabelValues("battery-1")); got != 1 {
		t.Errorf("discharge_mosfet_on: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.chargeMOSFETOn.WithLabelValues("battery-1")); got != 0 {
		t.Errorf("charge_mosfet_on: got %v, want 0", got)
	}
}

func TestUpdateSkipsNilOptionalFields(t *testing.T) {
	r := New()
	r.Update(&snapshot.Snapshot{BatteryID: "battery-1"})

	out, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range out {
		if strings.Contains(mf.GetName(), "status1_value") {
			t.Error("status1 gauge should not be populated when Status1Raw is nil")
		}
	}
}

func TestUpdateSystemAlarmsSetsAllFlags(t *testing.T) {
	r := New()
	r.UpdateSystemAlarms(rollup.Alarms{OverVoltage: true, HeaterOn: true})

	if got := testutil.ToFloat64(r.systemAlarms.WithLabelValues("over_voltage")); got != 1 {
		t.Errorf("over_voltage: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.systemAlarms.WithLabelValues("heater_on")); got != 1 {
		t.Errorf("heater_on: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.systemAlarms.WithLabelValues("short_circuit")); got != 0 {
		t.Errorf("short_circuit: got %v, want 0", got)
	}
}

func TestRawExposesUnderlyingRegistry(t *testing.T) {
	r := New()
	if r.Raw() == nil {
		t.Fatal("Raw() must return the underlying prometheus.Registry")
	}
}
