package writer

import (
	"strings"
	"testing"
	"time"

	"renogyfleet/internal/snapshot"
)

func TestRenderBatchBasicFields(t *testing.T) {
	s := &snapshot.Snapshot{
		BatteryID:         "battery-1",
		Timestamp:         time.Unix(1700000000, 0),
		ModuleVoltage:     51.2,
		CurrentAmps:       -3.5,
		RemainingCapacity: 80,
		TotalCapacity:     100,
		SoCPercent:        80,
		CellVoltages:      []float64{3.3, 3.31},
	}

	out, err := RenderBatch([]*snapshot.Snapshot{s})
	if err != nil {
		t.Fatalf("RenderBatch: %v", err)
	}
	text := string(out)

	for _, want := range []string{
		"renogy_module_voltage", "renogy_current", "renogy_soc_percent",
		`battery=battery-1`, "renogy_cell_voltage",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered output missing %q:\n%s", want, text)
		}
	}
}

func TestRenderBatchOmitsAbsentOptionalFields(t *testing.T) {
	s := &snapshot.Snapshot{BatteryID: "battery-1", Timestamp: time.Unix(1700000000, 0)}
	out, err := RenderBatch([]*snapshot.Snapshot{s})
	if err != nil {
		t.Fatalf("RenderBatch: %v", err)
	}
	if strings.Contains(string(out), "renogy_status1") {
		t.Error("status1 should be omitted when Status1Raw is nil")
	}
	if strings.Contains(string(out), "renogy_bms_temperature") {
		t.Error("bms_temperature should be omitted when BMSTemperature is nil")
	}
}

func TestRenderBatchCellTagsAreOneBased(t *testing.T) {
	s := &snapshot.Snapshot{
		BatteryID:    "battery-1",
		Timestamp:    time.Unix(1700000000, 0),
		CellVoltages: []float64{3.3, 3.31, 3.29},
	}
	out, err := RenderBatch([]*snapshot.Snapshot{s})
	if err != nil {
		t.Fatalf("RenderBatch: %v", err)
	}
	text := string(out)
	for _, tag := range []string{"cell=1", "cell=2", "cell=3"} {
		if !strings.Contains(text, tag) {
			t.Errorf("expected tag %q in output:\n%s", tag, text)
		}
	}
}

func TestRenderBatchStatusDerivedFlags(t *testing.T) {
	status1 := uint16(1 << 2) // discharge MOSFET on
	s := &snapshot.Snapshot{
		BatteryID: "battery-1",
		Timestamp: time.Unix(1700000000, 0),
		Status1Raw: &status1,
	}
	out, err := RenderBatch([]*snapshot.Snapshot{s})
	if err != nil {
		t.Fatalf("RenderBatch: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, "renogy_discharge_mosfet_on") {
		t.Errorf("expected discharge_mosfet_on series in output:\n%s", text)
	}
}
