package rollup

import (
	"testing"

	"renogyfleet/internal/snapshot"
)

func u16(v uint16) *uint16 { return &v }

func TestNewEmptySnapshotSet(t *testing.T) {
	s := New(nil)
	if s.BatteryCount != 0 {
		t.Fatalf("got BatteryCount %d, want 0", s.BatteryCount)
	}
	if s.Alarms != (Alarms{}) {
		t.Fatalf("got non-zero alarms %+v for an empty snapshot set", s.Alarms)
	}
	if s.TotalCurrentAmps != 0 || s.TotalCapacity != 0 {
		t.Fatal("expected zero totals for an empty snapshot set")
	}
}

func TestNewAggregatesTotals(t *testing.T) {
	batteries := []*snapshot.Snapshot{
		{BatteryID: "a", CurrentAmps: 10, RemainingCapacity: 50, TotalCapacity: 100, SoCPercent: 50, ModuleVoltage: 51.2, CellTemperatures: []float64{25, 27}},
		{BatteryID: "b", CurrentAmps: -5, RemainingCapacity: 80, TotalCapacity: 100, SoCPercent: 80, ModuleVoltage: 52.0, CellTemperatures: []float64{23}},
	}
	s := New(batteries)

	if s.BatteryCount != 2 {
		t.Fatalf("got BatteryCount %d, want 2", s.BatteryCount)
	}
	if s.TotalCurrentAmps != 5 {
		t.Fatalf("got TotalCurrentAmps %v, want 5", s.TotalCurrentAmps)
	}
	if s.TotalRemainingCapacity != 130 {
		t.Fatalf("got TotalRemainingCapacity %v, want 130", s.TotalRemainingCapacity)
	}
	if s.AverageSoCPercent != 65 {
		t.Fatalf("got AverageSoCPercent %v, want 65", s.AverageSoCPercent)
	}
	wantTemp := (25.0 + 27.0 + 23.0) / 3.0
	if s.AverageCellTemperature == nil || *s.AverageCellTemperature != wantTemp {
		t.Fatalf("got AverageCellTemperature %v, want %v", s.AverageCellTemperature, wantTemp)
	}
}

func TestNewAverageCellTemperatureNilWhenNoSensors(t *testing.T) {
	s := New([]*snapshot.Snapshot{{BatteryID: "a"}})
	if s.AverageCellTemperature != nil {
		t.Fatalf("expected nil AverageCellTemperature, got %v", *s.AverageCellTemperature)
	}
}

func TestStatusUnionIsBitwiseOR(t *testing.T) {
	s := New([]*snapshot.Snapshot{
		{BatteryID: "a", Status1Raw: u16(0x0001)},
		{BatteryID: "b", Status1Raw: u16(0x0040)},
		{BatteryID: "c", Status1Raw: nil},
	})
	if s.Status1Union != 0x0041 {
		t.Fatalf("got Status1Union 0x%04X, want 0x0041", s.Status1Union)
	}
}

func TestStatusUnionMonotone(t *testing.T) {
	one := New([]*snapshot.Snapshot{{BatteryID: "a", Status1Raw: u16(0x0001)}})
	two := New([]*snapshot.Snapshot{
		{BatteryID: "a", Status1Raw: u16(0x0001)},
		{BatteryID: "b", Status1Raw: u16(0x0040)},
	})
	if two.Status1Union&one.Status1Union != one.Status1Union {
		t.Fatalf("adding a battery must never clear bits already set: got 0x%04X then 0x%04X", one.Status1Union, two.Status1Union)
	}
}
