package rollup

import "testing"

func TestDeriveAlarmsShortCircuitAndUnderVoltage(t *testing.T) {
	// 0x8005: bits 0, 2, 15 -> short circuit, discharge MOSFET, module under voltage.
	a := deriveAlarms(0x8005, 0)
	if !a.ShortCircuit {
		t.Error("expected ShortCircuit")
	}
	if !a.UnderVoltage {
		t.Error("expected UnderVoltage")
	}
	if a.OverVoltage || a.OverCurrent || a.OverTemp || a.UnderTemp {
		t.Error("unexpected alarm bit set")
	}
}

func TestDeriveAlarmsHeaterAndFullyCharged(t *testing.T) {
	a := deriveAlarms(0, (1<<13)|(1<<11))
	if !a.HeaterOn {
		t.Error("expected HeaterOn")
	}
	if !a.FullyCharged {
		t.Error("expected FullyCharged")
	}
}

func TestAlarmsByteBitOrder(t *testing.T) {
	a := Alarms{OverVoltage: true, FullyCharged: true}
	got := a.Byte()
	want := byte(1<<0) | byte(1<<7)
	if got != want {
		t.Fatalf("got 0x%02X, want 0x%02X", got, want)
	}
}

func TestAlarmsByteZeroValue(t *testing.T) {
	if (Alarms{}).Byte() != 0 {
		t.Fatal("zero-value Alarms must pack to 0")
	}
}
