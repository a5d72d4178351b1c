package registers

import (
	"math"
	"testing"
)

func TestDecodeVoltage(t *testing.T) {
	d, err := CellVoltage(1)
	if err != nil {
		t.Fatalf("CellVoltage(1): %v", err)
	}
	v, err := Decode(d, []byte{0x00, 0x21})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if math.Abs(v.Float-3.3) > 1e-9 {
		t.Fatalf("got %v, want 3.3", v.Float)
	}
}

func TestDecodeCapacity(t *testing.T) {
	v, err := Decode(RemainingCapacity, []byte{0x00, 0x00, 0xC3, 0x50})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if math.Abs(v.Float-50.0) > 1e-9 {
		t.Fatalf("got %v, want 50.0", v.Float)
	}
}

func TestDecodeShortPayload(t *testing.T) {
	_, err := Decode(RemainingCapacity, []byte{0x00, 0x00})
	if err == nil {
		t.Fatal("expected error for payload shorter than declared word count")
	}
}

func TestEncodeVoltageRoundTrip(t *testing.T) {
	bytes, err := Encode(CellOverVoltageAlarm, 3.65)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	v, err := Decode(CellOverVoltageAlarm, bytes)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if math.Abs(v.Float-3.65) > 0.1 {
		t.Fatalf("round trip mismatch: got %v, want ~3.65", v.Float)
	}
}

func TestEncodeRejectsNonWritable(t *testing.T) {
	_, err := Encode(ModuleVoltage, 50.0)
	if err == nil {
		t.Fatal("expected error encoding a non-writable register")
	}
}

func TestEncodeRejectsOutOfRange(t *testing.T) {
	_, err := Encode(CellOverVoltageAlarm, 1e9)
	if err == nil {
		t.Fatal("expected error for a value outside the register's wire range")
	}
}

func TestCellVoltageIndexBounds(t *testing.T) {
	if _, err := CellVoltage(0); err == nil {
		t.Fatal("expected error for cell index 0")
	}
	if _, err := CellVoltage(MaxCells + 1); err == nil {
		t.Fatal("expected error for cell index beyond MaxCells")
	}
}
