package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	f := Frame{Address: 1, FunctionCode: FuncReadHoldingRegisters, Payload: []byte{0x13, 0x88, 0x00, 0x01}}

	encoded := Serialize(f)
	decoded, err := Deserialize(encoded)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if decoded.Address != f.Address || decoded.FunctionCode != f.FunctionCode {
		t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, f)
	}
	if !bytes.Equal(decoded.Payload, f.Payload) {
		t.Fatalf("round trip payload mismatch: got %x, want %x", decoded.Payload, f.Payload)
	}
}

func TestDeserializeTamperedByteFailsCRC(t *testing.T) {
	f := Frame{Address: 1, FunctionCode: FuncReadHoldingRegisters, Payload: []byte{0x13, 0x88, 0x00, 0x01}}
	encoded := Serialize(f)
	encoded[2] ^= 0xFF // flip a payload byte, leaving the CRC trailer untouched

	_, err := Deserialize(encoded)
	var perr *Error
	if !errors.As(err, &perr) || perr.Kind != CrcMismatch {
		t.Fatalf("expected CrcMismatch, got %v", err)
	}
}

func TestDeserializeShortFrame(t *testing.T) {
	_, err := Deserialize([]byte{0x01, 0x03})
	var perr *Error
	if !errors.As(err, &perr) || perr.Kind != InvalidData {
		t.Fatalf("expected InvalidData, got %v", err)
	}
}

func TestDeserializeExceptionResponse(t *testing.T) {
	f := Frame{Address: 1, FunctionCode: FuncReadHoldingRegisters | 0x80, Payload: []byte{byte(ExcIllegalDataAddress)}}
	encoded := Serialize(f)

	_, err := Deserialize(encoded)
	var perr *Error
	if !errors.As(err, &perr) || perr.Kind != ModbusExceptionKind {
		t.Fatalf("expected ModbusExceptionKind, got %v", err)
	}
	var mex *ModbusException
	if !errors.As(err, &mex) || mex.Code != ExcIllegalDataAddress {
		t.Fatalf("expected wrapped ModbusException with ExcIllegalDataAddress, got %v", err)
	}
}

// PDU encode read, from the register catalog's CellCount register at address
// 0x1388: frame bytes 01 03 13 88 00 01 followed by CRC 00 A4 (little-endian).
func TestReadHoldingRequestCellCountEncoding(t *testing.T) {
	encoded := Serialize(ReadHoldingRequest(1, 0x1388, 1))
	want := []byte{0x01, 0x03, 0x13, 0x88, 0x00, 0x01, 0x00, 0xA4}
	if !bytes.Equal(encoded, want) {
		t.Fatalf("got % X, want % X", encoded, want)
	}
}

func TestHoldingRegisterValues(t *testing.T) {
	payload := []byte{0x02, 0x00, 0x21}
	values, err := HoldingRegisterValues(payload)
	if err != nil {
		t.Fatalf("HoldingRegisterValues: %v", err)
	}
	if !bytes.Equal(values, []byte{0x00, 0x21}) {
		t.Fatalf("got % X, want 00 21", values)
	}
}

func TestHoldingRegisterValuesShortPayload(t *testing.T) {
	_, err := HoldingRegisterValues([]byte{0x04, 0x00})
	if err == nil {
		t.Fatal("expected error for byte count exceeding payload length")
	}
}

func TestDeserializeRejectsUnrecognizedFunctionCode(t *testing.T) {
	f := Frame{Address: 1, FunctionCode: FunctionCode(0x05), Payload: []byte{0x00}}
	encoded := Serialize(f)

	_, err := Deserialize(encoded)
	var perr *Error
	if !errors.As(err, &perr) || perr.Kind != InvalidData {
		t.Fatalf("expected InvalidData for unrecognized function code, got %v", err)
	}
}

func TestCustomRequestRestoreFactoryDefaultEncoding(t *testing.T) {
	encoded := Serialize(CustomRequest(1, FuncRestoreFactoryDefault, CustomCommandSupplement))
	want := []byte{0x01, 0x78, 0x00, 0x00, 0x00, 0x01}
	if !bytes.Equal(encoded[:len(encoded)-2], want) {
		t.Fatalf("got % X, want % X", encoded[:len(encoded)-2], want)
	}
}
