// Package protocol implements the Modbus-RTU style frame used to talk to a
// Renogy lithium battery BMS: slave address, function code, payload, and a
// CRC-16/MODBUS trailer, shared verbatim by the serial and Bluetooth
// transports.
package protocol

import "encoding/binary"

// FunctionCode identifies the operation carried by a frame.
type FunctionCode byte

const (
	FuncReadHoldingRegisters   FunctionCode = 0x03
	FuncWriteSingleRegister    FunctionCode = 0x06
	FuncWriteMultipleRegisters FunctionCode = 0x10
	FuncRestoreFactoryDefault  FunctionCode = 0x78
	FuncClearHistory           FunctionCode = 0x79

	exceptionBit byte = 0x80
)

// IsException reports whether fc has the high bit set, marking the frame as
// an exception response.
func (fc FunctionCode) IsException() bool {
	return byte(fc)&exceptionBit != 0
}

// Unexceptioned returns the function code with the exception bit cleared.
func (fc FunctionCode) Unexceptioned() FunctionCode {
	return FunctionCode(byte(fc) &^ exceptionBit)
}

func (fc FunctionCode) isKnown() bool {
	switch fc {
	case FuncReadHoldingRegisters, FuncWriteSingleRegister, FuncWriteMultipleRegisters,
		FuncRestoreFactoryDefault, FuncClearHistory:
		return true
	default:
		return false
	}
}

// Frame is a single Modbus-RTU request or response, CRC excluded (it is
// computed/verified at the serialize/deserialize boundary).
type Frame struct {
	Address      byte
	FunctionCode FunctionCode
	Payload      []byte
}

// Serialize renders the frame as address + function code + payload, followed
// by a little-endian CRC-16/MODBUS over everything preceding it.
func Serialize(f Frame) []byte {
	body := make([]byte, 0, 2+len(f.Payload)+2)
	body = append(body, f.Address, byte(f.FunctionCode))
	body = append(body, f.Payload...)

	crc := CRC16Modbus(body)
	crcBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(crcBytes, crc)
	return append(body, crcBytes...)
}

// Deserialize validates and decodes a raw frame: minimum length, CRC, and
// splits the remainder into address/function-code/payload. If the function
// code's exception bit is set, the single payload byte is surfaced as a
// ModbusException instead of being returned as a Frame.
func Deserialize(data []byte) (Frame, error) {
	if len(data) < 4 {
		return Frame{}, NewInvalidData("frame shorter than minimum length of 4 bytes")
	}

	body := data[:len(data)-2]
	trailer := data[len(data)-2:]
	wantCRC := binary.LittleEndian.Uint16(trailer)
	gotCRC := CRC16Modbus(body)
	if wantCRC != gotCRC {
		return Frame{}, NewCrcMismatch(wantCRC, gotCRC)
	}

	fc := FunctionCode(body[1])
	payload := append([]byte(nil), body[2:]...)

	if !fc.Unexceptioned().isKnown() {
		return Frame{}, NewInvalidData("unrecognized function code")
	}

	if fc.IsException() {
		if len(payload) < 1 {
			return Frame{}, NewInvalidData("exception response missing exception code")
		}
		return Frame{}, NewModbusException(ExceptionCode(payload[0]))
	}

	return Frame{
		Address:      body[0],
		FunctionCode: fc,
		Payload:      payload,
	}, nil
}

// ReadHoldingRequest builds the PDU payload for function 0x03: a 16-bit
// starting address followed by a 16-bit register count.
func ReadHoldingRequest(slave byte, startAddr, quantity uint16) Frame {
	payload := make([]byte, 4)
	binary.BigEndian.PutUint16(payload[0:2], startAddr)
	binary.BigEndian.PutUint16(payload[2:4], quantity)
	return Frame{Address: slave, FunctionCode: FuncReadHoldingRegisters, Payload: payload}
}

// WriteSingleRequest builds the PDU payload for function 0x06: a 16-bit
// register address followed by a 16-bit value.
func WriteSingleRequest(slave byte, addr, value uint16) Frame {
	payload := make([]byte, 4)
	binary.BigEndian.PutUint16(payload[0:2], addr)
	binary.BigEndian.PutUint16(payload[2:4], value)
	return Frame{Address: slave, FunctionCode: FuncWriteSingleRegister, Payload: payload}
}

// WriteMultipleRequest builds the PDU payload for function 0x10: starting
// address, register count, byte count, then the big-endian register words.
func WriteMultipleRequest(slave byte, startAddr uint16, values []uint16) Frame {
	payload := make([]byte, 5+2*len(values))
	binary.BigEndian.PutUint16(payload[0:2], startAddr)
	binary.BigEndian.PutUint16(payload[2:4], uint16(len(values)))
	payload[4] = byte(2 * len(values))
	for i, v := range values {
		binary.BigEndian.PutUint16(payload[5+2*i:7+2*i], v)
	}
	return Frame{Address: slave, FunctionCode: FuncWriteMultipleRegisters, Payload: payload}
}

// CustomRequest builds a frame for one of the non-standard function codes
// (factory-default restore, history clear), carrying the caller-supplied
// payload bytes verbatim.
func CustomRequest(slave byte, fc FunctionCode, payload []byte) Frame {
	return Frame{Address: slave, FunctionCode: fc, Payload: append([]byte(nil), payload...)}
}

// CustomCommandSupplement is the fixed four-byte payload the BMS expects on
// a restore-factory-default (0x78) or clear-history (0x79) request.
var CustomCommandSupplement = []byte{0x00, 0x00, 0x00, 0x01}

// HoldingRegisterValues extracts the register words from a 0x03 response
// payload: a one-byte byte count followed by that many data bytes.
func HoldingRegisterValues(payload []byte) ([]byte, error) {
	if len(payload) < 1 {
		return nil, NewInvalidData("read-holding response missing byte count")
	}
	n := int(payload[0])
	if len(payload) < 1+n {
		return nil, NewInvalidData("read-holding response shorter than declared byte count")
	}
	return payload[1 : 1+n], nil
}
