// Package transport abstracts the physical link to a Renogy BMS: a direct
// RS-485/serial connection or a Bluetooth GATT bridge tunneling the same
// PDU framing. Callers above this package never branch on which backend is
// in play.
package transport

import "context"

// Transport is the uniform set of operations the snapshot query and device
// control layers use, regardless of whether the frames travel over a serial
// port or a GATT characteristic pair.
type Transport interface {
	// ReadHoldingRegisters issues function 0x03 against slave and returns the
	// raw big-endian register bytes (2*quantity bytes).
	ReadHoldingRegisters(ctx context.Context, slave byte, startAddr, quantity uint16) ([]byte, error)

	// WriteSingleRegister issues function 0x06.
	WriteSingleRegister(ctx context.Context, slave byte, addr, value uint16) error

	// WriteMultipleRegisters issues function 0x10.
	WriteMultipleRegisters(ctx context.Context, slave byte, startAddr uint16, values []uint16) error

	// SendCustom issues a non-standard function code (factory-default
	// restore, history clear) carrying the given raw payload bytes and
	// returns whatever payload bytes the device echoes back, if any.
	SendCustom(ctx context.Context, slave byte, fc byte, payload []byte) ([]byte, error)

	// Close releases any held resources (port handle, BLE connection).
	Close() error
}
