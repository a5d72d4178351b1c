package transport

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/tarm/serial"

	"renogyfleet/internal/protocol"
)

const defaultBaudRate = 9600

// SerialTransport speaks Modbus-RTU framing over a single RS-485/serial
// port. It is single-threaded: all operations share one mutex, and the
// slave address is carried in every request frame, so re-targeting another
// slave needs no extra wire traffic (mirroring the ensure_slave idiom of the reference RTU client and
// the withSlaveID re-targeting pattern used by this codebase's ancestor
// Modbus-TCP client).
type SerialTransport struct {
	mu       sync.Mutex
	port     io.ReadWriteCloser
	lastSlave byte
	haveSlave bool
	readTimeout time.Duration
}

// SerialConfig configures the underlying port.
type SerialConfig struct {
	Path string
	Baud int
}

// OpenSerial opens the named serial port at the configured baud rate (8-N-1,
// defaulting to 9600 baud when unset).
func OpenSerial(cfg SerialConfig) (*SerialTransport, error) {
	baud := cfg.Baud
	if baud == 0 {
		baud = defaultBaudRate
	}
	portCfg := &serial.Config{
		Name:        cfg.Path,
		Baud:        baud,
		ReadTimeout: time.Second,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	}
	port, err := serial.OpenPort(portCfg)
	if err != nil {
		return nil, protocol.NewIoError("failed to open serial port "+cfg.Path, err)
	}
	return &SerialTransport{port: port, readTimeout: 2 * time.Second}, nil
}

func (t *SerialTransport) ensureSlave(slave byte) {
	// Single-threaded over one physical bus: no wire traffic is needed to
	// "retarget" to a different slave address, it's simply encoded in the
	// next frame. This bookkeeping exists so future multi-drop bridges that
	// require an explicit select frame have a single place to hook in.
	t.lastSlave = slave
	t.haveSlave = true
}

func (t *SerialTransport) roundTrip(ctx context.Context, frame []byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = deadline // tarm/serial has no per-call deadline API; ReadTimeout is fixed at open time.
	}

	if _, err := t.port.Write(frame); err != nil {
		return nil, mapIOError(err)
	}

	return readFrame(t.port)
}

// readFrame reads a Modbus-RTU response off the port. Since tarm/serial
// gives us a blocking byte stream rather than frame boundaries, this reads
// the fixed header (address+function) then the rest of the frame based on
// the function code's known shape.
func readFrame(r io.Reader) ([]byte, error) {
	header := make([]byte, 2)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, mapIOError(err)
	}

	fc := header[1]
	var rest []byte
	switch {
	case fc&0x80 != 0: // exception: 1 byte code + 2 byte CRC
		rest = make([]byte, 3)
	case fc == 0x03: // byte-count + data + CRC
		bc := make([]byte, 1)
		if _, err := io.ReadFull(r, bc); err != nil {
			return nil, mapIOError(err)
		}
		rest = make([]byte, int(bc[0])+2)
		full := append(append([]byte{}, header...), bc...)
		if _, err := io.ReadFull(r, rest); err != nil {
			return nil, mapIOError(err)
		}
		return append(full, rest...), nil
	case fc == 0x06 || fc == 0x10: // echoed addr+qty/value + CRC
		rest = make([]byte, 6)
	default: // 0x78 / 0x79: echoed value + CRC
		rest = make([]byte, 4)
	}

	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, mapIOError(err)
	}
	return append(header, rest...), nil
}

func mapIOError(err error) error {
	// Collapse malformed-data style I/O errors to InvalidData, everything
	// else (timeouts, device gone, permission) to the generic Io kind.
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return protocol.NewInvalidData("unexpected end of frame on serial port")
	}
	return protocol.NewIoError("serial I/O failure", err)
}

func (t *SerialTransport) ReadHoldingRegisters(ctx context.Context, slave byte, startAddr, quantity uint16) ([]byte, error) {
	t.ensureSlave(slave)
	req := protocol.Serialize(protocol.ReadHoldingRequest(slave, startAddr, quantity))
	resp, err := t.roundTrip(ctx, req)
	if err != nil {
		return nil, err
	}
	frame, err := protocol.Deserialize(resp)
	if err != nil {
		return nil, err
	}
	return protocol.HoldingRegisterValues(frame.Payload)
}

func (t *SerialTransport) WriteSingleRegister(ctx context.Context, slave byte, addr, value uint16) error {
	t.ensureSlave(slave)
	req := protocol.Serialize(protocol.WriteSingleRequest(slave, addr, value))
	resp, err := t.roundTrip(ctx, req)
	if err != nil {
		return err
	}
	_, err = protocol.Deserialize(resp)
	return err
}

func (t *SerialTransport) WriteMultipleRegisters(ctx context.Context, slave byte, startAddr uint16, values []uint16) error {
	t.ensureSlave(slave)
	req := protocol.Serialize(protocol.WriteMultipleRequest(slave, startAddr, values))
	resp, err := t.roundTrip(ctx, req)
	if err != nil {
		return err
	}
	_, err = protocol.Deserialize(resp)
	return err
}

func (t *SerialTransport) SendCustom(ctx context.Context, slave byte, fc byte, payload []byte) ([]byte, error) {
	t.ensureSlave(slave)
	req := protocol.Serialize(protocol.CustomRequest(slave, protocol.FunctionCode(fc), payload))
	resp, err := t.roundTrip(ctx, req)
	if err != nil {
		return nil, err
	}
	frame, err := protocol.Deserialize(resp)
	if err != nil {
		return nil, err
	}
	return frame.Payload, nil
}

func (t *SerialTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port.Close()
}
