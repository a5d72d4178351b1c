package transport

import (
	"context"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"

	"renogyfleet/internal/protocol"
)

const (
	blePeripheralNamePrefix = "BT-TH-"
	bleDefaultTimeout       = 5 * time.Second
	bleNotifyBufferSize     = 16
)

var (
	bleServiceUUID    = mustParseUUID("0000ffd0-0000-1000-8000-00805f9b34fb")
	bleWriteCharUUID  = mustParseUUID("0000ffd1-0000-1000-8000-00805f9b34fb")
	bleNotifyCharUUID = mustParseUUID("0000fff1-0000-1000-8000-00805f9b34fb")
)

func mustParseUUID(s string) bluetooth.UUID {
	u, err := bluetooth.ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}

// BLETransport tunnels Modbus-RTU framing over a paired GATT write/notify
// characteristic, matching the BT-2 dongle protocol: requests go out on the
// write characteristic, responses arrive as notifications on a separate
// characteristic and are correlated purely by arrival order (one request in
// flight at a time).
type BLETransport struct {
	mu         sync.Mutex
	device     bluetooth.Device
	writeChar  bluetooth.DeviceCharacteristic
	notifyChan chan []byte
	adapter    *bluetooth.Adapter
}

// BLEConfig selects the target peripheral.
type BLEConfig struct {
	Adapter string
	Address string // MAC or platform address string; empty scans for the first BT-TH- device.
}

// Connect scans for and connects to a Renogy BLE bridge, subscribes to its
// notify characteristic, and starts the background relay that feeds
// notifications into a bounded channel for send_pdu to consume.
func Connect(ctx context.Context, cfg BLEConfig) (*BLETransport, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, protocol.NewBluetoothError("failed to enable bluetooth adapter", err)
	}

	found := make(chan bluetooth.ScanResult, 1)
	go func() {
		_ = adapter.Scan(func(a *bluetooth.Adapter, result bluetooth.ScanResult) {
			name := result.LocalName()
			matches := (cfg.Address != "" && result.Address.String() == cfg.Address) ||
				(cfg.Address == "" && len(name) >= len(blePeripheralNamePrefix) && name[:len(blePeripheralNamePrefix)] == blePeripheralNamePrefix)
			if matches {
				_ = a.StopScan()
				found <- result
			}
		})
	}()

	var result bluetooth.ScanResult
	select {
	case result = <-found:
	case <-ctx.Done():
		_ = adapter.StopScan()
		return nil, protocol.NewBluetoothError("scan cancelled before finding a Renogy bridge", ctx.Err())
	case <-time.After(30 * time.Second):
		_ = adapter.StopScan()
		return nil, protocol.NewBluetoothError("timed out scanning for a Renogy bridge", nil)
	}

	device, err := adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, protocol.NewBluetoothError("failed to connect to bridge", err)
	}

	services, err := device.DiscoverServices([]bluetooth.UUID{bleServiceUUID})
	if err != nil || len(services) == 0 {
		return nil, protocol.NewBluetoothError("failed to discover GATT service", err)
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{bleWriteCharUUID, bleNotifyCharUUID})
	if err != nil || len(chars) < 2 {
		return nil, protocol.NewBluetoothError("failed to discover write/notify characteristics", err)
	}

	var writeChar, notifyChar bluetooth.DeviceCharacteristic
	for _, c := range chars {
		switch c.UUID() {
		case bleWriteCharUUID:
			writeChar = c
		case bleNotifyCharUUID:
			notifyChar = c
		}
	}

	t := &BLETransport{
		device:     device,
		writeChar:  writeChar,
		notifyChan: make(chan []byte, bleNotifyBufferSize),
		adapter:    adapter,
	}

	err = notifyChar.EnableNotifications(func(buf []byte) {
		frame := append([]byte(nil), buf...)
		select {
		case t.notifyChan <- frame:
		default:
			// Drop oldest so the relay never blocks the BLE stack's callback.
			select {
			case <-t.notifyChan:
			default:
			}
			t.notifyChan <- frame
		}
	})
	if err != nil {
		return nil, protocol.NewBluetoothError("failed to subscribe to notify characteristic", err)
	}

	return t, nil
}

// drainStale discards any notification bytes left over from a prior,
// abandoned exchange before issuing a new request.
func (t *BLETransport) drainStale() {
	for {
		select {
		case <-t.notifyChan:
		default:
			return
		}
	}
}

func (t *BLETransport) sendPDU(ctx context.Context, frame []byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.drainStale()

	if _, err := t.writeChar.WriteWithoutResponse(frame); err != nil {
		return nil, protocol.NewBluetoothError("failed to write request frame", err)
	}

	timeout := bleDefaultTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < timeout {
			timeout = d
		}
	}

	select {
	case resp := <-t.notifyChan:
		return resp, nil
	case <-ctx.Done():
		return nil, protocol.NewBluetoothError("context cancelled waiting for notification", ctx.Err())
	case <-time.After(timeout):
		return nil, protocol.NewBluetoothError("timed out waiting for notification response", nil)
	}
}

func (t *BLETransport) ReadHoldingRegisters(ctx context.Context, slave byte, startAddr, quantity uint16) ([]byte, error) {
	req := protocol.Serialize(protocol.ReadHoldingRequest(slave, startAddr, quantity))
	resp, err := t.sendPDU(ctx, req)
	if err != nil {
		return nil, err
	}
	frame, err := protocol.Deserialize(resp)
	if err != nil {
		return nil, err
	}
	return protocol.HoldingRegisterValues(frame.Payload)
}

func (t *BLETransport) WriteSingleRegister(ctx context.Context, slave byte, addr, value uint16) error {
	req := protocol.Serialize(protocol.WriteSingleRequest(slave, addr, value))
	resp, err := t.sendPDU(ctx, req)
	if err != nil {
		return err
	}
	_, err = protocol.Deserialize(resp)
	return err
}

func (t *BLETransport) WriteMultipleRegisters(ctx context.Context, slave byte, startAddr uint16, values []uint16) error {
	req := protocol.Serialize(protocol.WriteMultipleRequest(slave, startAddr, values))
	resp, err := t.sendPDU(ctx, req)
	if err != nil {
		return err
	}
	_, err = protocol.Deserialize(resp)
	return err
}

func (t *BLETransport) SendCustom(ctx context.Context, slave byte, fc byte, payload []byte) ([]byte, error) {
	req := protocol.Serialize(protocol.CustomRequest(slave, protocol.FunctionCode(fc), payload))
	resp, err := t.sendPDU(ctx, req)
	if err != nil {
		return nil, err
	}
	frame, err := protocol.Deserialize(resp)
	if err != nil {
		return nil, err
	}
	return frame.Payload, nil
}

func (t *BLETransport) Close() error {
	if err := t.device.Disconnect(); err != nil {
		return protocol.NewBluetoothError("failed to disconnect", err)
	}
	return nil
}

