package snapshot

import (
	"context"
	"time"

	"renogyfleet/internal/registers"
	"renogyfleet/internal/transport"
)

// Query reads one battery's full register set and assembles a Snapshot.
// Identity (serial number) and cell count are load-bearing: if either read
// fails the whole query aborts and returns the error. Every later read
// failure instead leaves that field at its type's default, letting a
// partially-faulty device still produce a usable snapshot.
func Query(ctx context.Context, t transport.Transport, batteryID string, slave byte) (*Snapshot, error) {
	serial, err := readString(ctx, t, slave, registers.SerialNumber)
	if err != nil {
		return nil, err
	}
	cellCountVal, err := readRegister(ctx, t, slave, registers.CellCount)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		BatteryID:    batteryID,
		Timestamp:    time.Now(),
		SerialNumber: serial,
		CellCount:    int(cellCountVal.UInt),
	}

	snap.ModelName = readStringDefault(ctx, t, slave, registers.BatteryName)
	snap.ManufacturerName = readStringDefault(ctx, t, slave, registers.ManufacturerName)
	snap.SoftwareVersion = readStringDefault(ctx, t, slave, registers.SoftwareVersion)

	snap.CellVoltages = readCellSeries(ctx, t, slave, registers.CellVoltage, snap.CellCount)

	snap.TempSensorCount = int(readUintDefault(ctx, t, slave, registers.TempSensorCount))
	snap.CellTemperatures = readCellSeries(ctx, t, slave, registers.CellTemperature, snap.TempSensorCount)

	if v, ok := readFloatOptional(ctx, t, slave, registers.BMSTemperature); ok {
		snap.BMSTemperature = &v
	}

	snap.EnvTempSensorCount = int(readUintDefault(ctx, t, slave, registers.EnvTempSensorCount))
	snap.EnvTemperatures = readCellSeries(ctx, t, slave, registers.EnvironmentTemperature, snap.EnvTempSensorCount)

	snap.HeaterTempSensorCount = int(readUintDefault(ctx, t, slave, registers.HeaterTempSensorCount))
	snap.HeaterTemperatures = readCellSeries(ctx, t, slave, registers.HeaterTemperature, snap.HeaterTempSensorCount)

	snap.CurrentAmps = readFloatDefault(ctx, t, slave, registers.Current)
	snap.ModuleVoltage = readFloatDefault(ctx, t, slave, registers.ModuleVoltage)
	snap.RemainingCapacity = readFloatDefault(ctx, t, slave, registers.RemainingCapacity)
	snap.TotalCapacity = readFloatDefault(ctx, t, slave, registers.TotalCapacity)
	if snap.TotalCapacity > 0 {
		snap.SoCPercent = snap.RemainingCapacity / snap.TotalCapacity * 100
	}
	snap.CycleCount = readUintDefault(ctx, t, slave, registers.CycleCount)

	if v, ok := readFloatOptional(ctx, t, slave, registers.ChargeVoltageLimit); ok {
		snap.ChargeVoltageLimit = &v
	}
	if v, ok := readFloatOptional(ctx, t, slave, registers.DischargeVoltageLimit); ok {
		snap.DischargeVoltageLimit = &v
	}
	if v, ok := readFloatOptional(ctx, t, slave, registers.ChargeCurrentLimit); ok {
		snap.ChargeCurrentLimit = &v
	}
	if v, ok := readFloatOptional(ctx, t, slave, registers.DischargeCurrentLimit); ok {
		snap.DischargeCurrentLimit = &v
	}

	if v, ok := readUintOptional(ctx, t, slave, registers.CellVoltageAlarmsReg); ok {
		u := uint32(v)
		snap.CellVoltageAlarmsRaw = &u
	}
	if v, ok := readUintOptional(ctx, t, slave, registers.CellTemperatureAlarmsReg); ok {
		u := uint32(v)
		snap.CellTemperatureAlarmsRaw = &u
	}
	if v, ok := readUintOptional(ctx, t, slave, registers.OtherAlarmInfoReg); ok {
		u := uint32(v)
		snap.OtherAlarmInfoRaw = &u
	}
	if v, ok := readUintOptional(ctx, t, slave, registers.Status1Reg); ok {
		u := uint16(v)
		snap.Status1Raw = &u
	}
	if v, ok := readUintOptional(ctx, t, slave, registers.Status2Reg); ok {
		u := uint16(v)
		snap.Status2Raw = &u
	}
	if v, ok := readUintOptional(ctx, t, slave, registers.Status3Reg); ok {
		u := uint16(v)
		snap.Status3Raw = &u
	}
	if v, ok := readUintOptional(ctx, t, slave, registers.ChargeDischargeStatusReg); ok {
		u := uint16(v)
		snap.ChargeDischargeStatusRaw = &u
	}

	return snap, nil
}

func readRegister(ctx context.Context, t transport.Transport, slave byte, d registers.Descriptor) (registers.Value, error) {
	data, err := t.ReadHoldingRegisters(ctx, slave, d.Address, d.WordCount)
	if err != nil {
		return registers.Value{}, err
	}
	return registers.Decode(d, data)
}

func readString(ctx context.Context, t transport.Transport, slave byte, d registers.Descriptor) (string, error) {
	v, err := readRegister(ctx, t, slave, d)
	if err != nil {
		return "", err
	}
	return v.Str, nil
}

func readStringDefault(ctx context.Context, t transport.Transport, slave byte, d registers.Descriptor) string {
	v, err := readRegister(ctx, t, slave, d)
	if err != nil {
		return ""
	}
	return v.Str
}

func readUintDefault(ctx context.Context, t transport.Transport, slave byte, d registers.Descriptor) uint64 {
	v, err := readRegister(ctx, t, slave, d)
	if err != nil {
		return 0
	}
	return v.UInt
}

func readUintOptional(ctx context.Context, t transport.Transport, slave byte, d registers.Descriptor) (uint64, bool) {
	v, err := readRegister(ctx, t, slave, d)
	if err != nil {
		return 0, false
	}
	return v.UInt, true
}

func readFloatDefault(ctx context.Context, t transport.Transport, slave byte, d registers.Descriptor) float64 {
	v, err := readRegister(ctx, t, slave, d)
	if err != nil {
		return 0
	}
	return v.Float
}

func readFloatOptional(ctx context.Context, t transport.Transport, slave byte, d registers.Descriptor) (float64, bool) {
	v, err := readRegister(ctx, t, slave, d)
	if err != nil {
		return 0, false
	}
	return v.Float, true
}

// readCellSeries reads n 1-based indexed registers (cell voltage, cell/env/
// heater temperature) individually, stopping at the first failure — a
// mid-series failure yields a short series rather than aborting the whole
// snapshot.
func readCellSeries(ctx context.Context, t transport.Transport, slave byte, indexer func(int) (registers.Descriptor, error), n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, 0, n)
	for i := 1; i <= n; i++ {
		d, err := indexer(i)
		if err != nil {
			break
		}
		v, err := readRegister(ctx, t, slave, d)
		if err != nil {
			break
		}
		out = append(out, v.Float)
	}
	return out
}
