// Package snapshot assembles a typed point-in-time reading of one battery
// from a sequence of register reads, tolerating partial device failure per
// field.
package snapshot

import "time"

// Snapshot is one battery's state at a point in time. Every pointer/slice
// field beyond identity and CellCount is present iff its register read
// succeeded; callers must treat a nil/zero field as "unknown", not "zero".
type Snapshot struct {
	BatteryID string
	Timestamp time.Time

	SerialNumber    string
	ModelName       string
	ManufacturerName string
	SoftwareVersion string

	CellCount          int
	CellVoltages       []float64
	TempSensorCount    int
	CellTemperatures   []float64
	BMSTemperature     *float64
	EnvTempSensorCount int
	EnvTemperatures    []float64
	HeaterTempSensorCount int
	HeaterTemperatures []float64

	CurrentAmps       float64
	ModuleVoltage     float64
	RemainingCapacity float64
	TotalCapacity     float64
	SoCPercent        float64
	CycleCount        uint64

	ChargeVoltageLimit    *float64
	DischargeVoltageLimit *float64
	ChargeCurrentLimit    *float64
	DischargeCurrentLimit *float64

	CellVoltageAlarmsRaw     *uint32
	CellTemperatureAlarmsRaw *uint32
	OtherAlarmInfoRaw        *uint32
	Status1Raw               *uint16
	Status2Raw               *uint16
	Status3Raw               *uint16
	ChargeDischargeStatusRaw *uint16
}
