// Package registers is the symbolic register catalog for a Renogy lithium
// battery BMS: address, word count, unit semantics, and writability for
// every register the fleet monitor reads or writes.
package registers

import "fmt"

// Semantics identifies how a register's raw words decode into an
// engineering value.
type Semantics int

const (
	SemUnsignedInteger Semantics = iota
	SemSignedCurrent             // i16, 0.01 A/LSB
	SemUnsignedCurrent           // u16, 0.01 A/LSB
	SemCapacity                  // u32, 0.001 Ah/LSB
	SemVoltage                   // u16, 0.1 V/LSB
	SemUnsignedTemperature       // u16, 0.1 degC/LSB
	SemSignedTemperature         // i16, 0.1 degC/LSB
	SemASCIIString
	SemCellVoltageAlarms    // u32 bitfield
	SemCellTemperatureAlarms // u32 bitfield
	SemOtherAlarmInfo       // u32 bitfield
	SemStatus1              // u16 bitfield
	SemStatus2              // u16 bitfield
	SemStatus3              // u16 bitfield
	SemChargeDischargeStatus // u16 bitfield
)

// Descriptor names one addressable register (or register group).
type Descriptor struct {
	Name      string
	Address   uint16
	WordCount uint16
	Semantics Semantics
	Writable  bool
}

func reg(name string, addr, words uint16, sem Semantics, writable bool) Descriptor {
	return Descriptor{Name: name, Address: addr, WordCount: words, Semantics: sem, Writable: writable}
}

// Fixed, non-indexed registers.
var (
	CellCount            = reg("cell_count", 5000, 1, SemUnsignedInteger, false)
	TempSensorCount      = reg("temp_sensor_count", 5017, 1, SemUnsignedInteger, false)
	BMSTemperature       = reg("bms_temperature", 5035, 1, SemUnsignedTemperature, false)
	EnvTempSensorCount   = reg("env_temp_sensor_count", 5036, 1, SemUnsignedInteger, false)
	HeaterTempSensorCount = reg("heater_temp_sensor_count", 5039, 1, SemUnsignedInteger, false)
	Current              = reg("current", 5042, 1, SemSignedCurrent, false)
	ModuleVoltage        = reg("module_voltage", 5043, 1, SemVoltage, false)
	RemainingCapacity    = reg("remaining_capacity", 5044, 2, SemCapacity, false)
	TotalCapacity        = reg("total_capacity", 5046, 2, SemCapacity, false)
	CycleCount           = reg("cycle_count", 5048, 1, SemUnsignedInteger, false)

	ChargeVoltageLimit    = reg("charge_voltage_limit", 5049, 1, SemVoltage, true)
	DischargeVoltageLimit = reg("discharge_voltage_limit", 5050, 1, SemVoltage, true)
	ChargeCurrentLimit    = reg("charge_current_limit", 5051, 1, SemUnsignedCurrent, true)
	DischargeCurrentLimit = reg("discharge_current_limit", 5052, 1, SemUnsignedCurrent, true)

	CellVoltageAlarmsReg     = reg("cell_voltage_alarms", 5100, 2, SemCellVoltageAlarms, false)
	CellTemperatureAlarmsReg = reg("cell_temperature_alarms", 5102, 2, SemCellTemperatureAlarms, false)
	OtherAlarmInfoReg        = reg("other_alarm_info", 5104, 2, SemOtherAlarmInfo, false)
	Status1Reg               = reg("status1", 5106, 1, SemStatus1, false)
	Status2Reg               = reg("status2", 5107, 1, SemStatus2, false)
	Status3Reg               = reg("status3", 5108, 1, SemStatus3, false)
	ChargeDischargeStatusReg = reg("charge_discharge_status", 5109, 1, SemChargeDischargeStatus, false)

	SerialNumber        = reg("serial_number", 5110, 8, SemASCIIString, false)
	ManufacturerVersion = reg("manufacturer_version", 5118, 1, SemASCIIString, false)
	MainlineVersion     = reg("mainline_version", 5119, 2, SemASCIIString, false)
	CommProtocolVersion = reg("comm_protocol_version", 5121, 1, SemASCIIString, false)
	BatteryName         = reg("battery_name", 5122, 8, SemASCIIString, false)
	SoftwareVersion     = reg("software_version", 5130, 2, SemASCIIString, false)
	ManufacturerName    = reg("manufacturer_name", 5132, 10, SemASCIIString, false)

	// Writable configuration block: alarm and protection thresholds at 5200-5221.
	CellOverVoltageAlarm       = reg("cell_over_voltage_limit", 5200, 1, SemVoltage, true)
	CellHighVoltageAlarm       = reg("cell_high_voltage_limit", 5201, 1, SemVoltage, true)
	CellLowVoltageAlarm        = reg("cell_low_voltage_limit", 5202, 1, SemVoltage, true)
	CellUnderVoltageAlarm      = reg("cell_under_voltage_limit", 5203, 1, SemVoltage, true)
	ChargeOverTempLimit        = reg("charge_over_temperature_limit", 5204, 1, SemSignedTemperature, true)
	ChargeHighTempLimit        = reg("charge_high_temperature_limit", 5205, 1, SemSignedTemperature, true)
	ChargeLowTempLimit         = reg("charge_low_temperature_limit", 5206, 1, SemSignedTemperature, true)
	ChargeUnderTempLimit       = reg("charge_under_temperature_limit", 5207, 1, SemSignedTemperature, true)
	ChargeOver2CurrentLimit    = reg("charge_over2_current_limit", 5208, 1, SemUnsignedCurrent, true)
	ChargeOver1CurrentLimit    = reg("charge_over1_current_limit", 5209, 1, SemUnsignedCurrent, true)
	ChargeHighCurrentLimit     = reg("charge_high_current_limit", 5210, 1, SemUnsignedCurrent, true)
	ModuleOverVoltageLimit     = reg("module_over_voltage_limit", 5211, 1, SemVoltage, true)
	ModuleHighVoltageLimit     = reg("module_high_voltage_limit", 5212, 1, SemVoltage, true)
	ModuleLowVoltageLimit      = reg("module_low_voltage_limit", 5213, 1, SemVoltage, true)
	ModuleUnderVoltageLimit    = reg("module_under_voltage_limit", 5214, 1, SemVoltage, true)
	DischargeOverTempLimit     = reg("discharge_over_temperature_limit", 5215, 1, SemSignedTemperature, true)
	DischargeHighTempLimit     = reg("discharge_high_temperature_limit", 5216, 1, SemSignedTemperature, true)
	DischargeLowTempLimit      = reg("discharge_low_temperature_limit", 5217, 1, SemSignedTemperature, true)
	DischargeUnderTempLimit    = reg("discharge_under_temperature_limit", 5218, 1, SemSignedTemperature, true)
	DischargeOver2CurrentLimit = reg("discharge_over2_current_limit", 5219, 1, SemUnsignedCurrent, true)
	DischargeOver1CurrentLimit = reg("discharge_over1_current_limit", 5220, 1, SemUnsignedCurrent, true)
	DischargeHighCurrentLimit  = reg("discharge_high_current_limit", 5221, 1, SemUnsignedCurrent, true)

	ShutdownControl = reg("shutdown_control", 5222, 1, SemUnsignedInteger, true)
	DeviceID        = reg("device_id", 5223, 1, SemUnsignedInteger, true)
	LockControl     = reg("lock_control", 5224, 1, SemUnsignedInteger, true)
	TestModeControl = reg("test_mode_control", 5225, 1, SemUnsignedInteger, true)
	UniqueID        = reg("unique_id", 5226, 2, SemUnsignedInteger, true)
	ChargePowerPct  = reg("charge_power_percent", 5228, 1, SemUnsignedInteger, true)
	DischargePowerPct = reg("discharge_power_percent", 5229, 1, SemUnsignedInteger, true)

	ACPConfig0 = reg("acp_config_0", 61440, 1, SemUnsignedInteger, true)
	ACPConfig1 = reg("acp_config_1", 61441, 1, SemUnsignedInteger, true)
	ACPConfig2 = reg("acp_config_2", 61442, 1, SemUnsignedInteger, true)
)

const (
	MaxCells            = 16
	MaxEnvTempSensors   = 2
	MaxHeaterTempSensors = 2
)

// CellVoltage returns the descriptor for the n-th (1-based) cell voltage.
func CellVoltage(n int) (Descriptor, error) {
	if n < 1 || n > MaxCells {
		return Descriptor{}, fmt.Errorf("cell index %d out of range [1,%d]", n, MaxCells)
	}
	return reg(fmt.Sprintf("cell_voltage_%d", n), 5001+uint16(n-1), 1, SemVoltage, false), nil
}

// CellTemperature returns the descriptor for the n-th (1-based) cell
// temperature sensor.
func CellTemperature(n int) (Descriptor, error) {
	if n < 1 || n > MaxCells {
		return Descriptor{}, fmt.Errorf("cell temperature index %d out of range [1,%d]", n, MaxCells)
	}
	return reg(fmt.Sprintf("cell_temperature_%d", n), 5018+uint16(n-1), 1, SemUnsignedTemperature, false), nil
}

// EnvironmentTemperature returns the descriptor for the n-th (1-based)
// environment temperature sensor.
func EnvironmentTemperature(n int) (Descriptor, error) {
	if n < 1 || n > MaxEnvTempSensors {
		return Descriptor{}, fmt.Errorf("environment temperature index %d out of range [1,%d]", n, MaxEnvTempSensors)
	}
	return reg(fmt.Sprintf("environment_temperature_%d", n), 5037+uint16(n-1), 1, SemUnsignedTemperature, false), nil
}

// HeaterTemperature returns the descriptor for the n-th (1-based) heater
// temperature sensor.
func HeaterTemperature(n int) (Descriptor, error) {
	if n < 1 || n > MaxHeaterTempSensors {
		return Descriptor{}, fmt.Errorf("heater temperature index %d out of range [1,%d]", n, MaxHeaterTempSensors)
	}
	return reg(fmt.Sprintf("heater_temperature_%d", n), 5040+uint16(n-1), 1, SemUnsignedTemperature, false), nil
}
