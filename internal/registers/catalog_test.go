package registers

import "testing"

func TestFixedRegisterAddresses(t *testing.T) {
	cases := []struct {
		name string
		reg  Descriptor
		addr uint16
	}{
		{"cell_count", CellCount, 5000},
		{"temp_sensor_count", TempSensorCount, 5017},
		{"bms_temperature", BMSTemperature, 5035},
		{"current", Current, 5042},
		{"remaining_capacity", RemainingCapacity, 5044},
		{"total_capacity", TotalCapacity, 5046},
		{"cell_voltage_alarms", CellVoltageAlarmsReg, 5100},
		{"status1", Status1Reg, 5106},
		{"lock_control", LockControl, 5224},
		{"charge_power_percent", ChargePowerPct, 5228},
		{"discharge_power_percent", DischargePowerPct, 5229},
		{"acp_config_0", ACPConfig0, 61440},
		{"serial_number", SerialNumber, 5110},
		{"manufacturer_version", ManufacturerVersion, 5118},
		{"mainline_version", MainlineVersion, 5119},
		{"comm_protocol_version", CommProtocolVersion, 5121},
		{"battery_name", BatteryName, 5122},
		{"software_version", SoftwareVersion, 5130},
		{"manufacturer_name", ManufacturerName, 5132},
		{"cell_low_voltage_limit", CellLowVoltageAlarm, 5202},
		{"discharge_high_current_limit", DischargeHighCurrentLimit, 5221},
	}
	for _, c := range cases {
		if c.reg.Address != c.addr {
			t.Errorf("%s: got address %d, want %d", c.name, c.reg.Address, c.addr)
		}
	}
}

func TestIndexedRegisterRanges(t *testing.T) {
	if _, err := CellVoltage(1); err != nil {
		t.Errorf("CellVoltage(1): %v", err)
	}
	if _, err := CellVoltage(16); err != nil {
		t.Errorf("CellVoltage(16): %v", err)
	}
	if _, err := CellVoltage(17); err == nil {
		t.Error("CellVoltage(17): expected out-of-range error")
	}

	if _, err := EnvironmentTemperature(2); err != nil {
		t.Errorf("EnvironmentTemperature(2): %v", err)
	}
	if _, err := EnvironmentTemperature(3); err == nil {
		t.Error("EnvironmentTemperature(3): expected out-of-range error")
	}

	if _, err := HeaterTemperature(2); err != nil {
		t.Errorf("HeaterTemperature(2): %v", err)
	}
	if _, err := HeaterTemperature(0); err == nil {
		t.Error("HeaterTemperature(0): expected out-of-range error")
	}
}

func TestIndexedRegisterAddressProgression(t *testing.T) {
	first, err := CellVoltage(1)
	if err != nil {
		t.Fatalf("CellVoltage(1): %v", err)
	}
	second, err := CellVoltage(2)
	if err != nil {
		t.Fatalf("CellVoltage(2): %v", err)
	}
	if second.Address != first.Address+1 {
		t.Errorf("cell voltage addresses should be contiguous: got %d then %d", first.Address, second.Address)
	}
}

func TestWritableFlags(t *testing.T) {
	if ModuleVoltage.Writable {
		t.Error("module_voltage must not be writable")
	}
	if !LockControl.Writable {
		t.Error("lock_control must be writable")
	}
	if !ChargePowerPct.Writable {
		t.Error("charge_power_percent must be writable")
	}
}

func TestIdentityRegistersAreStrings(t *testing.T) {
	for _, r := range []Descriptor{SerialNumber, ManufacturerVersion, MainlineVersion, CommProtocolVersion, BatteryName, SoftwareVersion, ManufacturerName} {
		if r.Semantics != SemASCIIString {
			t.Errorf("%s: got semantics %v, want SemASCIIString", r.Name, r.Semantics)
		}
	}
	if SerialNumber.WordCount != 8 {
		t.Errorf("serial_number: got word count %d, want 8", SerialNumber.WordCount)
	}
	if ManufacturerName.WordCount != 10 {
		t.Errorf("manufacturer_name: got word count %d, want 10", ManufacturerName.WordCount)
	}
}

func TestConfigLimitBlockIsWritable(t *testing.T) {
	for _, r := range []Descriptor{
		CellOverVoltageAlarm, CellHighVoltageAlarm, CellLowVoltageAlarm, CellUnderVoltageAlarm,
		ChargeOverTempLimit, ChargeHighTempLimit, ChargeLowTempLimit, ChargeUnderTempLimit,
		ChargeOver2CurrentLimit, ChargeOver1CurrentLimit, ChargeHighCurrentLimit,
		ModuleOverVoltageLimit, ModuleHighVoltageLimit, ModuleLowVoltageLimit, ModuleUnderVoltageLimit,
		DischargeOverTempLimit, DischargeHighTempLimit, DischargeLowTempLimit, DischargeUnderTempLimit,
		DischargeOver2CurrentLimit, DischargeOver1CurrentLimit, DischargeHighCurrentLimit,
	} {
		if !r.Writable {
			t.Errorf("%s: config limit registers must be writable", r.Name)
		}
	}
}
