package registers

// CellAlarmLevel is the per-cell alarm state: none, under, or over. Over
// takes precedence when a device (incorrectly) reports both bits for the
// same cell.
type CellAlarmLevel int

const (
	CellAlarmNone CellAlarmLevel = iota
	CellAlarmUnder
	CellAlarmOver
)

// CellVoltageAlarms decodes the 32-bit cell-voltage-alarm bitfield: bit i
// (0-15) is under-voltage for cell i+1, bit i+16 is over-voltage for cell
// i+1.
type CellVoltageAlarms struct {
	Raw    uint32
	Levels [MaxCells]CellAlarmLevel
}

func DecodeCellVoltageAlarms(raw uint32) CellVoltageAlarms {
	a := CellVoltageAlarms{Raw: raw}
	for i := 0; i < MaxCells; i++ {
		if raw&(1<<uint(i)) != 0 {
			a.Levels[i] = CellAlarmUnder
		}
	}
	for i := 0; i < MaxCells; i++ {
		if raw&(1<<uint(i+16)) != 0 {
			a.Levels[i] = CellAlarmOver
		}
	}
	return a
}

// CellTemperatureAlarms decodes the 32-bit cell-temperature-alarm bitfield
// using the same under/over layout as CellVoltageAlarms.
type CellTemperatureAlarms struct {
	Raw    uint32
	Levels [MaxCells]CellAlarmLevel
}

func DecodeCellTemperatureAlarms(raw uint32) CellTemperatureAlarms {
	a := CellTemperatureAlarms{Raw: raw}
	for i := 0; i < MaxCells; i++ {
		if raw&(1<<uint(i)) != 0 {
			a.Levels[i] = CellAlarmUnder
		}
	}
	for i := 0; i < MaxCells; i++ {
		if raw&(1<<uint(i+16)) != 0 {
			a.Levels[i] = CellAlarmOver
		}
	}
	return a
}

// OtherAlarmInfo decodes the 32-bit "other alarms" bitfield: BMS/environment/
// heater over- and under-temperature, plus charge/discharge over-current.
type OtherAlarmInfo struct{ Raw uint32 }

const (
	bitBMSOverTemp          = 1 << 31
	bitBMSUnderTemp         = 1 << 30
	bitEnvOverTemp          = 1 << 29
	bitEnvUnderTemp         = 1 << 28
	bitHeaterOverTemp       = 1 << 27
	bitHeaterUnderTemp      = 1 << 26
	bitChargeOverCurrent    = 1 << 21
	bitDischargeOverCurrent = 1 << 19
)

func DecodeOtherAlarmInfo(raw uint32) OtherAlarmInfo { return OtherAlarmInfo{Raw: raw} }

func (o OtherAlarmInfo) BMSOverTemp() bool          { return o.Raw&bitBMSOverTemp != 0 }
func (o OtherAlarmInfo) BMSUnderTemp() bool         { return o.Raw&bitBMSUnderTemp != 0 }
func (o OtherAlarmInfo) ChargeOverCurrent() bool    { return o.Raw&bitChargeOverCurrent != 0 }
func (o OtherAlarmInfo) DischargeOverCurrent() bool { return o.Raw&bitDischargeOverCurrent != 0 }
func (o OtherAlarmInfo) EnvOverTemp() bool          { return o.Raw&bitEnvOverTemp != 0 }
func (o OtherAlarmInfo) EnvUnderTemp() bool         { return o.Raw&bitEnvUnderTemp != 0 }
func (o OtherAlarmInfo) HeaterOverTemp() bool       { return o.Raw&bitHeaterOverTemp != 0 }
func (o OtherAlarmInfo) HeaterUnderTemp() bool      { return o.Raw&bitHeaterUnderTemp != 0 }

// Status1 decodes the primary 16-bit protection/status word.
type Status1 struct{ Raw uint16 }

const (
	st1ShortCircuit            = 1 << 0
	st1ChargeMOSFETOn          = 1 << 1
	st1DischargeMOSFETOn       = 1 << 2
	st1UsingBatteryModulePower = 1 << 3
	st1ChargeOverCurrent2      = 1 << 4
	st1DischargeOverCurrent2   = 1 << 5
	st1ModuleOverVoltage       = 1 << 6
	st1CellUnderVoltage        = 1 << 7
	st1CellOverVoltage         = 1 << 8
	st1ChargeOverCurrent1      = 1 << 9
	st1DischargeOverCurrent1   = 1 << 10
	st1DischargeUnderTemp      = 1 << 11
	st1DischargeOverTemp       = 1 << 12
	st1ChargeUnderTemp         = 1 << 13
	st1ChargeOverTemp          = 1 << 14
	st1ModuleUnderVoltage      = 1 << 15
)

func DecodeStatus1(raw uint16) Status1 { return Status1{Raw: raw} }

func (s Status1) ModuleOverVoltage() bool  { return s.Raw&st1ModuleOverVoltage != 0 }
func (s Status1) ModuleUnderVoltage() bool { return s.Raw&st1ModuleUnderVoltage != 0 }
func (s Status1) CellOverVoltage() bool    { return s.Raw&st1CellOverVoltage != 0 }
func (s Status1) CellUnderVoltage() bool   { return s.Raw&st1CellUnderVoltage != 0 }
func (s Status1) ChargeOverTemp() bool     { return s.Raw&st1ChargeOverTemp != 0 }
func (s Status1) ChargeUnderTemp() bool    { return s.Raw&st1ChargeUnderTemp != 0 }
func (s Status1) DischargeOverTemp() bool  { return s.Raw&st1DischargeOverTemp != 0 }
func (s Status1) DischargeUnderTemp() bool { return s.Raw&st1DischargeUnderTemp != 0 }
func (s Status1) ChargeOverCurrent() bool {
	return s.Raw&(st1ChargeOverCurrent1|st1ChargeOverCurrent2) != 0
}
func (s Status1) DischargeOverCurrent() bool {
	return s.Raw&(st1DischargeOverCurrent1|st1DischargeOverCurrent2) != 0
}
func (s Status1) ChargeMOSFETOn() bool    { return s.Raw&st1ChargeMOSFETOn != 0 }
func (s Status1) DischargeMOSFETOn() bool { return s.Raw&st1DischargeMOSFETOn != 0 }
func (s Status1) ShortCircuit() bool      { return s.Raw&st1ShortCircuit != 0 }

// Status2 decodes the secondary 16-bit warning/state word.
type Status2 struct{ Raw uint16 }

const (
	st2CellLowVoltageWarn     = 1 << 0
	st2CellHighVoltageWarn    = 1 << 1
	st2ModuleLowVoltageWarn   = 1 << 2
	st2ModuleHighVoltageWarn  = 1 << 3
	st2ChargeLowTempWarn      = 1 << 4
	st2ChargeHighTempWarn     = 1 << 5
	st2DischargeLowTempWarn   = 1 << 6
	st2DischargeHighTempWarn  = 1 << 7
	st2Buzzer                 = 1 << 8
	st2FullyCharged           = 1 << 11
	st2HeaterOn               = 1 << 13
	st2EffectiveDischargeCurrent = 1 << 14
	st2EffectiveChargeCurrent = 1 << 15
)

func DecodeStatus2(raw uint16) Status2 { return Status2{Raw: raw} }

func (s Status2) HeaterOn() bool     { return s.Raw&st2HeaterOn != 0 }
func (s Status2) FullyCharged() bool { return s.Raw&st2FullyCharged != 0 }
func (s Status2) Buzzer() bool       { return s.Raw&st2Buzzer != 0 }

// Status3 decodes the 16-bit per-cell voltage-read-error word; bit i is set
// if cell i+1's reading failed.
type Status3 struct{ Raw uint16 }

func DecodeStatus3(raw uint16) Status3 { return Status3{Raw: raw} }

func (s Status3) CellReadError(cell int) bool {
	if cell < 1 || cell > MaxCells {
		return false
	}
	return s.Raw&(1<<uint(cell-1)) != 0
}

// ChargeDischargeStatus decodes the 16-bit MOSFET/charge-control word.
type ChargeDischargeStatus struct{ Raw uint16 }

const (
	cdsFullChargeReq      = 1 << 3
	cdsImmediateCharge2   = 1 << 4
	cdsImmediateCharge    = 1 << 5
	cdsDischargeEnabled   = 1 << 6
	cdsChargeEnabled      = 1 << 7
)

func DecodeChargeDischargeStatus(raw uint16) ChargeDischargeStatus {
	return ChargeDischargeStatus{Raw: raw}
}

func (c ChargeDischargeStatus) ChargeEnabled() bool       { return c.Raw&cdsChargeEnabled != 0 }
func (c ChargeDischargeStatus) DischargeEnabled() bool    { return c.Raw&cdsDischargeEnabled != 0 }
func (c ChargeDischargeStatus) FullChargeRequested() bool { return c.Raw&cdsFullChargeReq != 0 }
