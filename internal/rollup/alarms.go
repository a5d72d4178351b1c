package rollup

import "renogyfleet/internal/registers"

// Alarms is the derived 8-bit fleet alarm word: one flag per condition the
// operator cares about, each true iff any battery in the fleet is
// currently reporting the underlying Status1/Status2 bit(s).
type Alarms struct {
	OverVoltage  bool
	UnderVoltage bool
	OverCurrent  bool
	OverTemp     bool
	UnderTemp    bool
	ShortCircuit bool
	HeaterOn     bool
	FullyCharged bool
}

// Byte packs the alarm set into an 8-bit word, in the same bit order as the
// struct fields (OverVoltage = bit 0). The scrape registry exposes each flag
// as its own gauge instead of this word.
func (a Alarms) Byte() byte {
	var b byte
	set := func(bit int, v bool) {
		if v {
			b |= 1 << uint(bit)
		}
	}
	set(0, a.OverVoltage)
	set(1, a.UnderVoltage)
	set(2, a.OverCurrent)
	set(3, a.OverTemp)
	set(4, a.UnderTemp)
	set(5, a.ShortCircuit)
	set(6, a.HeaterOn)
	set(7, a.FullyCharged)
	return b
}

func deriveAlarms(status1Union, status2Union uint16) Alarms {
	s1 := registers.DecodeStatus1(status1Union)
	s2 := registers.DecodeStatus2(status2Union)

	return Alarms{
		OverVoltage:  s1.ModuleOverVoltage() || s1.CellOverVoltage(),
		UnderVoltage: s1.ModuleUnderVoltage() || s1.CellUnderVoltage(),
		OverCurrent:  s1.ChargeOverCurrent() || s1.DischargeOverCurrent(),
		OverTemp:     s1.ChargeOverTemp() || s1.DischargeOverTemp(),
		UnderTemp:    s1.ChargeUnderTemp() || s1.DischargeUnderTemp(),
		ShortCircuit: s1.ShortCircuit(),
		HeaterOn:     s2.HeaterOn(),
		FullyCharged: s2.FullyCharged(),
	}
}
