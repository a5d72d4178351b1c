package registers

import (
	"bytes"
	"math"

	"renogyfleet/internal/protocol"
	"renogyfleet/pkg/utils"
)

// Value is the decoded form of a register read, tagged by the descriptor's
// Semantics so callers know which field is meaningful.
type Value struct {
	Semantics Semantics
	Float     float64 // voltage, current, temperature, capacity, soc
	UInt      uint64  // counts, versions, raw bitfield words
	Str       string  // ASCII identity strings
}

// Decode interprets raw register bytes according to d's semantics. data must
// be exactly 2*d.WordCount bytes (the byte-count-stripped payload of a
// read-holding response).
func Decode(d Descriptor, data []byte) (Value, error) {
	want := int(d.WordCount) * 2
	if len(data) < want {
		return Value{}, protocol.NewInvalidData("register data shorter than declared word count")
	}
	data = data[:want]

	switch d.Semantics {
	case SemUnsignedInteger:
		switch d.WordCount {
		case 1:
			return Value{Semantics: d.Semantics, UInt: uint64(utils.FromBytes[uint16](data))}, nil
		case 2:
			return Value{Semantics: d.Semantics, UInt: uint64(utils.FromBytes[uint32](data))}, nil
		default:
			return Value{}, protocol.NewUnsupportedOperation("unsigned integer register with unsupported word count")
		}
	case SemSignedCurrent:
		raw := utils.FromBytes[int16](data)
		return Value{Semantics: d.Semantics, Float: utils.Scale(raw, 0.01)}, nil
	case SemUnsignedCurrent:
		raw := utils.FromBytes[uint16](data)
		return Value{Semantics: d.Semantics, Float: utils.Scale(raw, 0.01)}, nil
	case SemCapacity:
		raw := utils.FromBytes[uint32](data)
		return Value{Semantics: d.Semantics, Float: utils.Scale(raw, 0.001)}, nil
	case SemVoltage:
		raw := utils.FromBytes[uint16](data)
		return Value{Semantics: d.Semantics, Float: utils.Scale(raw, 0.1)}, nil
	case SemUnsignedTemperature:
		raw := utils.FromBytes[uint16](data)
		return Value{Semantics: d.Semantics, Float: utils.Scale(raw, 0.1)}, nil
	case SemSignedTemperature:
		raw := utils.FromBytes[int16](data)
		return Value{Semantics: d.Semantics, Float: utils.Scale(raw, 0.1)}, nil
	case SemASCIIString:
		trimmed := bytes.TrimRight(data, "\x00")
		return Value{Semantics: d.Semantics, Str: string(trimmed)}, nil
	case SemCellVoltageAlarms, SemCellTemperatureAlarms, SemOtherAlarmInfo:
		raw := utils.FromBytes[uint32](data)
		return Value{Semantics: d.Semantics, UInt: uint64(raw)}, nil
	case SemStatus1, SemStatus2, SemStatus3, SemChargeDischargeStatus:
		raw := utils.FromBytes[uint16](data)
		return Value{Semantics: d.Semantics, UInt: uint64(raw)}, nil
	default:
		return Value{}, protocol.NewUnsupportedOperation("unknown register semantics")
	}
}

// Encode renders a float engineering value into the register's on-wire
// words, scaling and truncating toward zero. Only writable registers of
// voltage/current/temperature or unsigned-integer semantics round-trip
// through this path; other semantics return UnsupportedOperation.
func Encode(d Descriptor, value float64) ([]byte, error) {
	if !d.Writable {
		return nil, protocol.NewUnsupportedOperation("register is not writable: " + d.Name)
	}

	switch d.Semantics {
	case SemVoltage, SemUnsignedTemperature:
		raw := truncateToward(value / 0.1)
		if raw < 0 || raw > math.MaxUint16 {
			return nil, protocol.NewInvalidRegisterRange("value out of range for register: " + d.Name)
		}
		return utils.ToBytes(uint16(raw)), nil
	case SemSignedTemperature:
		raw := truncateToward(value / 0.1)
		if raw < math.MinInt16 || raw > math.MaxInt16 {
			return nil, protocol.NewInvalidRegisterRange("value out of range for register: " + d.Name)
		}
		return utils.ToBytes(int16(raw)), nil
	case SemUnsignedCurrent:
		raw := truncateToward(value / 0.01)
		if raw < 0 || raw > math.MaxUint16 {
			return nil, protocol.NewInvalidRegisterRange("value out of range for register: " + d.Name)
		}
		return utils.ToBytes(uint16(raw)), nil
	case SemSignedCurrent:
		raw := truncateToward(value / 0.01)
		if raw < math.MinInt16 || raw > math.MaxInt16 {
			return nil, protocol.NewInvalidRegisterRange("value out of range for register: " + d.Name)
		}
		return utils.ToBytes(int16(raw)), nil
	case SemUnsignedInteger:
		if value < 0 || value > math.MaxUint16 {
			return nil, protocol.NewInvalidRegisterRange("value out of range for register: " + d.Name)
		}
		return utils.ToBytes(uint16(value)), nil
	default:
		return nil, protocol.NewUnsupportedOperation("register semantics do not support encoding: " + d.Name)
	}
}

func truncateToward(v float64) int64 {
	return int64(v)
}
