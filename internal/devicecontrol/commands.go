// Package devicecontrol builds and sequences the write operations that
// change battery behavior: shutdown, panel lock/unlock, test mode, factory
// reset, and history clear.
package devicecontrol

import (
	"context"

	"renogyfleet/internal/protocol"
	"renogyfleet/internal/registers"
	"renogyfleet/internal/transport"
)

// Command identifies one device-control operation.
type Command int

const (
	CommandShutdown Command = iota
	CommandLock
	CommandUnlock
	CommandTestBegin
	CommandTestEnd
	CommandRestoreFactoryDefault
	CommandClearHistory
	CommandSetPowerSettings
	CommandSetACPConfig
)

const (
	ShutdownValue  = 1
	LockValue      = 0x5A5A
	UnlockValue    = 0xA5A5
	TestBeginValue = 0x5A5A
	TestEndValue   = 0xA5A5
)

// RequiresUnlock reports whether cmd must be preceded by an Unlock write.
func RequiresUnlock(cmd Command) bool {
	return cmd == CommandRestoreFactoryDefault || cmd == CommandClearHistory
}

// PowerSettings is the charge/discharge power percent pair written to
// 5228/5229. Both values must fall in [0,100].
type PowerSettings struct {
	ChargePercent    int
	DischargePercent int
}

func NewPowerSettings(chargePct, dischargePct int) (PowerSettings, error) {
	if chargePct < 0 || chargePct > 100 || dischargePct < 0 || dischargePct > 100 {
		return PowerSettings{}, protocol.NewInvalidRegisterRange("power percentages must be in [0,100]")
	}
	return PowerSettings{ChargePercent: chargePct, DischargePercent: dischargePct}, nil
}

// ACPConfig is the three-register ACP identification block written to
// 61440-61442. Each value must fall in [1,254] (0 and 255 are reserved on
// the wire).
type ACPConfig struct {
	Values [3]int
}

func NewACPConfig(v0, v1, v2 int) (ACPConfig, error) {
	for _, v := range []int{v0, v1, v2} {
		if v < 1 || v > 254 {
			return ACPConfig{}, protocol.NewInvalidRegisterRange("ACP config values must be in [1,254]")
		}
	}
	return ACPConfig{Values: [3]int{v0, v1, v2}}, nil
}

// Execute performs cmd against slave over t. A command that requires
// unlocking is sent between an Unlock write and a Lock write; the first
// failing write aborts the sequence and its error is returned.
func Execute(ctx context.Context, t transport.Transport, slave byte, cmd Command, powerSettings *PowerSettings, acp *ACPConfig) error {
	if RequiresUnlock(cmd) {
		if err := t.WriteSingleRegister(ctx, slave, registers.LockControl.Address, UnlockValue); err != nil {
			return err
		}
	}

	switch cmd {
	case CommandShutdown:
		return t.WriteSingleRegister(ctx, slave, registers.ShutdownControl.Address, ShutdownValue)
	case CommandLock:
		return t.WriteSingleRegister(ctx, slave, registers.LockControl.Address, LockValue)
	case CommandUnlock:
		return t.WriteSingleRegister(ctx, slave, registers.LockControl.Address, UnlockValue)
	case CommandTestBegin:
		return t.WriteSingleRegister(ctx, slave, registers.TestModeControl.Address, TestBeginValue)
	case CommandTestEnd:
		return t.WriteSingleRegister(ctx, slave, registers.TestModeControl.Address, TestEndValue)
	case CommandRestoreFactoryDefault:
		if _, err := t.SendCustom(ctx, slave, byte(protocol.FuncRestoreFactoryDefault), protocol.CustomCommandSupplement); err != nil {
			return err
		}
		return t.WriteSingleRegister(ctx, slave, registers.LockControl.Address, LockValue)
	case CommandClearHistory:
		if _, err := t.SendCustom(ctx, slave, byte(protocol.FuncClearHistory), protocol.CustomCommandSupplement); err != nil {
			return err
		}
		return t.WriteSingleRegister(ctx, slave, registers.LockControl.Address, LockValue)
	case CommandSetPowerSettings:
		if powerSettings == nil {
			return protocol.NewInvalidData("power settings command requires a PowerSettings value")
		}
		values := []uint16{uint16(powerSettings.ChargePercent), uint16(powerSettings.DischargePercent)}
		return t.WriteMultipleRegisters(ctx, slave, registers.ChargePowerPct.Address, values)
	case CommandSetACPConfig:
		if acp == nil {
			return protocol.NewInvalidData("ACP config command requires an ACPConfig value")
		}
		values := []uint16{uint16(acp.Values[0]), uint16(acp.Values[1]), uint16(acp.Values[2])}
		return t.WriteMultipleRegisters(ctx, slave, registers.ACPConfig0.Address, values)
	default:
		return protocol.NewUnsupportedOperation("unknown device control command")
	}
}
