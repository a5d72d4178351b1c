// Package rollup aggregates a fleet of battery snapshots into system-wide
// totals and a derived alarm bitmap, the way a site operator would read the
// fleet at a glance rather than battery-by-battery.
package rollup

import "renogyfleet/internal/snapshot"

// Summary is the fleet-wide aggregate over one poll cycle's snapshots.
type Summary struct {
	BatteryCount int

	TotalCurrentAmps      float64
	TotalRemainingCapacity float64
	TotalCapacity         float64
	AverageSoCPercent     float64
	AverageModuleVoltage  float64
	AverageCellTemperature *float64

	Status1Union uint16
	Status2Union uint16
	Alarms       Alarms
}

// New aggregates snapshots into a Summary. An empty snapshot set produces a
// zero-value Summary with BatteryCount 0.
func New(snapshots []*snapshot.Snapshot) Summary {
	s := Summary{BatteryCount: len(snapshots)}
	if len(snapshots) == 0 {
		return s
	}

	var socSum, voltageSum, tempSum float64
	var tempCount int

	for _, b := range snapshots {
		s.TotalCurrentAmps += b.CurrentAmps
		s.TotalRemainingCapacity += b.RemainingCapacity
		s.TotalCapacity += b.TotalCapacity
		socSum += b.SoCPercent
		voltageSum += b.ModuleVoltage

		for _, t := range b.CellTemperatures {
			tempSum += t
			tempCount++
		}

		if b.Status1Raw != nil {
			s.Status1Union |= *b.Status1Raw
		}
		if b.Status2Raw != nil {
			s.Status2Union |= *b.Status2Raw
		}
	}

	s.AverageSoCPercent = socSum / float64(len(snapshots))
	s.AverageModuleVoltage = voltageSum / float64(len(snapshots))
	if tempCount > 0 {
		avg := tempSum / float64(tempCount)
		s.AverageCellTemperature = &avg
	}

	s.Alarms = deriveAlarms(s.Status1Union, s.Status2Union)
	return s
}
