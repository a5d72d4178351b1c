// Package scrape maintains the live Prometheus registry for the fleet and
// exposes it over HTTP. Every exported metric name carries an explicit
// "_value" suffix (renogy_cell_voltage_value, etc.) so that PromQL selectors
// written against a plain gauge name, as used by the read-path client in
// package queryclient, resolve unambiguously against this exposition.
package scrape

import (
	"strconv"

	"renogyfleet/internal/registers"
	"renogyfleet/internal/rollup"
	"renogyfleet/internal/snapshot"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry owns every renogy_* gauge family and the process-level registry
// they are registered against.
type Registry struct {
	reg *prometheus.Registry

	cellVoltage       *prometheus.GaugeVec
	cellTemperature   *prometheus.GaugeVec
	bmsTemperature    *prometheus.GaugeVec
	envTemperature    *prometheus.GaugeVec
	heaterTemperature *prometheus.GaugeVec
	moduleVoltage     *prometheus.GaugeVec
	current           *prometheus.GaugeVec
	remainingCapacity *prometheus.GaugeVec
	totalCapacity     *prometheus.GaugeVec
	socPercent        *prometheus.GaugeVec
	cycleCount        *prometheus.GaugeVec

	chargeVoltageLimit    *prometheus.GaugeVec
	dischargeVoltageLimit *prometheus.GaugeVec
	chargeCurrentLimit    *prometheus.GaugeVec
	dischargeCurrentLimit *prometheus.GaugeVec

	status1        *prometheus.GaugeVec
	status2        *prometheus.GaugeVec
	status3        *prometheus.GaugeVec
	otherAlarmInfo *prometheus.GaugeVec

	chargeMOSFETOn  *prometheus.GaugeVec
	dischargeMOSFETOn *prometheus.GaugeVec
	chargeEnabled   *prometheus.GaugeVec
	dischargeEnabled *prometheus.GaugeVec
	fullyCharged    *prometheus.GaugeVec
	heaterOn        *prometheus.GaugeVec

	systemAlarms *prometheus.GaugeVec
}

// New builds a fresh registry with every renogy_* gauge family registered.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	gauge := func(name, help string, labels ...string) *prometheus.GaugeVec {
		return factory.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, labels)
	}

	return &Registry{
		reg: reg,

		cellVoltage:       gauge("renogy_cell_voltage_value", "Per-cell voltage in volts.", "battery", "cell"),
		cellTemperature:   gauge("renogy_cell_temperature_value", "Per-cell temperature in degrees Celsius.", "battery", "cell"),
		bmsTemperature:    gauge("renogy_bms_temperature_value", "BMS board temperature in degrees Celsius.", "battery"),
		envTemperature:    gauge("renogy_environment_temperature_value", "Environment sensor temperature in degrees Celsius.", "battery", "sensor"),
		heaterTemperature: gauge("renogy_heater_temperature_value", "Heater sensor temperature in degrees Celsius.", "battery", "sensor"),
		moduleVoltage:     gauge("renogy_module_voltage_value", "Battery module voltage in volts.", "battery"),
		current:           gauge("renogy_current_value", "Battery current in amps, positive charging.", "battery"),
		remainingCapacity: gauge("renogy_remaining_capacity_ah_value", "Remaining capacity in amp-hours.", "battery"),
		totalCapacity:     gauge("renogy_total_capacity_ah_value", "Total rated capacity in amp-hours.", "battery"),
		socPercent:        gauge("renogy_soc_percent_value", "State of charge as a percentage.", "battery"),
		cycleCount:        gauge("renogy_cycle_count_value", "Cumulative charge/discharge cycle count.", "battery"),

		chargeVoltageLimit:    gauge("renogy_charge_voltage_limit_value", "Configured charge voltage limit in volts.", "battery"),
		dischargeVoltageLimit: gauge("renogy_discharge_voltage_limit_value", "Configured discharge voltage limit in volts.", "battery"),
		chargeCurrentLimit:    gauge("renogy_charge_current_limit_value", "Configured charge current limit in amps.", "battery"),
		dischargeCurrentLimit: gauge("renogy_discharge_current_limit_value", "Configured discharge current limit in amps.", "battery"),

		status1:        gauge("renogy_status1_value", "Raw Status1 protection bitfield.", "battery"),
		status2:        gauge("renogy_status2_value", "Raw Status2 warning/state bitfield.", "battery"),
		status3:        gauge("renogy_status3_value", "Raw Status3 per-cell read-error bitfield.", "battery"),
		otherAlarmInfo: gauge("renogy_other_alarm_info_value", "Raw other-alarm-info bitfield.", "battery"),

		chargeMOSFETOn:    gauge("renogy_charge_mosfet_on_value", "1 if the charge MOSFET is on, else 0.", "battery"),
		dischargeMOSFETOn: gauge("renogy_discharge_mosfet_on_value", "1 if the discharge MOSFET is on, else 0.", "battery"),
		chargeEnabled:     gauge("renogy_charge_enabled_value", "1 if charging is enabled, else 0.", "battery"),
		dischargeEnabled:  gauge("renogy_discharge_enabled_value", "1 if discharging is enabled, else 0.", "battery"),
		fullyCharged:      gauge("renogy_fully_charged_value", "1 if the battery reports fully charged, else 0.", "battery"),
		heaterOn:          gauge("renogy_heater_on_value", "1 if the heater is on, else 0.", "battery"),

		systemAlarms: gauge("renogy_system_alarms_value", "Derived fleet-wide alarm bitmap.", "flag"),
	}
}

// Gatherer exposes the underlying prometheus.Registry for promhttp mounting.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Raw exposes the underlying prometheus.Registry so other packages (e.g.
// diag) can register their own collectors into the same exposition without
// running a second /metrics listener.
func (r *Registry) Raw() *prometheus.Registry { return r.reg }

func boolGauge(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

// Update sets every gauge from one battery's snapshot.
func (r *Registry) Update(s *snapshot.Snapshot) {
	id := s.BatteryID

	for i, v := range s.CellVoltages {
		r.cellVoltage.WithLabelValues(id, cellLabel(i+1)).Set(v)
	}
	for i, v := range s.CellTemperatures {
		r.cellTemperature.WithLabelValues(id, cellLabel(i+1)).Set(v)
	}
	if s.BMSTemperature != nil {
		r.bmsTemperature.WithLabelValues(id).Set(*s.BMSTemperature)
	}
	for i, v := range s.EnvTemperatures {
		r.envTemperature.WithLabelValues(id, cellLabel(i+1)).Set(v)
	}
	for i, v := range s.HeaterTemperatures {
		r.heaterTemperature.WithLabelValues(id, cellLabel(i+1)).Set(v)
	}

	r.moduleVoltage.WithLabelValues(id).Set(s.ModuleVoltage)
	r.current.WithLabelValues(id).Set(s.CurrentAmps)
	r.remainingCapacity.WithLabelValues(id).Set(s.RemainingCapacity)
	r.totalCapacity.WithLabelValues(id).Set(s.TotalCapacity)
	r.socPercent.WithLabelValues(id).Set(s.SoCPercent)
	r.cycleCount.WithLabelValues(id).Set(float64(s.CycleCount))

	if s.ChargeVoltageLimit != nil {
		r.chargeVoltageLimit.WithLabelValues(id).Set(*s.ChargeVoltageLimit)
	}
	if s.DischargeVoltageLimit != nil {
		r.dischargeVoltageLimit.WithLabelValues(id).Set(*s.DischargeVoltageLimit)
	}
	if s.ChargeCurrentLimit != nil {
		r.chargeCurrentLimit.WithLabelValues(id).Set(*s.ChargeCurrentLimit)
	}
	if s.DischargeCurrentLimit != nil {
		r.dischargeCurrentLimit.WithLabelValues(id).Set(*s.DischargeCurrentLimit)
	}

	if s.Status1Raw != nil {
		r.status1.WithLabelValues(id).Set(float64(*s.Status1Raw))
		st1 := registers.DecodeStatus1(*s.Status1Raw)
		r.chargeMOSFETOn.WithLabelValues(id).Set(boolGauge(st1.ChargeMOSFETOn()))
		r.dischargeMOSFETOn.WithLabelValues(id).Set(boolGauge(st1.DischargeMOSFETOn()))
	}
	if s.Status2Raw != nil {
		r.status2.WithLabelValues(id).Set(float64(*s.Status2Raw))
		st2 := registers.DecodeStatus2(*s.Status2Raw)
		r.fullyCharged.WithLabelValues(id).Set(boolGauge(st2.FullyCharged()))
		r.heaterOn.WithLabelValues(id).Set(boolGauge(st2.HeaterOn()))
	}
	if s.Status3Raw != nil {
		r.status3.WithLabelValues(id).Set(float64(*s.Status3Raw))
	}
	if s.OtherAlarmInfoRaw != nil {
		r.otherAlarmInfo.WithLabelValues(id).Set(float64(*s.OtherAlarmInfoRaw))
	}
	if s.ChargeDischargeStatusRaw != nil {
		cds := registers.DecodeChargeDischargeStatus(*s.ChargeDischargeStatusRaw)
		r.chargeEnabled.WithLabelValues(id).Set(boolGauge(cds.ChargeEnabled()))
		r.dischargeEnabled.WithLabelValues(id).Set(boolGauge(cds.DischargeEnabled()))
	}
}

// UpdateSystemAlarms publishes the fleet-wide derived alarm flags as
// individual 0/1 gauges keyed by flag name.
func (r *Registry) UpdateSystemAlarms(a rollup.Alarms) {
	r.systemAlarms.WithLabelValues("over_voltage").Set(boolGauge(a.OverVoltage))
	r.systemAlarms.WithLabelValues("under_voltage").Set(boolGauge(a.UnderVoltage))
	r.systemAlarms.WithLabelValues("over_current").Set(boolGauge(a.OverCurrent))
	r.systemAlarms.WithLabelValues("over_temp").Set(boolGauge(a.OverTemp))
	r.systemAlarms.WithLabelValues("under_temp").Set(boolGauge(a.UnderTemp))
	r.systemAlarms.WithLabelValues("short_circuit").Set(boolGauge(a.ShortCircuit))
	r.systemAlarms.WithLabelValues("heater_on").Set(boolGauge(a.HeaterOn))
	r.systemAlarms.WithLabelValues("fully_charged").Set(boolGauge(a.FullyCharged))
}

func cellLabel(n int) string {
	return strconv.Itoa(n)
}
