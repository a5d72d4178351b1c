package writer

import (
	"bytes"
	"strconv"
	"time"

	lineprotocol "github.com/influxdata/line-protocol"

	"renogyfleet/internal/registers"
	"renogyfleet/internal/snapshot"
)

// point adapts one measurement into the influxdata/line-protocol Metric
// interface so rendering goes through the library's escaping rules instead
// of hand-formatted strings.
type point struct {
	name   string
	tags   []*lineprotocol.Tag
	fields []*lineprotocol.Field
	ts     time.Time
}

func (p *point) Time() time.Time          { return p.ts }
func (p *point) Name() string             { return p.name }
func (p *point) TagList() []*lineprotocol.Tag   { return p.tags }
func (p *point) FieldList() []*lineprotocol.Field { return p.fields }

func newPoint(measurement string, ts time.Time, tags map[string]string, fields map[string]interface{}) *point {
	p := &point{name: measurement, ts: ts}
	for k, v := range tags {
		p.tags = append(p.tags, &lineprotocol.Tag{Key: k, Value: v})
	}
	for k, v := range fields {
		p.fields = append(p.fields, &lineprotocol.Field{Key: k, Value: v})
	}
	return p
}

// RenderBatch serializes a batch of snapshots into InfluxDB line protocol,
// one measurement series per metric, with `cell=`/`sensor=` tags for
// per-index series, matching the scrape registry's metric/label inventory
// minus the "_value" exposition suffix (line protocol fields are already
// named, so no suffix is needed there). The four charge/discharge
// voltage/current limit series that the scrape registry exposes are not
// rendered here.
func RenderBatch(snapshots []*snapshot.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := lineprotocol.NewEncoder(&buf)
	enc.SetPrecision(time.Nanosecond)

	emit := func(p *point) error {
		_, err := enc.Encode(p)
		return err
	}

	for _, s := range snapshots {
		tags := map[string]string{"battery": s.BatteryID}

		if err := emit(newPoint("renogy_module_voltage", s.Timestamp, tags, num(s.ModuleVoltage))); err != nil {
			return nil, err
		}
		if err := emit(newPoint("renogy_current", s.Timestamp, tags, num(s.CurrentAmps))); err != nil {
			return nil, err
		}
		if err := emit(newPoint("renogy_remaining_capacity_ah", s.Timestamp, tags, num(s.RemainingCapacity))); err != nil {
			return nil, err
		}
		if err := emit(newPoint("renogy_total_capacity_ah", s.Timestamp, tags, num(s.TotalCapacity))); err != nil {
			return nil, err
		}
		if err := emit(newPoint("renogy_soc_percent", s.Timestamp, tags, num(s.SoCPercent))); err != nil {
			return nil, err
		}
		if err := emit(newPoint("renogy_cycle_count", s.Timestamp, tags, num(float64(s.CycleCount)))); err != nil {
			return nil, err
		}

		for i, v := range s.CellVoltages {
			cellTags := withIndex(tags, "cell", i+1)
			if err := emit(newPoint("renogy_cell_voltage", s.Timestamp, cellTags, num(v))); err != nil {
				return nil, err
			}
		}
		for i, v := range s.CellTemperatures {
			cellTags := withIndex(tags, "cell", i+1)
			if err := emit(newPoint("renogy_cell_temperature", s.Timestamp, cellTags, num(v))); err != nil {
				return nil, err
			}
		}
		if s.BMSTemperature != nil {
			if err := emit(newPoint("renogy_bms_temperature", s.Timestamp, tags, num(*s.BMSTemperature))); err != nil {
				return nil, err
			}
		}
		for i, v := range s.EnvTemperatures {
			sensorTags := withIndex(tags, "sensor", i+1)
			if err := emit(newPoint("renogy_environment_temperature", s.Timestamp, sensorTags, num(v))); err != nil {
				return nil, err
			}
		}
		for i, v := range s.HeaterTemperatures {
			sensorTags := withIndex(tags, "sensor", i+1)
			if err := emit(newPoint("renogy_heater_temperature", s.Timestamp, sensorTags, num(v))); err != nil {
				return nil, err
			}
		}

		if s.Status1Raw != nil {
			st1 := registers.DecodeStatus1(*s.Status1Raw)
			if err := emit(newPoint("renogy_status1", s.Timestamp, tags, num(float64(*s.Status1Raw)))); err != nil {
				return nil, err
			}
			if err := emit(newPoint("renogy_charge_mosfet_on", s.Timestamp, tags, flag(st1.ChargeMOSFETOn()))); err != nil {
				return nil, err
			}
			if err := emit(newPoint("renogy_discharge_mosfet_on", s.Timestamp, tags, flag(st1.DischargeMOSFETOn()))); err != nil {
				return nil, err
			}
		}
		if s.Status2Raw != nil {
			st2 := registers.DecodeStatus2(*s.Status2Raw)
			if err := emit(newPoint("renogy_status2", s.Timestamp, tags, num(float64(*s.Status2Raw)))); err != nil {
				return nil, err
			}
			if err := emit(newPoint("renogy_heater_on", s.Timestamp, tags, flag(st2.HeaterOn()))); err != nil {
				return nil, err
			}
			if err := emit(newPoint("renogy_fully_charged", s.Timestamp, tags, flag(st2.FullyCharged()))); err != nil {
				return nil, err
			}
		}
		if s.Status3Raw != nil {
			if err := emit(newPoint("renogy_status3", s.Timestamp, tags, num(float64(*s.Status3Raw)))); err != nil {
				return nil, err
			}
		}
		if s.OtherAlarmInfoRaw != nil {
			if err := emit(newPoint("renogy_other_alarm_info", s.Timestamp, tags, num(float64(*s.OtherAlarmInfoRaw)))); err != nil {
				return nil, err
			}
		}
		if s.ChargeDischargeStatusRaw != nil {
			cds := registers.DecodeChargeDischargeStatus(*s.ChargeDischargeStatusRaw)
			if err := emit(newPoint("renogy_charge_enabled", s.Timestamp, tags, flag(cds.ChargeEnabled()))); err != nil {
				return nil, err
			}
			if err := emit(newPoint("renogy_discharge_enabled", s.Timestamp, tags, flag(cds.DischargeEnabled()))); err != nil {
				return nil, err
			}
		}
	}

	return buf.Bytes(), nil
}

func num(v float64) map[string]interface{} {
	return map[string]interface{}{"value": v}
}

func flag(v bool) map[string]interface{} {
	if v {
		return map[string]interface{}{"value": 1}
	}
	return map[string]interface{}{"value": 0}
}

func withIndex(base map[string]string, key string, idx int) map[string]string {
	out := make(map[string]string, len(base)+1)
	for k, v := range base {
		out[k] = v
	}
	out[key] = strconv.Itoa(idx)
	return out
}
