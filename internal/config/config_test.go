package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Collector: CollectorConfig{PollInterval: 10 * time.Second, BufferWindowMinutes: 30},
		Remote:    RemoteConfig{URL: "http://localhost:9090"},
		HTTP:      HTTPConfig{ControlPort: 8080, ScrapePort: 9100},
		Batteries: []BatteryConfig{{ID: "battery-1", Transport: "serial", Path: "/dev/ttyUSB0"}},
		Logger:    LoggerConfig{Level: "info", Format: "json"},
	}
}

func TestValidConfigPasses(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected a valid config to pass, got %v", err)
	}
}

func TestValidateRejectsMisalignedPollInterval(t *testing.T) {
	c := validConfig()
	c.Collector.PollInterval = 7 * time.Second
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for a non-aligned poll interval")
	}
}

func TestValidateAcceptsAllAlignedIntervals(t *testing.T) {
	aligned := []time.Duration{100 * time.Millisecond, time.Second, 30 * time.Second, time.Minute, time.Hour}
	for _, d := range aligned {
		c := validConfig()
		c.Collector.PollInterval = d
		if err := c.Validate(); err != nil {
			t.Errorf("interval %v should be valid, got %v", d, err)
		}
	}
}

func TestValidateRejectsEmptyBatteryList(t *testing.T) {
	c := validConfig()
	c.Batteries = nil
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for an empty battery list")
	}
}

func TestValidateRejectsSamePortForControlAndScrape(t *testing.T) {
	c := validConfig()
	c.HTTP.ScrapePort = c.HTTP.ControlPort
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error when control and scrape ports collide")
	}
}

func TestValidateRejectsInvalidTransport(t *testing.T) {
	c := validConfig()
	c.Batteries[0].Transport = "usb"
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for an unrecognized transport kind")
	}
}

func TestValidateRequiresPathForSerialTransport(t *testing.T) {
	c := validConfig()
	c.Batteries[0].Path = ""
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error when a serial battery has no path")
	}
}

func TestValidateRejectsNonURLRemote(t *testing.T) {
	c := validConfig()
	c.Remote.URL = "not-a-url"
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for a malformed remote URL")
	}
}

func TestValidateRejectsInvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for an unrecognized log level")
	}
}
