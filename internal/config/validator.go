package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
)

// sharedValidator is the single validator.Validate instance used by
// Config.Validate, with the custom validators below registered against it.
var sharedValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("aligned_interval", validateAlignedInterval); err != nil {
		panic(fmt.Sprintf("failed to register custom validator: %v", err))
	}
	return v
}

// validateAlignedInterval validates that a poll/flush duration aligns with a
// human-recognizable time boundary, catching config typos like "7s"
// that parse fine but produce an odd poll cadence.
func validateAlignedInterval(fl validator.FieldLevel) bool {
	interval, ok := fl.Field().Interface().(time.Duration)
	if !ok {
		return false
	}

	validIntervals := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		250 * time.Millisecond,
		500 * time.Millisecond,
		time.Second,
		2 * time.Second,
		5 * time.Second,
		10 * time.Second,
		15 * time.Second,
		20 * time.Second,
		30 * time.Second,
		time.Minute,
		2 * time.Minute,
		5 * time.Minute,
		10 * time.Minute,
		15 * time.Minute,
		30 * time.Minute,
		time.Hour,
	}

	return slices.Contains(validIntervals, interval)
}
