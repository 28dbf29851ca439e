package constants

import (
	"errors"
	"fmt"
	"math"
)

// Compiled-in fallbacks used by DefaultSchema.
const (
	DefaultPhysicsSpeedDamp = 3.0
	DefaultStealthMinDist   = 1000.0
	DefaultEWJumpBonusRange = 2500.0
	DefaultEWAsteroidDist   = 7.5e3
	DefaultEWJumpDetectDist = 7.5e3
	DefaultEWSpobDetectDist = 20e3
)

// Field describes how one constant is resolved.
// A field without a default must be supplied by the source.
type Field struct {
	Name       string
	Default    float64
	HasDefault bool
}

// Schema lists one Field per canonical name.
type Schema []Field

// DefaultSchema returns every constant with its compiled-in default.
func DefaultSchema() Schema {
	return Schema{
		{Name: PhysicsSpeedDamp, Default: DefaultPhysicsSpeedDamp, HasDefault: true},
		{Name: StealthMinDist, Default: DefaultStealthMinDist, HasDefault: true},
		{Name: EWJumpBonusRange, Default: DefaultEWJumpBonusRange, HasDefault: true},
		{Name: EWAsteroidDist, Default: DefaultEWAsteroidDist, HasDefault: true},
		{Name: EWJumpDetectDist, Default: DefaultEWJumpDetectDist, HasDefault: true},
		{Name: EWSpobDetectDist, Default: DefaultEWSpobDetectDist, HasDefault: true},
	}
}

// StrictSchema returns every constant as required.
func StrictSchema() Schema {
	s := make(Schema, 0, len(names))
	for _, name := range names {
		s = append(s, Field{Name: name})
	}
	return s
}

// Lookup returns the field for name.
func (s Schema) Lookup(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// WithDefault returns a copy of s where name falls back to v.
func (s Schema) WithDefault(name string, v float64) Schema {
	out := make(Schema, len(s))
	copy(out, s)
	for i := range out {
		if out[i].Name == name {
			out[i].Default = v
			out[i].HasDefault = true
		}
	}
	return out
}

// WithoutDefault returns a copy of s where name is required.
func (s Schema) WithoutDefault(name string) Schema {
	out := make(Schema, len(s))
	copy(out, s)
	for i := range out {
		if out[i].Name == name {
			out[i].Default = 0
			out[i].HasDefault = false
		}
	}
	return out
}

// Validate checks that s covers each canonical name exactly once
// and that every declared default is usable.
func (s Schema) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(s))
	for _, f := range s {
		switch {
		case !isCanonical(f.Name):
			errs = append(errs, fmt.Errorf("%w: unknown constant %q", ErrInvalidSchema, f.Name))
		case seen[f.Name]:
			errs = append(errs, fmt.Errorf("%w: duplicate constant %s", ErrInvalidSchema, f.Name))
		}
		seen[f.Name] = true
		if f.HasDefault {
			if err := checkValue(f.Default); err != nil {
				errs = append(errs, fmt.Errorf("%w: default for %s: %v", ErrInvalidSchema, f.Name, err))
			}
		}
	}
	for _, name := range names {
		if !seen[name] {
			errs = append(errs, fmt.Errorf("%w: no field for %s", ErrInvalidSchema, name))
		}
	}
	return errors.Join(errs...)
}

func checkValue(v float64) error {
	switch {
	case math.IsNaN(v):
		return errors.New("not a number")
	case math.IsInf(v, 0):
		return errors.New("not finite")
	case v < 0:
		return errors.New("negative")
	}
	return nil
}
