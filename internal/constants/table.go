package constants

// Canonical names, as they appear in data files and on the wire.
const (
	PhysicsSpeedDamp = "PHYSICS_SPEED_DAMP"
	StealthMinDist   = "STEALTH_MIN_DIST"
	EWJumpBonusRange = "EW_JUMP_BONUS_RANGE"
	EWAsteroidDist   = "EW_ASTEROID_DIST"
	EWJumpDetectDist = "EW_JUMPDETECT_DIST"
	EWSpobDetectDist = "EW_SPOBDETECT_DIST"
)

var names = []string{
	PhysicsSpeedDamp,
	StealthMinDist,
	EWJumpBonusRange,
	EWAsteroidDist,
	EWJumpDetectDist,
	EWSpobDetectDist,
}

// Names returns the canonical constant names in declaration order.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Table holds the process-wide tuning constants.
// Values are finite and non-negative once a Store publishes them.
type Table struct {
	// Physics
	PhysicsSpeedDamp float64 `json:"PHYSICS_SPEED_DAMP" yaml:"PHYSICS_SPEED_DAMP"` // velocity damping applied by the integrator
	StealthMinDist   float64 `json:"STEALTH_MIN_DIST" yaml:"STEALTH_MIN_DIST"`     // stealthed entities are always detected inside this range

	// Electronic warfare
	EWJumpBonusRange float64 `json:"EW_JUMP_BONUS_RANGE" yaml:"EW_JUMP_BONUS_RANGE"` // bonus range near jump points
	EWAsteroidDist   float64 `json:"EW_ASTEROID_DIST" yaml:"EW_ASTEROID_DIST"`       // asteroid field detection modifier
	EWJumpDetectDist float64 `json:"EW_JUMPDETECT_DIST" yaml:"EW_JUMPDETECT_DIST"`   // base jump point detection distance
	EWSpobDetectDist float64 `json:"EW_SPOBDETECT_DIST" yaml:"EW_SPOBDETECT_DIST"`   // base space object detection distance
}

// Value returns the field stored under a canonical name.
func (t Table) Value(name string) (float64, bool) {
	switch name {
	case PhysicsSpeedDamp:
		return t.PhysicsSpeedDamp, true
	case StealthMinDist:
		return t.StealthMinDist, true
	case EWJumpBonusRange:
		return t.EWJumpBonusRange, true
	case EWAsteroidDist:
		return t.EWAsteroidDist, true
	case EWJumpDetectDist:
		return t.EWJumpDetectDist, true
	case EWSpobDetectDist:
		return t.EWSpobDetectDist, true
	}
	return 0, false
}

// Map returns the table keyed by canonical name.
func (t Table) Map() map[string]float64 {
	m := make(map[string]float64, len(names))
	for _, name := range names {
		m[name], _ = t.Value(name)
	}
	return m
}

func (t *Table) set(name string, v float64) bool {
	switch name {
	case PhysicsSpeedDamp:
		t.PhysicsSpeedDamp = v
	case StealthMinDist:
		t.StealthMinDist = v
	case EWJumpBonusRange:
		t.EWJumpBonusRange = v
	case EWAsteroidDist:
		t.EWAsteroidDist = v
	case EWJumpDetectDist:
		t.EWJumpDetectDist = v
	case EWSpobDetectDist:
		t.EWSpobDetectDist = v
	default:
		return false
	}
	return true
}

func isCanonical(name string) bool {
	var t Table
	_, ok := t.Value(name)
	return ok
}
