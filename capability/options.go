package capability

import (
	"fmt"
	"math"
)

// Option configures a [Set], see [New].
type Option interface {
	applySet(*Set) error
}

// setOptionImpl implements Option.
type setOptionImpl struct {
	applySetFunc func(*Set) error
}

func (o *setOptionImpl) applySet(s *Set) error {
	return o.applySetFunc(s)
}

// From replaces every value with those of base. It is intended to be the
// first option, when deriving a set from another. A nil base is [Default].
func From(base *Set) Option {
	return &setOptionImpl{func(s *Set) error {
		for i := range flags {
			s.values[i] = base.get(Flag(i))
		}
		return nil
	}}
}

// With sets f to value, which must be a bool, 0 or 1 for [KindBool] flags,
// or an integer for [KindInt] flags.
func With(f Flag, value any) Option {
	return &setOptionImpl{func(s *Set) error {
		v, err := convert(f, value)
		if err != nil {
			return err
		}
		s.values[f] = v
		return nil
	}}
}

// WithBool is a typed variant of [With].
func WithBool(f Flag, value bool) Option {
	return With(f, value)
}

// WithInt is a typed variant of [With].
func WithInt(f Flag, value int) Option {
	return With(f, value)
}

// WithDebug sets the diagnostic master switch, [FeatureDebug].
func WithDebug(enabled bool) Option {
	return With(FeatureDebug, enabled)
}

func convert(f Flag, value any) (int, error) {
	if !f.Valid() {
		return 0, &ValidationError{Flag: f, Reason: `unknown flag`}
	}

	switch f.Kind() {
	case KindBool:
		if v, ok := value.(bool); ok {
			return boolToInt(v), nil
		}
		// 0 and 1, as written in lwipopts.h
		if v, ok := toInt64(value); ok {
			if v != 0 && v != 1 {
				return 0, &ValidationError{Flag: f, Reason: fmt.Sprintf(`value %v is not 0 or 1`, value)}
			}
			return int(v), nil
		}

	case KindInt:
		if v, ok := toInt64(value); ok {
			if v < math.MinInt32 || v > math.MaxInt32 {
				return 0, &ValidationError{Flag: f, Reason: fmt.Sprintf(`value %v out of range`, value)}
			}
			return int(v), nil
		}
	}

	return 0, &ValidationError{
		Flag:   f,
		Reason: fmt.Sprintf(`expected %s, got %T`, f.Kind(), value),
	}
}

func toInt64(value any) (int64, bool) {
	switch value := value.(type) {
	case int:
		return int64(value), true
	case int8:
		return int64(value), true
	case int16:
		return int64(value), true
	case int32:
		return int64(value), true
	case int64:
		return value, true
	case uint:
		return clampUint(uint64(value)), true
	case uint8:
		return int64(value), true
	case uint16:
		return int64(value), true
	case uint32:
		return int64(value), true
	case uint64:
		return clampUint(value), true
	default:
		return 0, false
	}
}

func clampUint(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
