package capability

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"
)

type (
	// Set is an immutable capability configuration. It is built once, at
	// program start, then passed by reference to whatever needs it.
	//
	// A nil *Set behaves as [Default].
	Set struct {
		values [flagCount]int
	}

	// Setting is a single flag and its value, see [Set.Flags].
	Setting struct {
		Flag  Flag
		Value int
	}
)

var defaults = func() (s Set) {
	for i := range flags {
		s.values[i] = flags[i].def
	}
	return
}()

// Default returns the set with every flag at its default value.
func Default() *Set {
	s := defaults
	return &s
}

// New builds a set from the defaults, with opts applied in order. The result
// is validated, see [ValidationError].
func New(opts ...Option) (*Set, error) {
	s := defaults
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applySet(&s); err != nil {
			return nil, err
		}
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (x *Set) get(f Flag) int {
	if !f.Valid() {
		return 0
	}
	if x == nil {
		return defaults.values[f]
	}
	return x.values[f]
}

// Int returns the value of f. Bool flags are 0 or 1. Unknown flags are 0.
func (x *Set) Int(f Flag) int {
	return x.get(f)
}

// Bool returns true if f is non-zero.
func (x *Set) Bool(f Flag) bool {
	return x.get(f) != 0
}

// Enabled is an alias of [Set.Bool], reading better for feature toggles.
func (x *Set) Enabled(f Flag) bool {
	return x.Bool(f)
}

// Debug returns true if the diagnostic master switch is on.
func (x *Set) Debug() bool {
	return x.Bool(FeatureDebug)
}

// Tracing returns true if trace output for ch is enabled, which is the case
// for every valid channel, when [Set.Debug] is.
func (x *Set) Tracing(ch DebugChannel) bool {
	return ch.Valid() && x.Debug()
}

// Flags returns every flag and its value, in registry order.
func (x *Set) Flags() []Setting {
	settings := make([]Setting, flagCount)
	for i := range settings {
		settings[i] = Setting{Flag: Flag(i), Value: x.get(Flag(i))}
	}
	return settings
}

// Fingerprint returns the BLAKE3 hash of the canonical form of the set, as
// lowercase hex. Equal sets always have equal fingerprints.
func (x *Set) Fingerprint() string {
	sum := blake3.Sum256(x.canonical())
	return hex.EncodeToString(sum[:])
}

// canonical is one NAME=value line per flag, in registry order.
func (x *Set) canonical() []byte {
	var b strings.Builder
	for i := range flags {
		b.WriteString(flags[i].name)
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(x.get(Flag(i))))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// Equal returns true if both sets have the same values.
func (x *Set) Equal(other *Set) bool {
	for i := range flags {
		if x.get(Flag(i)) != other.get(Flag(i)) {
			return false
		}
	}
	return true
}

// String lists the flags that differ from their defaults.
func (x *Set) String() string {
	var b strings.Builder
	b.WriteString(`capability.Set{`)
	var n int
	for i := range flags {
		v := x.get(Flag(i))
		if v == flags[i].def {
			continue
		}
		if n != 0 {
			b.WriteString(`, `)
		}
		n++
		b.WriteString(flags[i].name)
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(v))
	}
	b.WriteByte('}')
	return b.String()
}
