// Package logging builds the structured logger shared by the stackboot
// command and tests.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// aliases are accepted in addition to [logiface.Level.String].
var aliases = map[string]logiface.Level{
	`emergency`:     logiface.LevelEmergency,
	`panic`:         logiface.LevelEmergency,
	`critical`:      logiface.LevelCritical,
	`error`:         logiface.LevelError,
	`warn`:          logiface.LevelWarning,
	`informational`: logiface.LevelInformational,
	`off`:           logiface.LevelDisabled,
	`none`:          logiface.LevelDisabled,
}

// ParseLevel parses a syslog keyword (e.g. err, warning, info), trace, or
// disabled, case-insensitively.
func ParseLevel(s string) (logiface.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for level := logiface.LevelDisabled; level <= logiface.LevelTrace; level++ {
		if level.String() == s {
			return level, nil
		}
	}
	if level, ok := aliases[s]; ok {
		return level, nil
	}
	return 0, fmt.Errorf(`logging: unknown level %q`, s)
}

// New builds a JSON logger writing to w, with the given level name, see
// [ParseLevel].
func New(w io.Writer, level string) (*logiface.Logger[logiface.Event], error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return NewLevel(w, lvl), nil
}

// NewLevel is [New] with a parsed level.
func NewLevel(w io.Writer, level logiface.Level) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(level),
	).Logger()
}
