package widget

import (
	"fmt"
	"strings"
)

// Flags control which parts of a monitor widget are shown.
type Flags uint8

const (
	HideMin Flags = 1 << iota
	HideMax
	HideMean
	HideLast
	HideGraph
	RoundValues
)

var flagNames = map[string]Flags{
	"hidemin":   HideMin,
	"hidemax":   HideMax,
	"hidemean":  HideMean,
	"hidelast":  HideLast,
	"hidegraph": HideGraph,
	"round":     RoundValues,
}

// ParseFlags turns config names such as "hideMin" or "round" into Flags.
func ParseFlags(names []string) (Flags, error) {
	var f Flags
	for _, name := range names {
		flag, ok := flagNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownFlag, name)
		}
		f |= flag
	}
	return f, nil
}

func (f Flags) Has(flag Flags) bool { return f&flag != 0 }
