package orientation

import (
	"fmt"
	"strings"
)

// Action is a primitive lossless transform of pixel data.
type Action int

const (
	NoTransformation Action = iota
	FlipHorizontalAction
	FlipVerticalAction
	Rotate90Action
	Rotate180Action
	Rotate270Action
)

var actionNames = map[Action]string{
	NoTransformation:     "none",
	FlipHorizontalAction: "fliph",
	FlipVerticalAction:   "flipv",
	Rotate90Action:       "rotate90",
	Rotate180Action:      "rotate180",
	Rotate270Action:      "rotate270",
}

var actionAliases = map[string]Action{
	"":                NoTransformation,
	"identity":        NoTransformation,
	"flip-horizontal": FlipHorizontalAction,
	"hflip":           FlipHorizontalAction,
	"flip-vertical":   FlipVerticalAction,
	"vflip":           FlipVerticalAction,
	"90":              Rotate90Action,
	"180":             Rotate180Action,
	"270":             Rotate270Action,
	"cw":              Rotate90Action,
	"ccw":             Rotate270Action,
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction accepts the names printed by String plus a few aliases
// ("hflip", "90", "ccw", ...).
func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, name := range actionNames {
		if name == s {
			return a, nil
		}
	}
	if a, ok := actionAliases[s]; ok {
		return a, nil
	}
	return NoTransformation, fmt.Errorf("unknown transform action %q", s)
}
