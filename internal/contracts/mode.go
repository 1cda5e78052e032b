package contracts

import "fmt"

// Mode is an explicit execution mode.
// Each mode selects its own filter profile.
type Mode string

const (
	ModeBatch       Mode = "batch"       // season export
	ModeGame        Mode = "game"        // single-game report
	ModeInteractive Mode = "interactive" // season dashboard
)

// Modes lists every mode
var Modes = []Mode{ModeBatch, ModeGame, ModeInteractive}

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

func (m Mode) String() string {
	return string(m)
}
