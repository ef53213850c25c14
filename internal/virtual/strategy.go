package virtual

import (
	"errors"
	"fmt"
	"strings"
)

// Strategy is a way of moving the viewport to a target item.
type Strategy string

const (
	// NativeSmooth asks the host to animate the scroll itself.
	NativeSmooth Strategy = "native-smooth"
	// BlurTeleport blurs the list, jumps, then unblurs.
	BlurTeleport Strategy = "blur-teleport"
	// FlashSkip animates with an easing curve and skips the middle of long
	// distances.
	FlashSkip Strategy = "flash-skip"
	// SmartHybrid picks NativeSmooth for short jumps and BlurTeleport for
	// long ones.
	SmartHybrid Strategy = "smart-hybrid"
)

var ErrUnknownStrategy = errors.New("unknown scroll strategy")

var strategies = []Strategy{SmartHybrid, NativeSmooth, BlurTeleport, FlashSkip}

// Strategies returns every strategy in menu order.
func Strategies() []Strategy {
	out := make([]Strategy, len(strategies))
	copy(out, strategies)
	return out
}

// ParseStrategy accepts the full strategy name or its first word
// ("smart", "native", "blur", "flash").
func ParseStrategy(s string) (Strategy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, st := range strategies {
		if s == string(st) || s == st.short() {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

func (s Strategy) short() string {
	name, _, _ := strings.Cut(string(s), "-")
	return name
}

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	for _, st := range strategies {
		if s == st {
			return true
		}
	}
	return false
}

func (s Strategy) String() string {
	return string(s)
}

// Label is the human readable name shown in menus.
func (s Strategy) Label() string {
	switch s {
	case NativeSmooth:
		return "Native Smooth"
	case BlurTeleport:
		return "Blur Teleport"
	case FlashSkip:
		return "Flash Skip"
	case SmartHybrid:
		return "Smart Hybrid"
	}
	return string(s)
}

// Description is a one-line summary of what the strategy looks like.
func (s Strategy) Description() string {
	switch s {
	case NativeSmooth:
		return "animated scroll, can be slow over long distances"
	case BlurTeleport:
		return "blur, jump, unblur"
	case FlashSkip:
		return "eased scroll that skips the middle of long jumps"
	case SmartHybrid:
		return "smooth when near, teleport when far"
	}
	return ""
}

// Next returns the strategy after s in menu order, wrapping around.
func (s Strategy) Next() Strategy {
	for i, st := range strategies {
		if st == s {
			return strategies[(i+1)%len(strategies)]
		}
	}
	return strategies[0]
}

// Choose resolves the requested strategy to the one that is executed.
// Only SmartHybrid depends on the distance: an index difference up to and
// including threshold is scrolled natively, anything beyond teleports.
func Choose(requested Strategy, indexDiff, threshold int) Strategy {
	if requested != SmartHybrid {
		return requested
	}
	if indexDiff <= threshold {
		return NativeSmooth
	}
	return BlurTeleport
}
