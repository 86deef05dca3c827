package game

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"brawl/internal/config"
)

// Archetype identifies one of the four fighter variants.
type Archetype uint8

const (
	Shadow Archetype = iota // agility: dash, double jump, teleport
	Volt                    // charge meter
	Flame                   // heat meter, overheat
	Stone                   // armor shield
)

// Archetypes lists every archetype in character-select order.
var Archetypes = []Archetype{Shadow, Volt, Flame, Stone}

var (
	ErrUnknownArchetype = errors.New("unknown archetype")
	ErrInvalidSlot      = errors.New("invalid fighter slot")
	ErrNoMatch          = errors.New("no match loaded")
)

// String returns the roster key of the archetype.
func (a Archetype) String() string {
	switch a {
	case Shadow:
		return config.KeyShadow
	case Volt:
		return config.KeyVolt
	case Flame:
		return config.KeyFlame
	case Stone:
		return config.KeyStone
	default:
		return "unknown"
	}
}

// ParseArchetype accepts roster keys and the element aliases
// (ninja, electric, fire, earth).
func ParseArchetype(name string) (Archetype, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case config.KeyShadow, "ninja":
		return Shadow, nil
	case config.KeyVolt, "electric":
		return Volt, nil
	case config.KeyFlame, "fire":
		return Flame, nil
	case config.KeyStone, "earth":
		return Stone, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownArchetype, name)
}

// BaseColor is the cosmetic body color of the archetype.
func (a Archetype) BaseColor() color.RGBA {
	switch a {
	case Shadow:
		return color.RGBA{0, 0, 0, 255}
	case Volt:
		return color.RGBA{0, 0, 255, 255}
	case Flame:
		return color.RGBA{255, 0, 0, 255}
	case Stone:
		return color.RGBA{139, 69, 19, 255}
	}
	return color.RGBA{255, 255, 255, 255}
}

// newMechanic builds the resource model of the archetype.
func (a Archetype) newMechanic() Mechanic {
	switch a {
	case Shadow:
		return &shadowMechanic{}
	case Volt:
		return &voltMechanic{maxCharge: voltMaxCharge}
	case Flame:
		return &flameMechanic{maxHeat: flameMaxHeat}
	case Stone:
		return &stoneMechanic{armor: stoneMaxArmor, maxArmor: stoneMaxArmor}
	}
	return nil
}
