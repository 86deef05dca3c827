// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for arena, combat and server settings.
//
// IMPORTANT: When changing balance values, only modify this file.
// The simulation reads everything through the structs returned here.
package config

import (
	"os"
	"strconv"
	"strings"
)

// =============================================================================
// ARENA CONFIGURATION
// =============================================================================

// ArenaConfig holds the simulation space and fixed-step settings.
type ArenaConfig struct {
	Width       float64 // Arena width in world units
	Height      float64 // Arena height in world units
	Floor       float64 // Y of the floor line (fighters stand on it)
	Gravity     float64 // Added to vertical velocity every tick
	JumpImpulse float64 // Base jump velocity (negative = up)
	TickRate    int     // Simulation ticks per second
}

// DefaultArena returns the default arena configuration.
func DefaultArena() ArenaConfig {
	return ArenaConfig{
		Width:       800,
		Height:      600,
		Floor:       500, // 100 units of floor below the fighters
		Gravity:     0.6,
		JumpImpulse: -12,
		TickRate:    60,
	}
}

// ArenaFromEnv returns arena configuration with environment variable overrides.
func ArenaFromEnv() ArenaConfig {
	cfg := DefaultArena()

	if w := getEnvFloat("ARENA_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvFloat("ARENA_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}
	if f := getEnvFloat("ARENA_FLOOR", 0); f > 0 {
		cfg.Floor = f
	}
	if g := getEnvFloat("GRAVITY", 0); g > 0 {
		cfg.Gravity = g
	}
	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if cfg.Floor > cfg.Height {
		cfg.Floor = cfg.Height
	}

	return cfg
}

// =============================================================================
// COMBAT TUNING
// =============================================================================

// CombatConfig holds the balance values shared by every archetype.
// All durations are in ticks.
type CombatConfig struct {
	HitInvulnTicks       int     // Invulnerability after taking a hit
	ComboWindowTicks     int     // Time allowed between hits to keep a combo
	SpecialCooldownTicks int     // Cooldown of the special ability
	BaseKnockback        float64 // Knockback of a normal attack
	SpecialKnockback     float64 // Knockback of a special attack
	BlockFactor          float64 // Fraction of damage that gets through a block
	ComboStep            float64 // Damage bonus per combo hit
	SpecialMultiplier    float64 // Damage multiplier while in special state
	SpecialDurationScale float64 // Special active window relative to attack duration
	HitBurst             int     // Particles spawned on a connected hit
}

// DefaultCombat returns the default combat tuning.
func DefaultCombat() CombatConfig {
	return CombatConfig{
		HitInvulnTicks:       15,
		ComboWindowTicks:     90,  // 1.5s at 60 TPS
		SpecialCooldownTicks: 120, // 2s at 60 TPS
		BaseKnockback:        5,
		SpecialKnockback:     10,
		BlockFactor:          0.3,
		ComboStep:            0.1,
		SpecialMultiplier:    2,
		SpecialDurationScale: 1.5,
		HitBurst:             10,
	}
}

// =============================================================================
// ROSTER
// =============================================================================

// FighterStats are the base stats of one archetype.
type FighterStats struct {
	Name           string  `json:"name"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	HP             float64 `json:"hp"`
	Speed          float64 `json:"speed"`
	JumpImpulse    float64 `json:"jumpImpulse"`
	AttackDamage   float64 `json:"attackDamage"`
	AttackRange    float64 `json:"attackRange"`
	AttackDuration int     `json:"attackDuration"` // Ticks
}

// Roster keys. They match game.Archetype.String().
const (
	KeyShadow = "shadow"
	KeyVolt   = "volt"
	KeyFlame  = "flame"
	KeyStone  = "stone"
)

// DefaultRoster returns base stats for the four archetypes.
// Jump impulses are expressed relative to the arena's base impulse of -12.
func DefaultRoster() map[string]FighterStats {
	return map[string]FighterStats{
		KeyShadow: {
			Name: "Shadow Ninja", Width: 40, Height: 80, HP: 100, Speed: 5,
			JumpImpulse: -14, AttackDamage: 8, AttackRange: 50, AttackDuration: 20,
		},
		KeyVolt: {
			Name: "Volt Striker", Width: 50, Height: 90, HP: 90, Speed: 4,
			JumpImpulse: -12, AttackDamage: 12, AttackRange: 60, AttackDuration: 20,
		},
		KeyFlame: {
			Name: "Flame Master", Width: 55, Height: 85, HP: 110, Speed: 3.5,
			JumpImpulse: -11, AttackDamage: 15, AttackRange: 60, AttackDuration: 20,
		},
		KeyStone: {
			Name: "Stone Titan", Width: 60, Height: 95, HP: 140, Speed: 2.5,
			JumpImpulse: -9, AttackDamage: 20, AttackRange: 50, AttackDuration: 20,
		},
	}
}

// =============================================================================
// AUDIO CONFIGURATION
// =============================================================================

// AudioConfig holds cue synthesis settings.
type AudioConfig struct {
	SampleRate int     // Audio sample rate in Hz
	Volume     float64 // Master volume (0.0 to 1.0)
	Enabled    bool    // Whether cues are produced at all
	SampleDir  string  // Optional directory of <cue>.ogg / <cue>.wav overrides

	MusicPath   string  // Optional looping background track (.ogg or .wav)
	MusicVolume float64 // Recommended 0.1-0.2 so the cues stay on top
}

// DefaultAudio returns the default audio configuration.
func DefaultAudio() AudioConfig {
	return AudioConfig{
		SampleRate: 44100,
		Volume:     0.3,
		Enabled:    true,

		MusicVolume: 0.15,
	}
}

// AudioFromEnv returns audio configuration with environment variable overrides.
func AudioFromEnv() AudioConfig {
	cfg := DefaultAudio()

	if v := getEnvFloat("AUDIO_VOLUME", -1); v >= 0 {
		if v > 1 {
			v = 1
		}
		cfg.Volume = v
	}
	if os.Getenv("AUDIO_ENABLED") == "false" {
		cfg.Enabled = false
	}
	cfg.SampleDir = os.Getenv("AUDIO_DIR")
	cfg.MusicPath = os.Getenv("MUSIC_PATH")
	if v := getEnvFloat("MUSIC_VOLUME", -1); v >= 0 {
		if v > 1 {
			v = 1
		}
		cfg.MusicVolume = v
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int
	EventLogPath string
	CORSOrigins  []string
	AdminToken   string // Bearer token for match control; empty leaves it open
	DebugAddr    string // pprof and /metrics listener, localhost only
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:         3000,
		EventLogPath: "combat.jsonl",
		DebugAddr:    "127.0.0.1:6060",
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if path, ok := os.LookupEnv("EVENT_LOG_PATH"); ok {
		cfg.EventLogPath = path // empty disables the file sink
	}
	cfg.AdminToken = os.Getenv("ADMIN_TOKEN")
	if addr := os.Getenv("DEBUG_ADDR"); addr != "" {
		cfg.DebugAddr = addr
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	return cfg
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits bounds what leaves the simulation per tick.
type ResourceLimits struct {
	MaxSnapshotParticles int // Particles copied into one snapshot, both fighters together
	MaxEventsPerSec      int // Global combat journal rate
	MaxEventsPerFighter  int // Per-fighter combat journal rate
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxSnapshotParticles: 256,
		MaxEventsPerSec:      2000,
		MaxEventsPerFighter:  200,
	}
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Arena  ArenaConfig
	Combat CombatConfig
	Roster map[string]FighterStats
	Audio  AudioConfig
	Server ServerConfig
	Limits ResourceLimits
	Seed   int64 // 0 = seed from the clock
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Arena:  ArenaFromEnv(),
		Combat: DefaultCombat(),
		Roster: DefaultRoster(),
		Audio:  AudioFromEnv(),
		Server: ServerFromEnv(),
		Limits: DefaultLimits(),
		Seed:   int64(getEnvInt("MATCH_SEED", 0)),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
