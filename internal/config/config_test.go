package config

import "testing"

func TestDefaultArena(t *testing.T) {
	cfg := DefaultArena()
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("Expected 800x600 arena, got %.0fx%.0f", cfg.Width, cfg.Height)
	}
	if cfg.Floor != 500 {
		t.Errorf("Expected floor 500, got %.0f", cfg.Floor)
	}
	if cfg.TickRate != 60 {
		t.Errorf("Expected 60 TPS, got %d", cfg.TickRate)
	}
}

func TestArenaFromEnv(t *testing.T) {
	t.Setenv("ARENA_WIDTH", "1024")
	t.Setenv("TICK_RATE", "30")
	t.Setenv("GRAVITY", "not-a-number")

	cfg := ArenaFromEnv()
	if cfg.Width != 1024 {
		t.Errorf("Expected width 1024, got %.0f", cfg.Width)
	}
	if cfg.TickRate != 30 {
		t.Errorf("Expected 30 TPS, got %d", cfg.TickRate)
	}
	if cfg.Gravity != 0.6 {
		t.Errorf("Invalid GRAVITY should fall back to default, got %v", cfg.Gravity)
	}
}

func TestArenaFloorClampedToHeight(t *testing.T) {
	t.Setenv("ARENA_HEIGHT", "300")
	cfg := ArenaFromEnv()
	if cfg.Floor != 300 {
		t.Errorf("Expected floor clamped to 300, got %.0f", cfg.Floor)
	}
}

func TestDefaultRoster(t *testing.T) {
	roster := DefaultRoster()
	tests := []struct {
		key    string
		name   string
		hp     float64
		damage float64
	}{
		{KeyShadow, "Shadow Ninja", 100, 8},
		{KeyVolt, "Volt Striker", 90, 12},
		{KeyFlame, "Flame Master", 110, 15},
		{KeyStone, "Stone Titan", 140, 20},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			stats, ok := roster[tt.key]
			if !ok {
				t.Fatalf("Roster missing %s", tt.key)
			}
			if stats.Name != tt.name {
				t.Errorf("Expected name %q, got %q", tt.name, stats.Name)
			}
			if stats.HP != tt.hp {
				t.Errorf("Expected HP %.0f, got %.0f", tt.hp, stats.HP)
			}
			if stats.AttackDamage != tt.damage {
				t.Errorf("Expected damage %.0f, got %.0f", tt.damage, stats.AttackDamage)
			}
			if stats.AttackDuration <= 0 {
				t.Error("Attack duration must be positive")
			}
		})
	}
}

func TestAudioFromEnv(t *testing.T) {
	t.Setenv("AUDIO_VOLUME", "3")
	t.Setenv("AUDIO_ENABLED", "false")
	t.Setenv("AUDIO_DIR", "/srv/sfx")
	t.Setenv("MUSIC_PATH", "/srv/theme.ogg")
	t.Setenv("MUSIC_VOLUME", "0.05")

	cfg := AudioFromEnv()
	if cfg.Volume != 1 {
		t.Errorf("Expected volume clamped to 1, got %v", cfg.Volume)
	}
	if cfg.Enabled {
		t.Error("Expected audio disabled")
	}
	if cfg.SampleDir != "/srv/sfx" {
		t.Errorf("Expected sample dir /srv/sfx, got %q", cfg.SampleDir)
	}
	if cfg.MusicPath != "/srv/theme.ogg" || cfg.MusicVolume != 0.05 {
		t.Errorf("Expected music /srv/theme.ogg at 0.05, got %q at %v", cfg.MusicPath, cfg.MusicVolume)
	}
}

func TestServerFromEnv(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("EVENT_LOG_PATH", "")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("ADMIN_TOKEN", "s3cret")
	t.Setenv("DEBUG_ADDR", "")

	cfg := ServerFromEnv()
	if cfg.Port != 8081 {
		t.Errorf("Expected port 8081, got %d", cfg.Port)
	}
	if cfg.EventLogPath != "" {
		t.Errorf("Expected empty event log path, got %q", cfg.EventLogPath)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("Unexpected CORS origins: %v", cfg.CORSOrigins)
	}
	if cfg.AdminToken != "s3cret" {
		t.Errorf("Expected admin token, got %q", cfg.AdminToken)
	}
	if cfg.DebugAddr != "127.0.0.1:6060" {
		t.Errorf("Expected default debug address, got %q", cfg.DebugAddr)
	}
}

func TestLoadSeed(t *testing.T) {
	t.Setenv("MATCH_SEED", "42")
	if cfg := Load(); cfg.Seed != 42 {
		t.Errorf("Expected seed 42, got %d", cfg.Seed)
	}
}
