package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"brawl/internal/api"
	"brawl/internal/audio"
	"brawl/internal/config"
	"brawl/internal/game"
	"brawl/internal/render"

	"github.com/joho/godotenv"
)

func main() {
	p1Name := flag.String("p1", config.KeyShadow, "archetype for fighter 1")
	p2Name := flag.String("p2", config.KeyStone, "archetype for fighter 2")
	flag.Parse()

	// Load .env file from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		// Try current directory as fallback
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ Loaded environment from ../.env")
	}

	log.Println("🎮 ================================")
	log.Println("🎮  BRAWL - COMBAT SERVER")
	log.Println("🎮 ================================")

	appConfig := config.Load()
	serverCfg := appConfig.Server
	arena := appConfig.Arena
	log.Printf("🎮 Config: %d TPS, arena %.0fx%.0f, floor %.0f",
		arena.TickRate, arena.Width, arena.Height, arena.Floor)

	p1, err := game.ParseArchetype(*p1Name)
	if err != nil {
		log.Fatalf("❌ Fighter 1: %v", err)
	}
	p2, err := game.ParseArchetype(*p2Name)
	if err != nil {
		log.Fatalf("❌ Fighter 2: %v", err)
	}

	// Headless: cues are mixed and counted, nothing reaches a device
	player := audio.NewPlayer(appConfig.Audio)

	engine := game.NewEngine(game.EngineConfig{
		App:   appConfig,
		Audio: player,
	})

	if serverCfg.EventLogPath != "" {
		if err := engine.StartEventLog(serverCfg.EventLogPath); err != nil {
			log.Printf("⚠️ Event log disabled: %v", err)
		} else {
			log.Printf("📝 Event log: %s", serverCfg.EventLogPath)
		}
	}

	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		debugCfg := api.DefaultObservabilityConfig()
		debugCfg.ListenAddr = serverCfg.DebugAddr
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	renderer := render.NewRenderer(int(arena.Width), int(arena.Height))
	server := api.NewServer(engine, renderer, serverCfg)
	hub := server.Hub()

	engine.OnTick = func(d time.Duration, res game.TickResult) {
		api.RecordTick(d)
		// Drain the headless mix so finished cues leave the mixer
		drainAudio(player, arena.TickRate)
	}
	engine.OnHit = api.RecordHit
	engine.OnDefeat = func(winner, loser game.FighterSnapshot) {
		api.RecordDefeat(winner.Archetype)
		hub.Broadcast("match:defeat", map[string]interface{}{
			"winner": winner,
			"loser":  loser,
		})
	}

	if err := engine.StartMatch(p1, p2); err != nil {
		log.Fatalf("❌ Failed to start match: %v", err)
	}
	engine.Start()

	addr := ":" + strconv.Itoa(serverCfg.Port)
	go func() {
		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	if serverCfg.AdminToken == "" {
		log.Println("⚠️ ADMIN_TOKEN not set - match control is open")
	}

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ HTTP shutdown: %v", err)
	}
	engine.Stop()
	engine.StopEventLog()
	log.Println("👋 Goodbye!")
}

// audioScratch holds one tick of samples at the highest supported rate.
var audioScratch = make([][2]float64, 2048)

// drainAudio consumes one tick of the headless mix.
func drainAudio(p *audio.Player, tickRate int) {
	if tickRate <= 0 {
		return
	}
	n := p.SampleRate().N(time.Second / time.Duration(tickRate))
	if n > len(audioScratch) {
		n = len(audioScratch)
	}
	p.Stream(audioScratch[:n])
}
