package main

import (
	"flag"
	"io"
	"log"
	"os"

	"brawl/internal/audio"
	"brawl/internal/config"
	"brawl/internal/game"
	"brawl/internal/tui"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
)

func main() {
	mute := flag.Bool("mute", false, "disable sound")
	fps := flag.Int("fps", 60, "terminal frames per second")
	logPath := flag.String("log", os.Getenv("ARENA_LOG"), "write logs to this file while the screen is up")
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	}

	appConfig := config.Load()
	if *mute {
		appConfig.Audio.Enabled = false
	}

	var trigger game.AudioTrigger = game.NopAudio{}
	player := audio.NewPlayer(appConfig.Audio)
	sound := false
	if appConfig.Audio.Enabled {
		if err := player.StartSpeaker(); err != nil {
			log.Printf("⚠️ Sound disabled: %v", err)
		} else {
			sound = true
			trigger = player
			defer player.Close()
		}
	}
	if path := appConfig.Audio.MusicPath; sound && path != "" {
		music, err := audio.OpenMusic(path, player.SampleRate(), appConfig.Audio.MusicVolume)
		if err != nil {
			log.Printf("⚠️ Background music disabled: %v", err)
		} else {
			player.PlayMusic(music)
			defer music.Close()
		}
	}

	engine := game.NewEngine(game.EngineConfig{
		App:   appConfig,
		Audio: trigger,
	})

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("❌ Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("❌ Failed to initialize screen: %v", err)
	}

	// Log lines would tear the screen
	log.SetOutput(io.Discard)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			log.SetOutput(f)
			defer f.Close()
		}
	}

	engine.Start()
	tui.NewApp(screen, engine).Run(*fps)

	engine.Stop()
	screen.Fini()
	log.SetOutput(os.Stderr)
	log.Println("👋 Goodbye!")
}
