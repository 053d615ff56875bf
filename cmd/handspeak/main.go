package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/rkaul/handspeak/internal/app"
	"github.com/rkaul/handspeak/internal/capture"
	"github.com/rkaul/handspeak/internal/classifier"
	"github.com/rkaul/handspeak/internal/config"
	"github.com/rkaul/handspeak/internal/overlay"
	"github.com/rkaul/handspeak/internal/speech"
	"github.com/rkaul/handspeak/internal/stabilizer"
	"github.com/rkaul/handspeak/internal/transcript"
	"github.com/rkaul/handspeak/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	device := flag.Int("device", 0, "camera device ID")
	minConfidence := flag.Float64("min-confidence", 0.7, "minimum classifier confidence (0..1)")
	holdDuration := flag.Float64("hold-duration", 0.8, "seconds a sign must be held before speaking")
	cooldown := flag.Float64("cooldown", 1.5, "minimum seconds between spoken signs")
	addr := flag.String("addr", "", "overlay listen address (host:port)")
	noTTS := flag.Bool("no-tts", false, "disable speech output")
	noTray := flag.Bool("no-tray", false, "run headless without the system tray")
	mock := flag.Bool("mock", false, "use the mock hand detector instead of MediaPipe")
	flag.Parse()

	fmt.Println("HandSpeak - Sign-to-Speech Overlay")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags set on the command line win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "device":
			cfg.Camera.Device = *device
		case "min-confidence":
			cfg.Recognition.MinConfidence = *minConfidence
		case "hold-duration":
			cfg.Recognition.HoldDuration = *holdDuration
		case "cooldown":
			cfg.Recognition.Cooldown = *cooldown
		case "addr":
			cfg.Overlay.Addr = *addr
		case "no-tts":
			cfg.Speech.Enabled = !*noTTS
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	store, err := transcript.New(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Failed to open transcript store: %v", err)
	}
	defer store.Close()

	srv := overlay.New(overlay.Config{
		StaticDir: cfg.Overlay.StaticDir,
		Store:     store,
	})
	go func() {
		log.Printf("Overlay listening on http://%s", cfg.Overlay.Addr)
		if err := srv.ListenAndServe(cfg.Overlay.Addr); err != nil {
			log.Fatalf("Overlay server failed: %v", err)
		}
	}()

	a, err := app.New(app.Config{
		Store: store,
		Camera: capture.Config{
			DeviceID: cfg.Camera.Device,
			Width:    cfg.Camera.Width,
			Height:   cfg.Camera.Height,
			FPS:      cfg.Camera.FPS,
		},
		MotionThresh: cfg.Recognition.MotionThreshold,
		Stabilizer: stabilizer.Config{
			MinConfidence: cfg.Recognition.MinConfidence,
			HoldDuration:  config.Seconds(cfg.Recognition.HoldDuration),
			Cooldown:      config.Seconds(cfg.Recognition.Cooldown),
			VoteWindow:    cfg.Recognition.VoteWindow,
			VoteFraction:  cfg.Recognition.VoteFraction,
		},
	})
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	if *mock {
		a.SetClassifier(classifier.NewRuleClassifier(classifier.NewMockDetector()))
		log.Println("Using mock hand detector")
	}

	a.SetSink(app.ServerSink{Server: srv})

	if cfg.Speech.Enabled {
		engine, err := buildEngine(cfg.Speech)
		if err != nil {
			if errors.Is(err, speech.ErrNoEngine) {
				log.Println("No text-to-speech engine found, speech disabled")
			} else {
				log.Printf("Speech disabled: %v", err)
			}
		} else {
			speaker := speech.NewSpeaker(engine)
			defer speaker.Close()
			a.SetVoice(speaker)
		}
	}

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	defer a.Stop()

	// Restore the recognition toggle from the last run.
	enabled, err := store.Settings().GetBool("recognition_enabled", true)
	if err != nil {
		log.Printf("Failed to read recognition setting: %v", err)
		enabled = true
	}
	a.SetEnabled(enabled)

	overlayURL := "http://" + cfg.Overlay.Addr

	if *noTray {
		waitForSignal()
		return
	}

	t := tray.New()
	t.SetEnabled(enabled)
	t.OnToggle(func(on bool) {
		a.SetEnabled(on)
		if err := store.Settings().SetBool("recognition_enabled", on); err != nil {
			log.Printf("Failed to save recognition setting: %v", err)
		}
	})
	t.OnOverlay(func() {
		if err := openBrowser(overlayURL); err != nil {
			log.Printf("Failed to open overlay page: %v", err)
		}
	})
	t.OnQuit(func() {})

	// Keep the last-spoken menu entry current.
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			label, _ := a.LastSpoken()
			t.SetLastSpoken(label)
		}
	}()

	t.Run()
}

// buildEngine picks the text-to-speech engine: an explicit command from
// the config, or autodetection over the usual suspects.
func buildEngine(cfg config.Speech) (speech.Engine, error) {
	timeout := config.Seconds(cfg.Timeout)
	if cfg.Command != "" {
		path, err := exec.LookPath(cfg.Command)
		if err != nil {
			return nil, fmt.Errorf("speech command %q: %w", cfg.Command, err)
		}
		return speech.NewCommandEngine(path, nil, timeout), nil
	}

	engine, err := speech.DetectEngine()
	if err != nil {
		return nil, err
	}
	return engine, nil
}

func waitForSignal() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	<-ch
	log.Println("Shutting down")
}

// openBrowser opens url in the default browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
