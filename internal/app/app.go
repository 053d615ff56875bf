// Package app wires the capture, classification, stabilization, caption
// and output stages into the running recognition pipeline.
package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/rkaul/handspeak/internal/caption"
	"github.com/rkaul/handspeak/internal/capture"
	"github.com/rkaul/handspeak/internal/classifier"
	"github.com/rkaul/handspeak/internal/overlay"
	"github.com/rkaul/handspeak/internal/stabilizer"
	"github.com/rkaul/handspeak/internal/transcript"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active recognition.
	ActiveFPS = 15
	// IdleTimeoutMs is the time in milliseconds without motion before
	// switching back to idle mode.
	IdleTimeoutMs = 2000
	// DispatchQueueSize bounds the outbound event queue. The capture
	// loop never blocks on a slow overlay; excess updates are dropped.
	DispatchQueueSize = 16
)

// Voice plays a short utterance without blocking the caller.
// *speech.Speaker satisfies it.
type Voice interface {
	Say(text string)
}

// Sink receives decision snapshots for display. *overlay.Client
// satisfies it; an in-process overlay server can be adapted with
// ServerSink.
type Sink interface {
	Publish(ctx context.Context, u overlay.Update) error
}

// Config holds configuration options for the application.
type Config struct {
	Store        *transcript.Store
	Camera       capture.Config
	MotionThresh float64
	Stabilizer   stabilizer.Config
}

// App orchestrates the recognition pipeline: frames in, debounced
// display updates and speech out.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	classifier classifier.Classifier
	stab       *stabilizer.Stabilizer
	captions   *caption.Builder

	voice Voice
	sink  Sink

	session *transcript.Session

	lastSpoken   string
	lastSpokenAt time.Time

	enabled      bool
	mu           sync.RWMutex
	stopCh       chan struct{}
	events       chan event
	pipelineDone chan struct{}
	workerDone   chan struct{}
}

// event is one unit of outbound work handed to the dispatch worker.
type event struct {
	update overlay.Update
	speak  bool
}

// New creates an App instance with the given configuration.
func New(config Config) (*App, error) {
	stab, err := stabilizer.New(config.Stabilizer)
	if err != nil {
		return nil, err
	}

	a := &App{
		config:   config,
		camera:   capture.NewCamera(config.Camera),
		motion:   capture.NewMotionDetector(config.MotionThresh),
		stab:     stab,
		captions: caption.NewBuilder(),
	}

	// Try MediaPipe first, fall back to a silent mock detector
	if det, err := classifier.NewMediaPipeDetector(classifier.DefaultConfig()); err == nil {
		a.classifier = classifier.NewRuleClassifier(det)
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), recognition disabled", err)
		a.classifier = classifier.NewRuleClassifier(classifier.NewMockDetector())
	}

	return a, nil
}

// SetEnabled enables or disables recognition.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether recognition is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetClassifier replaces the classifier implementation.
func (a *App) SetClassifier(c classifier.Classifier) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.classifier = c
}

// SetCamera replaces the camera implementation.
func (a *App) SetCamera(cam capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = cam
}

// SetVoice sets the speech output. A nil voice mutes the app.
func (a *App) SetVoice(v Voice) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.voice = v
}

// SetSink sets the display output. A nil sink disables publishing.
func (a *App) SetSink(s Sink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sink = s
}

// Stabilizer returns the stabilizer instance. It is owned by the
// pipeline goroutine; other goroutines must not call its methods while
// the pipeline runs.
func (a *App) Stabilizer() *stabilizer.Stabilizer {
	return a.stab
}

// LastSpoken returns the label and time of the most recent speak
// decision. Unlike the stabilizer's own bookkeeping this is guarded by
// the app lock, so any goroutine (the tray ticker) may poll it.
func (a *App) LastSpoken() (string, time.Time) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastSpoken, a.lastSpokenAt
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Session returns the transcript session begun by Start, or nil.
func (a *App) Session() *transcript.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

// Start opens the camera, begins a transcript session and launches the
// pipeline and dispatch goroutines.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := capture.OpenWithRetry(context.Background(), a.camera, capture.DefaultRetryAttempts, capture.DefaultRetryDelay); err != nil {
		return err
	}

	if a.config.Store != nil {
		session, err := a.config.Store.Sessions().Begin()
		if err != nil {
			log.Printf("Failed to begin transcript session: %v", err)
		} else {
			a.session = session
		}
	}

	// Start throttled until motion shows up
	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	a.events = make(chan event, DispatchQueueSize)
	a.pipelineDone = make(chan struct{})
	a.workerDone = make(chan struct{})

	go a.runDispatcher()
	go a.runPipeline()

	log.Println("Recognition pipeline started")
	return nil
}

// Stop halts the pipeline, flushes the dispatch queue and releases
// resources. The lock is not held while waiting for the goroutines:
// they take read locks of their own.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh := a.stopCh
	a.stopCh = nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}

	close(stopCh)
	<-a.pipelineDone

	// The pipeline is the only sender, so the queue can now drain.
	close(a.events)
	<-a.workerDone

	a.mu.Lock()
	camera := a.camera
	cls := a.classifier
	session := a.session
	a.session = nil
	a.mu.Unlock()

	if err := camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if cls != nil {
		if err := cls.Close(); err != nil {
			log.Printf("Error closing classifier: %v", err)
		}
	}

	if session != nil && a.config.Store != nil {
		if err := a.config.Store.Sessions().End(session.ID); err != nil {
			log.Printf("Failed to end transcript session: %v", err)
		}
	}

	log.Println("Recognition pipeline stopped")
}

// enqueue hands an event to the dispatch worker without blocking.
func (a *App) enqueue(ev event) {
	select {
	case a.events <- ev:
	default:
		log.Printf("Dispatch queue full, dropping update for %q", ev.update.Gesture)
	}
}

// runDispatcher forwards queued events to the sink and the transcript
// store, off the capture loop's critical path.
func (a *App) runDispatcher() {
	defer close(a.workerDone)

	for ev := range a.events {
		a.mu.RLock()
		sink := a.sink
		session := a.session
		a.mu.RUnlock()

		if sink != nil {
			ctx, cancel := context.WithTimeout(context.Background(), overlay.DefaultClientTimeout)
			if err := sink.Publish(ctx, ev.update); err != nil {
				log.Printf("Overlay publish failed: %v", err)
			}
			cancel()
		}

		if ev.speak && session != nil && a.config.Store != nil {
			u := &transcript.Utterance{
				SessionID:  session.ID,
				Label:      ev.update.Gesture,
				Confidence: ev.update.Confidence,
				HoldMs:     ev.update.TimeHeldMs,
			}
			if err := a.config.Store.Utterances().Record(u); err != nil {
				log.Printf("Failed to record utterance: %v", err)
			}
		}
	}
}

// ServerSink adapts an in-process overlay server to the Sink interface.
type ServerSink struct {
	Server *overlay.Server
}

// Publish forwards the update to the embedded server.
func (s ServerSink) Publish(ctx context.Context, u overlay.Update) error {
	s.Server.Publish(u)
	return nil
}
