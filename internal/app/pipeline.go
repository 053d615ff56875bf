package app

import (
	"log"
	"time"

	"github.com/rkaul/handspeak/internal/caption"
	"github.com/rkaul/handspeak/internal/classifier"
	"github.com/rkaul/handspeak/internal/overlay"
	"github.com/rkaul/handspeak/internal/speech"
	"github.com/rkaul/handspeak/internal/stabilizer"
)

// runPipeline is the main recognition loop.
//
// Each tick:
//  1. Read a frame and run motion detection
//  2. On motion, switch to active mode (ActiveFPS); after 2s of
//     stillness drop back to idle mode (IdleFPS)
//  3. In active mode, classify the frame
//  4. Feed the prediction through the stabilizer
//  5. On an active decision, publish a display update via the queue
//  6. On a speak decision, extend the caption, vocalize and record
func (a *App) runPipeline() {
	defer close(a.pipelineDone)

	stopCh := a.stopCh

	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.Camera().ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.Camera().SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.Camera().SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			if !activeMode {
				frame.Close()
				continue
			}

			a.mu.RLock()
			cls := a.classifier
			a.mu.RUnlock()

			var result classifier.Result
			if cls != nil {
				result, err = cls.Classify(frame)
				if err != nil {
					// A failed classification is a no-gesture frame,
					// not a pipeline failure.
					log.Printf("Error classifying frame: %v", err)
					result = classifier.Result{}
				}
			}
			frame.Close()

			a.process(result, time.Now())
		}
	}
}

// process feeds one prediction through the stabilizer and acts on the
// decision. Split from the loop so tests can drive it with a
// simulated clock.
func (a *App) process(result classifier.Result, now time.Time) {
	d := a.stab.Update(stabilizer.Sample{
		Label:      result.Label,
		Confidence: result.Confidence,
		Time:       now,
	})

	if !d.Active {
		return
	}

	if d.ShouldSpeak {
		a.mu.Lock()
		a.lastSpoken = d.Label
		a.lastSpokenAt = now
		a.mu.Unlock()
		a.speak(d)
	}

	a.enqueue(event{
		update: overlay.Update{
			Gesture:    d.Label,
			Confidence: d.Confidence,
			TimeHeldMs: d.Hold.Milliseconds(),
			IsNew:      d.IsNewHold,
			Caption:    caption.Format(a.captions.Caption(now)),
		},
		speak: d.ShouldSpeak,
	})
}

// speak extends the caption with the decided label and vocalizes it.
// Word-terminator labels speak the completed word; letters speak as
// "The letter X".
func (a *App) speak(d stabilizer.Decision) {
	word := a.captions.Word()
	a.captions.Add(d.Label)

	a.mu.RLock()
	voice := a.voice
	a.mu.RUnlock()
	if voice == nil {
		return
	}

	if caption.IsTerminator(d.Label) {
		if word != "" {
			voice.Say(caption.Format(word))
		}
		return
	}
	voice.Say(speech.Phrase(d.Label))
}
