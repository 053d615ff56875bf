package classifier

import "gocv.io/x/gocv"

// Result is one prediction for a single frame. An empty Label means no
// sign was recognized in the frame.
type Result struct {
	Label      string
	Confidence float64
}

// Classifier turns a video frame into a sign prediction.
type Classifier interface {
	// Classify analyzes a frame. A frame with no recognizable sign
	// returns a zero Result and no error.
	Classify(frame *gocv.Mat) (Result, error)

	// Close releases any resources held by the classifier.
	Close() error
}

// LandmarkDetector extracts hand landmarks from a video frame.
type LandmarkDetector interface {
	// Detect analyzes a frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for landmark detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.7,
		MinTrackingConf: 0.5,
	}
}
