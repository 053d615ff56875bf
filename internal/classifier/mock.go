package classifier

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the LandmarkDetector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// ScriptedClassifier is a Classifier that replays a fixed sequence of
// results, one per Classify call. Once the script is exhausted it keeps
// returning empty results. Safe for concurrent use.
type ScriptedClassifier struct {
	mu     sync.Mutex
	script []Result
	next   int
	err    error
	calls  int
	closed bool
}

// NewScriptedClassifier creates a classifier that replays script in order.
func NewScriptedClassifier(script []Result) *ScriptedClassifier {
	return &ScriptedClassifier{script: script}
}

// SetError makes every subsequent Classify call fail with err.
func (s *ScriptedClassifier) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Classify returns the next scripted result.
func (s *ScriptedClassifier) Classify(frame *gocv.Mat) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.err != nil {
		return Result{}, s.err
	}
	if s.next >= len(s.script) {
		return Result{}, nil
	}
	r := s.script[s.next]
	s.next++
	return r, nil
}

// Calls reports how many times Classify has been invoked.
func (s *ScriptedClassifier) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Close marks the classifier closed.
func (s *ScriptedClassifier) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (s *ScriptedClassifier) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// FistLandmarks returns a preset hand making the letter A: all fingers
// curled into the palm with the thumb resting alongside.
func FistLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	// Thumb alongside the fist, not tucked
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.70}
	landmarks.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.66}
	landmarks.Points[ThumbTip] = Point3D{X: 0.56, Y: 0.68}

	// Index curled
	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.70}
	landmarks.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.68}
	landmarks.Points[IndexDIP] = Point3D{X: 0.52, Y: 0.70}
	landmarks.Points[IndexTip] = Point3D{X: 0.50, Y: 0.72}

	// Middle curled
	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.68}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.66}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.47, Y: 0.68}
	landmarks.Points[MiddleTip] = Point3D{X: 0.45, Y: 0.70}

	// Ring curled
	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.70}
	landmarks.Points[RingPIP] = Point3D{X: 0.45, Y: 0.68}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.70}
	landmarks.Points[RingTip] = Point3D{X: 0.40, Y: 0.72}

	// Pinky curled
	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.72}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.70}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.37, Y: 0.72}
	landmarks.Points[PinkyTip] = Point3D{X: 0.35, Y: 0.74}

	return landmarks
}

// FlatHandLandmarks returns a preset hand making the letter B: all four
// fingers raised together with tips level, thumb held against the palm.
func FlatHandLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.56, Y: 0.70}
	landmarks.Points[ThumbIP] = Point3D{X: 0.56, Y: 0.64}
	landmarks.Points[ThumbTip] = Point3D{X: 0.56, Y: 0.58}

	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68}
	landmarks.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.55}
	landmarks.Points[IndexDIP] = Point3D{X: 0.55, Y: 0.42}
	landmarks.Points[IndexTip] = Point3D{X: 0.55, Y: 0.30}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.52, Y: 0.66}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.52, Y: 0.52}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.52, Y: 0.40}
	landmarks.Points[MiddleTip] = Point3D{X: 0.52, Y: 0.28}

	landmarks.Points[RingMCP] = Point3D{X: 0.49, Y: 0.68}
	landmarks.Points[RingPIP] = Point3D{X: 0.49, Y: 0.55}
	landmarks.Points[RingDIP] = Point3D{X: 0.49, Y: 0.42}
	landmarks.Points[RingTip] = Point3D{X: 0.49, Y: 0.30}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.46, Y: 0.70}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.46, Y: 0.60}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.46, Y: 0.46}
	landmarks.Points[PinkyTip] = Point3D{X: 0.46, Y: 0.33}

	return landmarks
}

// VSignLandmarks returns a preset hand making the letter V: index and
// middle fingers raised and spread, ring and pinky curled.
func VSignLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	// Thumb folded across the palm
	landmarks.Points[ThumbCMC] = Point3D{X: 0.54, Y: 0.75}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.52, Y: 0.70}
	landmarks.Points[ThumbIP] = Point3D{X: 0.49, Y: 0.70}
	landmarks.Points[ThumbTip] = Point3D{X: 0.46, Y: 0.70}

	// Index raised, leaning out
	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68}
	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55}
	landmarks.Points[IndexDIP] = Point3D{X: 0.59, Y: 0.45}
	landmarks.Points[IndexTip] = Point3D{X: 0.60, Y: 0.35}

	// Middle raised, leaning the other way
	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.48, Y: 0.52}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.46, Y: 0.42}
	landmarks.Points[MiddleTip] = Point3D{X: 0.45, Y: 0.33}

	// Ring curled
	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68}
	landmarks.Points[RingPIP] = Point3D{X: 0.45, Y: 0.66}
	landmarks.Points[RingDIP] = Point3D{X: 0.43, Y: 0.68}
	landmarks.Points[RingTip] = Point3D{X: 0.41, Y: 0.70}

	// Pinky curled
	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.68}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.38, Y: 0.70}
	landmarks.Points[PinkyTip] = Point3D{X: 0.36, Y: 0.72}

	return landmarks
}

// ILYLandmarks returns a preset hand making the ILY sign: index and
// pinky raised, middle and ring curled, thumb stuck out.
func ILYLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	// Thumb out to the side
	landmarks.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.75}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.61, Y: 0.71}
	landmarks.Points[ThumbIP] = Point3D{X: 0.65, Y: 0.66}
	landmarks.Points[ThumbTip] = Point3D{X: 0.70, Y: 0.62}

	// Index raised
	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68}
	landmarks.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.55}
	landmarks.Points[IndexDIP] = Point3D{X: 0.57, Y: 0.45}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35}

	// Middle curled
	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.64}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.47, Y: 0.66}
	landmarks.Points[MiddleTip] = Point3D{X: 0.45, Y: 0.68}

	// Ring curled
	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68}
	landmarks.Points[RingPIP] = Point3D{X: 0.45, Y: 0.66}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.68}
	landmarks.Points[RingTip] = Point3D{X: 0.40, Y: 0.70}

	// Pinky raised
	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.38, Y: 0.60}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.36, Y: 0.52}
	landmarks.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.45}

	return landmarks
}

// LSignLandmarks returns a preset hand making the letter L: index raised
// with the thumb stuck out sideways, all other fingers curled.
func LSignLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	// Thumb out to the side
	landmarks.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.76}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.73}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.71}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.70}

	// Index raised
	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68}
	landmarks.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.55}
	landmarks.Points[IndexDIP] = Point3D{X: 0.57, Y: 0.45}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35}

	// Middle curled
	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.64}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.47, Y: 0.66}
	landmarks.Points[MiddleTip] = Point3D{X: 0.45, Y: 0.68}

	// Ring curled
	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68}
	landmarks.Points[RingPIP] = Point3D{X: 0.45, Y: 0.66}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.68}
	landmarks.Points[RingTip] = Point3D{X: 0.40, Y: 0.70}

	// Pinky curled
	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.72}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.70}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.37, Y: 0.72}
	landmarks.Points[PinkyTip] = Point3D{X: 0.35, Y: 0.74}

	return landmarks
}
