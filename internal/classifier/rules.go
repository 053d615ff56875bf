package classifier

import (
	"math"

	"gocv.io/x/gocv"
)

// RuleClassifier recognizes a small ASL vocabulary by applying geometric
// rules to detected hand landmarks. Rules are evaluated most specific
// first; a frame matching no rule yields an empty Result.
type RuleClassifier struct {
	detector LandmarkDetector
}

// NewRuleClassifier creates a classifier on top of the given detector.
func NewRuleClassifier(detector LandmarkDetector) *RuleClassifier {
	return &RuleClassifier{detector: detector}
}

// Classify detects hands in the frame and classifies the first one.
func (c *RuleClassifier) Classify(frame *gocv.Mat) (Result, error) {
	hands, err := c.detector.Detect(frame)
	if err != nil {
		return Result{}, err
	}
	if len(hands) == 0 {
		return Result{}, nil
	}

	return classifyHand(&hands[0]), nil
}

// Close shuts down the underlying detector.
func (c *RuleClassifier) Close() error {
	return c.detector.Close()
}

// spreadThreshold is the minimum X gap between fingertips before two
// raised fingers count as spread apart rather than held together.
const spreadThreshold = 0.1

// touchThreshold is the maximum planar distance at which the thumb tip
// counts as touching another fingertip.
const touchThreshold = 0.05

// classifyHand maps one hand's landmarks to a sign label.
func classifyHand(h *HandLandmarks) Result {
	f := h.fingerStates()
	p := &h.Points

	switch {
	// ILY: index and pinky raised, middle and ring curled, thumb out.
	case f[1] && f[4] && !f[2] && !f[3] &&
		p[ThumbTip].X > p[ThumbIP].X:
		return Result{Label: "I LOVE YOU", Confidence: 0.95}

	// B: flat hand, all four fingers raised with tips level.
	case f[1] && f[2] && f[3] && f[4] &&
		math.Abs(p[IndexTip].Y-p[MiddleTip].Y) < 0.05 &&
		math.Abs(p[MiddleTip].Y-p[RingTip].Y) < 0.05 &&
		math.Abs(p[RingTip].Y-p[PinkyTip].Y) < 0.05:
		return Result{Label: "B", Confidence: 0.9}

	// C: curved hand, all fingers raised but tips not level, thumb
	// clearly apart from index and pinky.
	case f[1] && f[2] && f[3] && f[4] &&
		math.Abs(p[ThumbTip].X-p[IndexTip].X) > spreadThreshold &&
		math.Abs(p[ThumbTip].X-p[PinkyTip].X) > spreadThreshold &&
		p[ThumbTip].Y < p[ThumbIP].Y:
		return Result{Label: "C", Confidence: 0.85}

	// W: index, middle and ring raised and spread.
	case f[1] && f[2] && f[3] && !f[4] &&
		math.Abs(p[IndexTip].X-p[MiddleTip].X) > spreadThreshold &&
		math.Abs(p[MiddleTip].X-p[RingTip].X) > spreadThreshold:
		return Result{Label: "W", Confidence: 0.9}

	// V: index and middle raised and spread.
	case f[1] && f[2] && !f[3] && !f[4] &&
		math.Abs(p[IndexTip].X-p[MiddleTip].X) > spreadThreshold:
		return Result{Label: "V", Confidence: 0.95}

	// D: index raised alone, thumb touching the curled middle fingertip.
	case f[1] && !f[2] && !f[3] && !f[4] &&
		distanceXY(p[ThumbTip], p[MiddleTip]) < touchThreshold:
		return Result{Label: "D", Confidence: 0.9}

	// L: index raised alone, thumb stuck out to the side.
	case f[1] && !f[2] && !f[3] && !f[4] &&
		math.Abs(p[ThumbTip].X-p[IndexMCP].X) > spreadThreshold:
		return Result{Label: "L", Confidence: 0.9}

	// Y: pinky raised alone with the thumb stuck out to the side.
	case !f[1] && !f[2] && !f[3] && f[4] &&
		math.Abs(p[ThumbTip].X-p[IndexMCP].X) > spreadThreshold:
		return Result{Label: "Y", Confidence: 0.9}

	// I: pinky raised alone, thumb folded in.
	case !f[1] && !f[2] && !f[3] && f[4]:
		return Result{Label: "I", Confidence: 0.9}

	// A: fist with the thumb resting alongside, not tucked in.
	case !f[1] && !f[2] && !f[3] && !f[4] &&
		distance3D(p[ThumbTip], p[Wrist]) > 0.8*distance3D(p[IndexTip], p[Wrist]):
		return Result{Label: "A", Confidence: 0.9}
	}

	return Result{}
}
