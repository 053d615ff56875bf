// Package classifier turns camera frames into labeled sign predictions.
// Hand landmarks come from a MediaPipe subprocess; the letters themselves
// are decided by geometric rules over the 21-point hand model.
package classifier

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a 3D point in normalized image coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// fingerExtendedMargin is the Y slack required before a fingertip counts
// as raised above its lower joint. Image Y grows downward, so a raised
// fingertip has a smaller Y than the joint beneath it.
const fingerExtendedMargin = 0.02

// fingerStates reports which of the five fingers are extended, in the
// order thumb, index, middle, ring, pinky. The thumb is compared against
// its MCP joint, the other fingers against their PIP joints.
func (h *HandLandmarks) fingerStates() [5]bool {
	tips := [5]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}
	joints := [5]int{ThumbMCP, IndexPIP, MiddlePIP, RingPIP, PinkyPIP}

	var states [5]bool
	for i := range tips {
		states[i] = h.Points[tips[i]].Y < h.Points[joints[i]].Y-fingerExtendedMargin
	}
	return states
}

// distance3D calculates the Euclidean distance between two 3D points.
func distance3D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// distanceXY calculates the planar distance between two points, ignoring
// depth. MediaPipe Z estimates are too noisy for touch checks.
func distanceXY(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
