package classifier

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestFingerStates(t *testing.T) {
	t.Run("fist has no extended fingers", func(t *testing.T) {
		hand := FistLandmarks()
		states := hand.fingerStates()

		for i := 1; i < 5; i++ {
			if states[i] {
				t.Errorf("finger %d should be curled in a fist", i)
			}
		}
	})

	t.Run("flat hand has four extended fingers", func(t *testing.T) {
		hand := FlatHandLandmarks()
		states := hand.fingerStates()

		for i := 1; i < 5; i++ {
			if !states[i] {
				t.Errorf("finger %d should be extended in a flat hand", i)
			}
		}
	})

	t.Run("peace sign extends index and middle only", func(t *testing.T) {
		hand := VSignLandmarks()
		states := hand.fingerStates()

		if !states[1] || !states[2] {
			t.Error("index and middle should be extended")
		}
		if states[3] || states[4] {
			t.Error("ring and pinky should be curled")
		}
	})

	t.Run("fingertip within margin counts as curled", func(t *testing.T) {
		hand := FistLandmarks()
		// Barely above the PIP joint, inside the margin
		hand.Points[IndexTip] = Point3D{
			X: hand.Points[IndexPIP].X,
			Y: hand.Points[IndexPIP].Y - 0.01,
		}

		states := hand.fingerStates()
		if states[1] {
			t.Error("fingertip inside the extension margin should count as curled")
		}
	})
}

func TestDistance3D(t *testing.T) {
	a := Point3D{X: 1, Y: 2, Z: 3}
	b := Point3D{X: 4, Y: 6, Z: 3}

	got := distance3D(a, b)
	if math.Abs(got-5.0) > epsilon {
		t.Errorf("expected distance 5.0, got %f", got)
	}
}

func TestDistanceXY_IgnoresDepth(t *testing.T) {
	a := Point3D{X: 0, Y: 0, Z: 10}
	b := Point3D{X: 3, Y: 4, Z: -10}

	got := distanceXY(a, b)
	if math.Abs(got-5.0) > epsilon {
		t.Errorf("expected planar distance 5.0, got %f", got)
	}
}

func TestFixtureLandmarks(t *testing.T) {
	fixtures := map[string]HandLandmarks{
		"fist":      FistLandmarks(),
		"flat hand": FlatHandLandmarks(),
		"v sign":    VSignLandmarks(),
		"ily":       ILYLandmarks(),
		"l sign":    LSignLandmarks(),
	}

	for name, hand := range fixtures {
		t.Run(name, func(t *testing.T) {
			if hand.Handedness != "Right" {
				t.Errorf("expected handedness Right, got %s", hand.Handedness)
			}
			if hand.Score < 0.9 {
				t.Errorf("expected score >= 0.9, got %f", hand.Score)
			}
			// Every landmark should be placed in normalized image space.
			for i := 0; i < NumLandmarks; i++ {
				p := hand.Points[i]
				if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
					t.Errorf("landmark %d out of normalized range: %+v", i, p)
				}
			}
		})
	}
}
