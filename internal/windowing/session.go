// Package windowing abstracts the live graphical session that owns the
// physical output: who is signed in, which output is connected, and how to
// rotate it. The concrete implementation shells out to xrandr; components
// depend only on the Session interface so tests can use a fake.
package windowing

import "context"

// Transform is an output rotation in xrandr terms.
type Transform string

const (
	TransformNormal   Transform = "normal"   // 0 degrees
	TransformRight    Transform = "right"    // 90 degrees clockwise
	TransformInverted Transform = "inverted" // 180 degrees
	TransformLeft     Transform = "left"     // 270 degrees (counter-clockwise)
)

// TransformForAngle maps a rotation angle to an xrandr transform.
// Returns false for unsupported angles.
func TransformForAngle(angle int) (Transform, bool) {
	switch angle {
	case 0:
		return TransformNormal, true
	case 90:
		return TransformRight, true
	case 180:
		return TransformInverted, true
	case 270:
		return TransformLeft, true
	}
	return "", false
}

// Session is the capability interface over the graphical session.
type Session interface {
	// ActiveUser returns the user owning the graphical session.
	ActiveUser(ctx context.Context) (string, error)

	// ConnectedOutput returns the name of the connected output (e.g.
	// "HDMI-1"), or "" with ok=false if no output is connected or the
	// session is not up yet.
	ConnectedOutput(ctx context.Context) (string, bool)

	// SetRotation applies the transform to the named output.
	SetRotation(ctx context.Context, output string, t Transform) error
}
