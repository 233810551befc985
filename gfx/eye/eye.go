// Package eye lays out a frame for side by side stereo viewing:
// one viewport per eye and a projection that letterboxes the frame.
package eye

import (
	glm "github.com/go-gl/mathgl/mgl32"
)

// Eye identifies one half of the screen.
type Eye int

// Eyes in drawing order
const (
	Left Eye = iota
	Right
)

// Viewport is a pixel rectangle on the screen.
type Viewport struct {
	X, Y          int32
	Width, Height int32
}

// Aspect returns width over height.
func (v Viewport) Aspect() float32 {
	if v.Height == 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// Viewports splits a width x height screen into the left and right eye.
// An odd pixel column goes to the right eye.
func Viewports(width, height int32) [2]Viewport {
	half := width / 2
	return [2]Viewport{
		Left:  {X: 0, Y: 0, Width: half, Height: height},
		Right: {X: half, Y: 0, Width: width - half, Height: height},
	}
}

// Projection maps the unit quad (-1,-1)..(1,1) so that a frame of
// frameAspect fits inside a viewport of viewAspect without distortion.
func Projection(frameAspect, viewAspect float32) glm.Mat4 {
	sx, sy := float32(1), float32(1)
	if frameAspect > viewAspect {
		sy = viewAspect / frameAspect
	} else if frameAspect < viewAspect {
		sx = frameAspect / viewAspect
	}
	return glm.Ortho2D(-1, 1, -1, 1).Mul4(glm.Scale3D(sx, sy, 1))
}
