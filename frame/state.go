package frame

import (
	"fmt"

	"github.com/Wiktwn/mandelbulb-raymarching/camera"
	"github.com/Wiktwn/mandelbulb-raymarching/clock"
	"github.com/Wiktwn/mandelbulb-raymarching/scene"
	"github.com/Wiktwn/mandelbulb-raymarching/uniforms"
)

// State is the mutable scene state shared by the frame step and the input
// router. Both run on the render thread, so no locking is involved.
type State struct {
	Rig      *camera.Rig
	Plane    *scene.RaymarchPlane
	Uniforms *uniforms.Table
	Clock    *clock.Clock
}

func (s *State) Camera() *camera.Camera { return s.Rig.Camera }

// Resize reconciles the camera and the raymarch plane with a new framebuffer size.
func (s *State) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	cam := s.Camera()
	cam.SetAspect(float32(width) / float32(height))
	s.Plane.Fit(cam)
	s.Plane.Place(cam)
	if orbit, ok := s.Rig.Controls.(*camera.Orbit); ok {
		orbit.SetViewportHeight(height)
	}
}

// SyncUniforms copies the camera pose and the animated time into the uniform
// table. Tuning uniforms are left alone.
func SyncUniforms(s *State) error {
	cam := s.Camera()
	updates := []uniforms.Entry{
		{Name: uniforms.CameraToWorld, Value: cam.WorldMatrix()},
		{Name: uniforms.CameraInverseProj, Value: cam.ProjectionInverse()},
		{Name: uniforms.CameraPosition, Value: cam.Position},
		{Name: uniforms.Time, Value: float32(s.Clock.Elapsed())},
	}
	for _, u := range updates {
		if err := s.Uniforms.Set(u.Name, u.Value); err != nil {
			return fmt.Errorf("sync uniforms: %w", err)
		}
	}
	return nil
}
