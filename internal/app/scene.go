package app

import (
	"fmt"

	"github.com/guidoenr/spectrafield/internal/camera"
	"github.com/guidoenr/spectrafield/internal/field"
	"github.com/guidoenr/spectrafield/internal/geom"
	"github.com/guidoenr/spectrafield/internal/params"
	"github.com/guidoenr/spectrafield/internal/render"
	"github.com/guidoenr/spectrafield/internal/spectrum"
)

// Scene owns the per-frame pipeline state: smoothed spectrum, camera, vertex
// scratch buffer and the compiled programs.
type Scene struct {
	params      params.Parameters
	smoother    *spectrum.Smoother
	camera      *camera.Model
	fieldCfg    field.Config
	vertices    []float32
	points      *render.Program
	post        *render.Program
	postProcess bool
	pixelAspect float64
	projection  geom.Mat4
	view        geom.Mat4
}

// NewScene validates p and builds the programs on backend. A shader failure
// is returned as is so callers can match *render.ShaderBuildError.
func NewScene(p params.Parameters, backend render.Backend) (*Scene, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("parameters %q: %w", p.Name, err)
	}
	smoother, err := spectrum.New(p.SmootherConfig())
	if err != nil {
		return nil, err
	}
	cam, err := camera.New(p.CameraConfig())
	if err != nil {
		return nil, err
	}

	s := &Scene{
		params:      p,
		smoother:    smoother,
		camera:      cam,
		fieldCfg:    p.FieldConfig(),
		postProcess: p.PostProcess,
		pixelAspect: 1,
	}

	s.points, err = backend.CompileProgram(render.PointsProgram(p.Fog))
	if err != nil {
		return nil, err
	}
	if s.points.Stride() != s.fieldCfg.Stride() {
		return nil, fmt.Errorf("points program stride %d does not match field stride %d", s.points.Stride(), s.fieldCfg.Stride())
	}
	s.post, err = backend.CompileProgram(render.PostProgram())
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Camera exposes the camera for input handling.
func (s *Scene) Camera() *camera.Model { return s.camera }

// Spectrum returns the smoothed spectrum.
func (s *Scene) Spectrum() spectrum.Spectrum { return s.smoother.Spectrum() }

// VertexCount is the number of vertices emitted by the last Draw.
func (s *Scene) VertexCount() int {
	return len(s.vertices) / s.fieldCfg.Stride()
}

// PostProcess reports whether frames go through the post pass.
func (s *Scene) PostProcess() bool { return s.postProcess }

// SetPostProcess routes frames through the post pass when enabled.
func (s *Scene) SetPostProcess(enabled bool) { s.postProcess = enabled }

// SetPixelAspect corrects the projection for surfaces with non-square pixels.
func (s *Scene) SetPixelAspect(aspect float64) {
	if aspect > 0 {
		s.pixelAspect = aspect
	}
}

// Update advances the camera and feeds sample through the smoother. dt <= 0
// leaves the smoothed state untouched after the first sample.
func (s *Scene) Update(sample []uint8, dt float64) {
	s.camera.Update(dt)
	velocity := s.smoother.Smooth(sample, dt)
	if s.params.AudioShake {
		s.camera.Perturb(velocity, dt)
	}
}

// Draw renders one frame: the point field, then the optional post pass.
func (s *Scene) Draw(backend render.Backend) error {
	width, height := backend.Size()
	aspect := 1.0
	if width > 0 && height > 0 {
		aspect = float64(width) / float64(height) * s.pixelAspect
	}
	s.projection = geom.Perspective(s.params.FOV, aspect, s.params.ZNear, s.params.ZFar)
	s.view = s.camera.View()

	rowLimit := s.params.RowLimit
	if rowLimit == 0 {
		rowLimit = s.Spectrum().Rows()
	}
	s.vertices = field.Build(s.vertices, s.Spectrum(), rowLimit, s.fieldCfg)

	if s.postProcess {
		backend.BindTarget(render.Offscreen)
	} else {
		backend.BindTarget(render.Screen)
	}
	backend.Clear(1, 1, 1)

	backend.UseProgram(s.points)
	backend.SetUniform(render.UniformPointSize, s.params.PointSize)
	backend.SetUniform(render.UniformModelView, s.view)
	backend.SetUniform(render.UniformProjection, s.projection)
	backend.UploadVertices(s.vertices)
	if err := backend.Draw(render.Points, s.VertexCount()); err != nil {
		return fmt.Errorf("draw points: %w", err)
	}

	if !s.postProcess {
		return nil
	}
	backend.BindTarget(render.Screen)
	backend.UseProgram(s.post)
	backend.SetUniform(render.UniformStrength, s.PostStrength())
	backend.SetUniform(render.UniformTexture, 0)
	backend.UploadVertices(render.QuadVertices)
	if err := backend.Draw(render.TriangleFan, len(render.QuadVertices)/2); err != nil {
		return fmt.Errorf("draw post pass: %w", err)
	}
	return nil
}

// PostStrength is the normalized energy of the band keying the post pass.
func (s *Scene) PostStrength() float64 {
	return s.Spectrum().At(s.params.PostRow, s.params.PostBand) / field.MaxMagnitude
}
