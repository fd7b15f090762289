package render

import (
	"errors"
	"fmt"
)

// ErrRendererQuit is returned by a presenter when the user closed its surface.
var ErrRendererQuit = errors.New("renderer quit")

// Primitive selects how Draw assembles vertices.
type Primitive int

const (
	Points Primitive = iota
	TriangleFan
)

// Target selects where draw calls land.
type Target int

const (
	Screen Target = iota
	Offscreen
)

// Attrib names a vertex attribute and its width in floats. Attributes are
// packed in declaration order.
type Attrib struct {
	Name string
	Size int
}

// ProgramSpec is everything needed to build a shader program. Vertex and
// Fragment are opaque GLSL sources.
type ProgramSpec struct {
	Name     string
	Vertex   string
	Fragment string
	Attribs  []Attrib
	Uniforms []string
}

// Program is a linked shader program with resolved attribute offsets.
type Program struct {
	spec     ProgramSpec
	stride   int
	offsets  map[string]int
	uniforms map[string]any
}

// Name returns the program name.
func (p *Program) Name() string { return p.spec.Name }

// Stride returns the packed vertex width in floats.
func (p *Program) Stride() int { return p.stride }

// Offset returns the float offset of an attribute inside a vertex.
func (p *Program) Offset(attrib string) (int, bool) {
	off, ok := p.offsets[attrib]
	return off, ok
}

// Uniform returns the last value set for name.
func (p *Program) Uniform(name string) (any, bool) {
	v, ok := p.uniforms[name]
	return v, ok
}

// Backend is the rendering collaborator driven by the render loop.
type Backend interface {
	// CompileProgram builds a program; a *ShaderBuildError reports invalid sources.
	CompileProgram(spec ProgramSpec) (*Program, error)
	UseProgram(p *Program)
	// SetUniform sets a uniform on the current program. Names the program
	// does not declare are ignored.
	SetUniform(name string, value any)
	UploadVertices(buf []float32)
	Draw(prim Primitive, count int) error
	BindTarget(t Target)
	Clear(r, g, b float64)
	Size() (int, int)
	Resize(width, height int) bool
}

// ShaderBuildError reports a compile or link failure with the diagnostic log.
type ShaderBuildError struct {
	Program string
	Stage   string
	Log     string
}

func (e *ShaderBuildError) Error() string {
	return fmt.Sprintf("shader %s failed for program %q: %s", e.Stage, e.Program, e.Log)
}
