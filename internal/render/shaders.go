package render

import (
	"embed"
	"fmt"
)

//go:embed shaders/*.vert shaders/*.frag
var shaderFS embed.FS

// Uniform names shared by the point and post programs.
const (
	UniformPointSize  = "u_PointSize"
	UniformModelView  = "u_ModelViewMatrix"
	UniformProjection = "u_ProjectionMatrix"
	UniformStrength   = "u_Strength"
	UniformTexture    = "u_Texture"
)

// PointsProgram describes the point-sprite program. Without fog the vertex
// layout drops a_Fog and the shader reads it as zero.
func PointsProgram(fog bool) ProgramSpec {
	attribs := []Attrib{{Name: "a_Position", Size: 3}, {Name: "a_Force", Size: 1}}
	if fog {
		attribs = append(attribs, Attrib{Name: "a_Fog", Size: 1})
	}
	return ProgramSpec{
		Name:     "points",
		Vertex:   shaderSource("points.vert"),
		Fragment: shaderSource("points.frag"),
		Attribs:  attribs,
		Uniforms: []string{UniformPointSize, UniformModelView, UniformProjection},
	}
}

// PostProgram describes the full-screen inversion pass.
func PostProgram() ProgramSpec {
	return ProgramSpec{
		Name:     "post",
		Vertex:   shaderSource("post.vert"),
		Fragment: shaderSource("post.frag"),
		Attribs:  []Attrib{{Name: "a_Position", Size: 2}},
		Uniforms: []string{UniformStrength, UniformTexture},
	}
}

// QuadVertices is the full-screen quad drawn as a triangle fan.
var QuadVertices = []float32{-1, -1, 1, -1, 1, 1, -1, 1}

func shaderSource(name string) string {
	data, err := shaderFS.ReadFile("shaders/" + name)
	if err != nil {
		panic(fmt.Sprintf("missing embedded shader %s: %v", name, err))
	}
	return string(data)
}
