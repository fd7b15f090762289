package render

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	mainPattern      = regexp.MustCompile(`\bvoid\s+main\s*\(\s*(void)?\s*\)`)
	attribPattern    = regexp.MustCompile(`\battribute\s+(float|vec2|vec3|vec4)\s+(\w+)\s*;`)
	uniformPattern   = regexp.MustCompile(`\buniform\s+\w+\s+(\w+)\s*;`)
	attribTypeWidths = map[string]int{"float": 1, "vec2": 2, "vec3": 3, "vec4": 4}
)

// buildProgram checks both stages and resolves the vertex layout. The checks
// stand in for a driver compile: structural problems are compile errors,
// interface mismatches are link errors.
func buildProgram(spec ProgramSpec) (*Program, error) {
	if err := checkStage(spec.Name, "vertex", spec.Vertex); err != nil {
		return nil, err
	}
	if err := checkStage(spec.Name, "fragment", spec.Fragment); err != nil {
		return nil, err
	}

	declared := make(map[string]int)
	for _, m := range attribPattern.FindAllStringSubmatch(spec.Vertex, -1) {
		declared[m[2]] = attribTypeWidths[m[1]]
	}

	linkErr := func(format string, args ...any) error {
		return &ShaderBuildError{Program: spec.Name, Stage: "link", Log: fmt.Sprintf(format, args...)}
	}

	p := &Program{
		spec:     spec,
		offsets:  make(map[string]int, len(spec.Attribs)),
		uniforms: make(map[string]any, len(spec.Uniforms)),
	}
	for _, a := range spec.Attribs {
		if a.Size <= 0 {
			return nil, linkErr("attribute %s has size %d", a.Name, a.Size)
		}
		if _, dup := p.offsets[a.Name]; dup {
			return nil, linkErr("attribute %s bound twice", a.Name)
		}
		width, ok := declared[a.Name]
		if !ok {
			return nil, linkErr("attribute %s not declared in vertex stage", a.Name)
		}
		if width != a.Size {
			return nil, linkErr("attribute %s declared with %d components, bound with %d", a.Name, width, a.Size)
		}
		p.offsets[a.Name] = p.stride
		p.stride += a.Size
	}
	if len(spec.Attribs) == 0 {
		return nil, linkErr("no vertex attributes")
	}

	uniforms := make(map[string]bool)
	for _, src := range []string{spec.Vertex, spec.Fragment} {
		for _, m := range uniformPattern.FindAllStringSubmatch(src, -1) {
			uniforms[m[1]] = true
		}
	}
	for _, name := range spec.Uniforms {
		if !uniforms[name] {
			return nil, linkErr("uniform %s not declared", name)
		}
	}
	return p, nil
}

func checkStage(program, stage, src string) error {
	fail := func(msg string) error {
		return &ShaderBuildError{Program: program, Stage: stage + " compile", Log: msg}
	}
	if strings.TrimSpace(src) == "" {
		return fail("empty source")
	}
	if !mainPattern.MatchString(src) {
		return fail("missing entry point main")
	}
	depth := 0
	for i, c := range src {
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return fail(fmt.Sprintf("unexpected '}' at offset %d", i))
			}
		}
	}
	if depth != 0 {
		return fail("unterminated block")
	}
	return nil
}

func (p *Program) declares(uniform string) bool {
	for _, name := range p.spec.Uniforms {
		if name == uniform {
			return true
		}
	}
	return false
}
