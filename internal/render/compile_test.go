package render

import (
	"errors"
	"strings"
	"testing"
)

func TestBuiltinProgramsCompile(t *testing.T) {
	for _, fog := range []bool{true, false} {
		p, err := buildProgram(PointsProgram(fog))
		if err != nil {
			t.Fatalf("points(fog=%v): %v", fog, err)
		}
		want := 4
		if fog {
			want = 5
		}
		if p.Stride() != want {
			t.Fatalf("points(fog=%v) stride=%d want %d", fog, p.Stride(), want)
		}
		if off, ok := p.Offset("a_Force"); !ok || off != 3 {
			t.Fatalf("a_Force offset=%d,%v want 3", off, ok)
		}
	}
	post, err := buildProgram(PostProgram())
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if post.Stride() != 2 {
		t.Fatalf("post stride=%d want 2", post.Stride())
	}
}

func TestCompileErrorCarriesStageAndLog(t *testing.T) {
	spec := PointsProgram(true)
	spec.Fragment = "precision mediump float;\nvoid main() {"

	_, err := buildProgram(spec)
	var buildErr *ShaderBuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("err=%v want *ShaderBuildError", err)
	}
	if buildErr.Stage != "fragment compile" || buildErr.Program != "points" {
		t.Fatalf("unexpected error fields: %+v", buildErr)
	}
	if buildErr.Log == "" || !strings.Contains(err.Error(), buildErr.Log) {
		t.Fatalf("log missing from message: %q", err.Error())
	}
}

func TestCompileRejectsMissingMain(t *testing.T) {
	spec := PostProgram()
	spec.Vertex = "attribute vec2 a_Position;"
	_, err := buildProgram(spec)
	var buildErr *ShaderBuildError
	if !errors.As(err, &buildErr) || buildErr.Stage != "vertex compile" {
		t.Fatalf("err=%v want vertex compile error", err)
	}
}

func TestLinkRejectsAttributeMismatch(t *testing.T) {
	spec := PostProgram()
	spec.Attribs = []Attrib{{Name: "a_Position", Size: 3}}
	_, err := buildProgram(spec)
	var buildErr *ShaderBuildError
	if !errors.As(err, &buildErr) || buildErr.Stage != "link" {
		t.Fatalf("err=%v want link error", err)
	}
}

func TestLinkRejectsUndeclaredUniform(t *testing.T) {
	spec := PostProgram()
	spec.Uniforms = append(spec.Uniforms, "u_Missing")
	if _, err := buildProgram(spec); err == nil {
		t.Fatalf("expected link error for undeclared uniform")
	}
}
