package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/videolab/pkg/stages/transform"
)

func TestParseOperations(t *testing.T) {
	opts := transform.DefaultOptions()

	ops, err := parseOperations([]string{"gray", "rotate90,mirror", "grid=2x3"}, "major", opts)
	if err != nil {
		t.Fatalf("parseOperations failed: %v", err)
	}

	var names []string
	for _, op := range ops {
		names = append(names, op.String())
	}
	want := "gray,rotate90,mirror,grid=2x3,crop-major"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestParseOperations_Errors(t *testing.T) {
	opts := transform.DefaultOptions()

	if _, err := parseOperations([]string{"sepia"}, "", opts); err == nil {
		t.Error("expected error for unknown transform")
	}
	if _, err := parseOperations(nil, "center", opts); err == nil {
		t.Error("expected error for unknown crop")
	}
	ops, err := parseOperations([]string{" , "}, "", opts)
	if err != nil || len(ops) != 0 {
		t.Errorf("expected empty entries to be skipped, got %v, %v", ops, err)
	}
}

func TestApp_RequiresVideoArgument(t *testing.T) {
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out

	err := app.RunContext(context.Background(), []string{"videolab", "--quiet", "probe"})
	if err == nil {
		t.Fatal("expected error without a video argument")
	}
}

func TestApp_ProbeMissingFile(t *testing.T) {
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out

	missing := filepath.Join(t.TempDir(), "missing.mp4")
	err := app.RunContext(context.Background(), []string{"videolab", "--quiet", "probe", missing})
	if err == nil {
		t.Fatal("expected error for a missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

func TestApp_ImageCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out", "mirrored.png")

	src := image.NewRGBA(image.Rect(0, 0, 8, 4))
	src.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("failed to encode input: %v", err)
	}
	if err := os.WriteFile(in, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	app := newApp()
	args := []string{"videolab", "--quiet", "image", "-x", "mirror", "--width", "4", "-o", out, in}
	if err := app.RunContext(context.Background(), args); err != nil {
		t.Fatalf("image command failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Errorf("expected 4x2 output, got %v", b)
	}
}
