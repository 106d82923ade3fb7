package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rook-computer/neoncity/internal/canvas"
	"github.com/rook-computer/neoncity/internal/render"
)

type fakeRunner struct {
	stdout string
	err    error
}

func (f fakeRunner) Run(ctx context.Context, cmd string, args ...string) (string, string, error) {
	return f.stdout, "", f.err
}

func TestCheckAllReady(t *testing.T) {
	dir := filepath.Join(t.TempDir(), DefaultOutDir)
	var out bytes.Buffer
	report, err := Check(context.Background(), Config{OutDir: dir, Runner: fakeRunner{stdout: "ffmpeg version 6.1\n"}}, &out)
	if err != nil {
		t.Fatal(err)
	}
	if !report.OK() || len(report.Steps) != 5 {
		t.Fatalf("report = %+v", report)
	}
	for _, s := range report.Steps {
		if !s.OK {
			t.Fatalf("step %s failed: %s", s.Name, s.Detail)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, ScriptName)); err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(report.OutDir) {
		t.Fatalf("out dir %q not absolute", report.OutDir)
	}

	text := out.String()
	for _, want := range []string{"[1/5]", "[5/5]", "[OK] FFmpeg is installed and working", "[SUCCESS] SYSTEM FULLY OPERATIONAL!", "Available Commands:", "Next Steps:", "Test complete! Output in: " + report.OutDir} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Index(text, "[4/5]") > strings.Index(text, "[5/5]") {
		t.Fatal("steps out of order")
	}
}

func TestCheckFFmpegMissing(t *testing.T) {
	var out bytes.Buffer
	runner := fakeRunner{err: &exec.Error{Name: "ffmpeg", Err: exec.ErrNotFound}}
	report, err := Check(context.Background(), Config{OutDir: t.TempDir(), Runner: runner}, &out)
	if err != nil {
		t.Fatal(err)
	}
	if report.OK() {
		t.Fatal("report OK without ffmpeg")
	}
	if !strings.Contains(out.String(), "[ERROR] FFmpeg not found") || !strings.Contains(out.String(), "1 component(s) not ready") {
		t.Fatalf("output:\n%s", out.String())
	}
}

func TestCheckFFmpegBroken(t *testing.T) {
	var out bytes.Buffer
	report, err := Check(context.Background(), Config{OutDir: t.TempDir(), Runner: fakeRunner{err: errors.New("exit 1")}}, &out)
	if err != nil {
		t.Fatal(err)
	}
	if report.OK() || !strings.Contains(out.String(), "[ERROR] FFmpeg error") {
		t.Fatalf("output:\n%s", out.String())
	}
}

func TestCheckUnwritableOutDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Check(context.Background(), Config{OutDir: file, Runner: fakeRunner{}}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestWriteTestImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ai-test-output", "test-image.png")
	if err := WriteTestImage(path, 32, 16); err != nil {
		t.Fatal(err)
	}
	c, err := canvas.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !c.Equal(canvas.TestGradient(32, 16)) {
		t.Fatal("saved gradient differs")
	}
	if err := WriteTestImage(path, 0, 16); !errors.Is(err, render.ErrInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}
