package diffusion

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rook-computer/neoncity/internal/canvas"
)

func pngBase64(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestProfiles(t *testing.T) {
	cases := []struct {
		name      string
		steps     int
		precision Precision
		sampler   string
		forceCPU  bool
	}{
		{"gpu", 30, Float16, "", false},
		{"cpu", 20, Float32, "", false},
		{"pure-cpu", 15, Float32, SamplerDPMSolver, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ProfileByName(tc.name)
			if err != nil {
				t.Fatal(err)
			}
			req := p.Request(7)
			if req.Steps != tc.steps || req.Precision != tc.precision || req.Sampler != tc.sampler || req.Hints.ForceCPU != tc.forceCPU {
				t.Fatalf("request = %+v", req)
			}
			if req.Width != 512 || req.Height != 512 || req.GuidanceScale != 7.5 || req.Model != DefaultModel {
				t.Fatalf("shared settings = %+v", req)
			}
			if err := req.Validate(); err != nil {
				t.Fatal(err)
			}
		})
	}
	if _, err := ProfileByName("tpu"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v", err)
	}
	if got := strings.Join(ProfileNames(), ","); got != "cpu,gpu,pure-cpu" {
		t.Fatalf("names = %s", got)
	}
}

func TestRequestValidate(t *testing.T) {
	base := Request{Prompt: "city"}
	base.normalize()
	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"empty prompt", func(r *Request) { r.Prompt = "" }},
		{"odd width", func(r *Request) { r.Width = 500 }},
		{"too big", func(r *Request) { r.Height = 4096 }},
		{"negative size", func(r *Request) { r.Width = -8 }},
		{"too many steps", func(r *Request) { r.Steps = 500 }},
		{"guidance", func(r *Request) { r.GuidanceScale = 0.5 }},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("base invalid: %v", err)
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := base
			tc.mutate(&r)
			if err := r.Validate(); !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestGenerateSendsRequestAndDecodes(t *testing.T) {
	var got txt2imgRequest
	payload := pngBase64(t, 64, 32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != txt2imgPath {
			http.Error(w, "wrong route", http.StatusNotFound)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(txt2imgResponse{Images: []string{payload}})
	}))
	defer srv.Close()

	p, _ := ProfileByName("pure-cpu")
	img, err := NewHTTPClient(srv.URL+"/").Generate(context.Background(), p.Request(99))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Fatalf("bounds = %v", b)
	}
	if got.Seed != 99 || got.Steps != 15 || got.CFGScale != 7.5 || got.SamplerName != SamplerDPMSolver {
		t.Fatalf("request = %+v", got)
	}
	if got.OverrideSettings.Checkpoint != DefaultModel || !got.OverrideSettings.ForceCPU || got.OverrideSettings.Precision != "fp32" {
		t.Fatalf("overrides = %+v", got.OverrideSettings)
	}
}

func TestGenerateAcceptsDataURL(t *testing.T) {
	payload := "data:image/png;base64," + pngBase64(t, 8, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(txt2imgResponse{Images: []string{payload}})
	}))
	defer srv.Close()
	if _, err := NewHTTPClient(srv.URL).Generate(context.Background(), Request{Prompt: "city"}); err != nil {
		t.Fatal(err)
	}
}

func TestGenerateErrors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{
			name: "http status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "CUDA out of memory", http.StatusInternalServerError)
			},
			check: func(err error) bool {
				var se *StatusError
				return errors.As(err, &se) && se.Code == 500 && strings.Contains(se.Body, "out of memory")
			},
		},
		{
			name: "no images",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"images":[]}`))
			},
			check: func(err error) bool { return errors.Is(err, ErrNoImages) },
		},
		{
			name: "bad base64",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"images":["!!!"]}`))
			},
			check: func(err error) bool { return err != nil && strings.Contains(err.Error(), "base64") },
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
			check: func(err error) bool { return err != nil && strings.Contains(err.Error(), "decode txt2img") },
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			_, err := NewHTTPClient(srv.URL).Generate(context.Background(), Request{Prompt: "city"})
			if !tc.check(err) {
				t.Fatalf("unexpected err: %v", err)
			}
		})
	}
}

func TestGenerateRejectsInvalidBeforeNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()
	_, err := NewHTTPClient(srv.URL).Generate(context.Background(), Request{})
	if !errors.Is(err, ErrInvalidRequest) || called {
		t.Fatalf("err=%v called=%v", err, called)
	}
}

func TestNewHTTPClientFromEnv(t *testing.T) {
	t.Setenv(EnvBaseURL, "http://gpu-box:7860/")
	if c := NewHTTPClient(""); c.BaseURL != "http://gpu-box:7860" {
		t.Fatalf("base = %q", c.BaseURL)
	}
	t.Setenv(EnvBaseURL, "")
	if c := NewHTTPClient(""); c.BaseURL != DefaultBaseURL {
		t.Fatalf("base = %q", c.BaseURL)
	}
}

type stubGenerator struct {
	img image.Image
	err error
	req Request
}

func (s *stubGenerator) Generate(ctx context.Context, req Request) (image.Image, error) {
	s.req = req
	return s.img, s.err
}

func TestRunSavesImage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ai-output", "cyberpunk-city.png")
	gen := &stubGenerator{img: canvas.New(16, 16)}
	p, _ := ProfileByName("cpu")
	var log bytes.Buffer
	if err := Run(context.Background(), gen, p, 5, out, &log); err != nil {
		t.Fatal(err)
	}
	if _, err := canvas.Load(out); err != nil {
		t.Fatal(err)
	}
	if gen.req.Seed != 5 || !strings.Contains(log.String(), "Image saved to: "+out) {
		t.Fatalf("req=%+v log=%s", gen.req, log.String())
	}
}

func TestRunPropagatesFailure(t *testing.T) {
	out := filepath.Join(t.TempDir(), "x.png")
	gen := &stubGenerator{err: errors.New("model missing")}
	p, _ := ProfileByName("gpu")
	err := Run(context.Background(), gen, p, 1, out, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "model missing") {
		t.Fatalf("err = %v", err)
	}
}
