package diffusion

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

const (
	EnvBaseURL     = "NEONCITY_SD_URL"
	DefaultBaseURL = "http://127.0.0.1:7860"

	txt2imgPath = "/sdapi/v1/txt2img"
	// Generations on CPU take minutes.
	defaultTimeout = 20 * time.Minute
	errBodyLimit   = 2048
)

// ErrNoImages is returned when the backend answers without an image.
var ErrNoImages = errors.New("backend returned no images")

// Generator produces one image for a prompt. Callers treat it as opaque.
type Generator interface {
	Generate(ctx context.Context, req Request) (image.Image, error)
}

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned HTTP %d", e.Code)
	}
	return fmt.Sprintf("backend returned HTTP %d: %s", e.Code, e.Body)
}

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// HTTPClient talks to a Stable-Diffusion-WebUI compatible txt2img API.
type HTTPClient struct {
	BaseURL string
	HTTP    *http.Client
	Logger  logger
}

// NewHTTPClient returns a client for baseURL, or for NEONCITY_SD_URL /
// DefaultBaseURL when baseURL is empty.
func NewHTTPClient(baseURL string) *HTTPClient {
	if baseURL == "" {
		baseURL = os.Getenv(EnvBaseURL)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: defaultTimeout},
	}
}

type txt2imgRequest struct {
	Prompt           string           `json:"prompt"`
	NegativePrompt   string           `json:"negative_prompt,omitempty"`
	Width            int              `json:"width"`
	Height           int              `json:"height"`
	Steps            int              `json:"steps"`
	CFGScale         float64          `json:"cfg_scale"`
	Seed             int64            `json:"seed"`
	SamplerName      string           `json:"sampler_name,omitempty"`
	BatchSize        int              `json:"batch_size"`
	NIter            int              `json:"n_iter"`
	OverrideSettings overrideSettings `json:"override_settings"`
}

type overrideSettings struct {
	Checkpoint       string `json:"sd_model_checkpoint,omitempty"`
	Precision        string `json:"precision,omitempty"`
	AttentionSlicing bool   `json:"attention_slicing,omitempty"`
	CPUOffload       bool   `json:"cpu_offload,omitempty"`
	ForceCPU         bool   `json:"use_cpu,omitempty"`
}

type txt2imgResponse struct {
	Images []string `json:"images"`
	Info   string   `json:"info"`
}

func newTxt2imgRequest(req Request) txt2imgRequest {
	return txt2imgRequest{
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		Width:          req.Width,
		Height:         req.Height,
		Steps:          req.Steps,
		CFGScale:       req.GuidanceScale,
		Seed:           req.Seed,
		SamplerName:    req.Sampler,
		BatchSize:      1,
		NIter:          1,
		OverrideSettings: overrideSettings{
			Checkpoint:       req.Model,
			Precision:        string(req.Precision),
			AttentionSlicing: req.Hints.AttentionSlicing,
			CPUOffload:       req.Hints.CPUOffload,
			ForceCPU:         req.Hints.ForceCPU,
		},
	}
}

func (c *HTTPClient) Generate(ctx context.Context, req Request) (image.Image, error) {
	req.normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(newTxt2imgRequest(req))
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+txt2imgPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	c.logf("sd", "txt2img %dx%d steps=%d seed=%d", req.Width, req.Height, req.Steps, req.Seed)
	resp, err := c.client().Do(httpReq)
	if err != nil {
		c.errorf("sd", "txt2img failed after %s: %v", time.Since(start).Round(time.Millisecond), err)
		return nil, fmt.Errorf("txt2img: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var out txt2imgResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode txt2img response: %w", err)
	}
	if len(out.Images) == 0 {
		return nil, ErrNoImages
	}
	img, err := decodeImage(out.Images[0])
	if err != nil {
		return nil, err
	}
	c.logf("sd", "txt2img done in %s", time.Since(start).Round(time.Millisecond))
	return img, nil
}

// decodeImage accepts raw base64 as well as a data URL.
func decodeImage(payload string) (image.Image, error) {
	if i := strings.Index(payload, ";base64,"); i >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[i+len(";base64,"):]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode image base64: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func (c *HTTPClient) client() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *HTTPClient) logf(component, format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Infof(component, format, args...)
	}
}

func (c *HTTPClient) errorf(component, format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Errorf(component, format, args...)
	}
}
