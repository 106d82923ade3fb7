// Command pipelinecheck reports whether the tools the generators rely on are
// installed and working.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rook-computer/neoncity/internal/diffusion"
	"github.com/rook-computer/neoncity/internal/pipeline"
	"github.com/rook-computer/neoncity/internal/system"
)

const envFFmpeg = "NEONCITY_FFMPEG"

func main() {
	ffmpegDefault := os.Getenv(envFFmpeg)
	if ffmpegDefault == "" {
		ffmpegDefault = "ffmpeg"
	}
	sdURL := os.Getenv(diffusion.EnvBaseURL)
	if sdURL == "" {
		sdURL = diffusion.DefaultBaseURL
	}

	outDir := flag.String("out", pipeline.DefaultOutDir, "directory for the demo script and probe image")
	ffmpeg := flag.String("ffmpeg", ffmpegDefault, "video tool binary; also configurable via "+envFFmpeg)
	testImage := flag.Bool("test-image", false, "only write the gradient test image and exit")
	testImageDir := flag.String("test-image-dir", "ai-test-output", "directory for -test-image")
	flag.Parse()

	if *testImage {
		path := filepath.Join(*testImageDir, "test-image.png")
		if err := pipeline.WriteTestImage(path, 512, 512); err != nil {
			fmt.Println("test image error:", err)
			os.Exit(1)
		}
		fmt.Println("Test image saved to:", path)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := pipeline.Check(ctx, pipeline.Config{
		OutDir:       *outDir,
		FFmpeg:       *ffmpeg,
		DiffusionURL: sdURL,
		Runner:       system.ShellRunner{},
	}, os.Stdout)
	if err != nil {
		fmt.Println("[ERROR]", err)
		stop()
		os.Exit(1)
	}
	if !report.OK() {
		stop()
		os.Exit(1)
	}
}
