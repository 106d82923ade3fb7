// Command sdgen renders the city with a Stable Diffusion backend instead of
// the procedural renderer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rook-computer/neoncity/internal/app"
	"github.com/rook-computer/neoncity/internal/diffusion"
)

func main() {
	cfg, err := app.DefaultConfigFromEnv()
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	profileName := flag.String("profile", "gpu", "device profile: "+strings.Join(diffusion.ProfileNames(), " | "))
	baseURL := flag.String("url", "", "txt2img backend base URL; also configurable via "+diffusion.EnvBaseURL+" (default "+diffusion.DefaultBaseURL+")")
	outDir := flag.String("out", cfg.OutDir, "output directory; also configurable via "+app.EnvOutDir)
	seed := flag.Int64("seed", -1, "generation seed; -1 lets the backend pick")
	timeout := flag.Duration("timeout", 20*time.Minute, "give up after this long")
	debug := flag.Bool("debug", false, "enable debug logging to ./sdgen-debug.log")
	flag.Parse()

	profile, err := diffusion.ProfileByName(*profileName)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	client := diffusion.NewHTTPClient(*baseURL)
	client.HTTP.Timeout = *timeout
	if *debug {
		f, err := os.OpenFile("./sdgen-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			client.Logger = app.NewFileLogger(f)
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outPath := filepath.Join(*outDir, app.BaseFileName)
	if err := diffusion.Run(ctx, client, profile, *seed, outPath, os.Stdout); err != nil {
		fmt.Println("Error generating image:", err)
		fmt.Println("This might be due to an unreachable backend at", client.BaseURL, "or insufficient memory")
		fmt.Println("❌ Failed to generate image.")
		stop()
		os.Exit(1)
	}
	fmt.Println("✅ Success! Cyberpunk city image generated.")
}
