package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/neoncity/internal/app"
	"github.com/rook-computer/neoncity/internal/render"
	"github.com/rook-computer/neoncity/internal/state"
	"github.com/rook-computer/neoncity/internal/system"
	"github.com/rook-computer/neoncity/internal/web"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := app.DefaultConfigFromEnv()
	if err != nil {
		fmt.Println("config error:", err)
		return 2
	}
	serverDefaults, err := web.DefaultServerConfigFromEnv(web.DefaultListenAddr)
	if err != nil {
		fmt.Println("server config error:", err)
		return 2
	}

	// Flags
	outDir := flag.String("out", cfg.OutDir, "output directory; also configurable via "+app.EnvOutDir)
	seed := flag.Int64("seed", cfg.Seed, "random seed (default: time based); also configurable via "+app.EnvSeed)
	width := flag.Int("width", cfg.Width, "image width in pixels; also configurable via "+app.EnvWidth)
	height := flag.Int("height", cfg.Height, "image height in pixels; also configurable via "+app.EnvHeight)
	debug := flag.Bool("debug", false, "enable debug logging to ./neoncity-debug.log")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via "+app.EnvStdioLog)
	fbPreview := flag.Bool("fb", false, "show the enhanced image on the Linux framebuffer until Esc/Q/F4 or Ctrl-C")
	fbDevice := flag.String("fb-device", "/dev/fb0", "framebuffer device for -fb")
	serve := flag.Bool("serve", false, "serve the gallery and render API after generating, until Ctrl-C")
	listenAddr := flag.String("listen", serverDefaults.ListenAddr, "http listen address for -serve; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", serverDefaults.DevMode, "enable permissive CORS for -serve; also configurable via "+web.EnvDevMode)
	flag.Parse()

	cfg.OutDir, cfg.Width, cfg.Height = *outDir, *width, *height
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.SeedSet = true
		}
	})
	cfg.Seed = *seed

	// Best-effort: redirect all stdout/stderr output (including panic stack traces)
	// to a file so crashes are diagnosable even when the console is left in graphics mode.
	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv(app.EnvStdioLog)
	}
	if logPath != "" {
		if err := redirectStdIO(logPath); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	// Local file logger when debug enabled
	var logger app.Logger = app.NoopLogger{}
	if *debug {
		f, err := os.OpenFile("./neoncity-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := state.NewStore()
	a := app.New(store, cfg)
	a.Logger = logger
	a.Out = os.Stdout

	if *serve {
		server := web.NewHTTPServer(*listenAddr)
		server.StaticDir = cfg.OutDir
		server.DevMode = *devMode
		server.Logger = logger
		server.Deps = web.APIV1Deps{Status: store, Gallery: web.FileSystemGallery{Root: cfg.OutDir}}
		a.Web = server
		url := galleryURL(ctx, *listenAddr, logger)
		store.UpdateNetwork(state.NetworkInfo{URL: url})
		fmt.Println("Gallery:", url)
	}
	if *fbPreview {
		preview := render.NewFBPreview()
		preview.Device = *fbDevice
		preview.Logger = logger
		preview.QRPayload = store.Snapshot().Network.URL
		a.Preview = preview
	}

	out, err := a.Start(ctx)
	if err != nil && len(out.Files) == 0 {
		printFailure(err)
		return 1
	}

	fmt.Println("✅ Success! Cyberpunk city artwork created.")
	fmt.Printf("Seed: %d\n", out.Seed)
	fmt.Println("Generated files:")
	for _, path := range out.Files {
		fmt.Printf("  - %s\n", path)
	}
	if err != nil {
		// The files are on disk; only the preview or server failed.
		fmt.Println("⚠️  post-render error:", err)
		return 1
	}
	return 0
}

func printFailure(err error) {
	fmt.Println("❌ Error creating artwork:", err)
	if errors.Is(err, render.ErrInvalidArgument) {
		fmt.Println("Check -width/-height (1 to", render.MaxDimension, "pixels).")
	}
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		fmt.Printf("  caused by: %v (%T)\n", cause, cause)
	}
}

// galleryURL builds the URL shown to users and encoded in the preview QR
// code, preferring the host's LAN address over localhost.
func galleryURL(ctx context.Context, listenAddr string, logger app.Logger) string {
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return "http://" + listenAddr + "/gallery/"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		ip, err := system.LocalIPv4(ctx, system.ShellRunner{Logger: logger})
		if err != nil {
			logger.Errorf("main", "lan address lookup failed: %v", err)
			ip = "127.0.0.1"
		}
		host = ip
	}
	return "http://" + net.JoinHostPort(host, port) + "/gallery/"
}
