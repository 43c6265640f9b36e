package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gekko3d/townview"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	regionFile := flag.String("region", "", "Region file (.json, .yaml or .yml)")
	textureFile := flag.String("texture", "", "Grass texture image (png, jpeg, bmp or webp)")
	debug := flag.Bool("debug", false, "Enable debug logging and frame statistics")
	headless := flag.Bool("headless", false, "Run without a window and report what would be drawn")
	frames := flag.Int("frames", 0, "Frames to run in headless mode")
	flag.Parse()

	cfg := townview.DefaultConfig()
	if *configPath != "" {
		loaded, err := townview.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "region":
			cfg.Region.File = *regionFile
		case "texture":
			cfg.Texture.File = *textureFile
		case "debug":
			cfg.Debug = *debug
		case "frames":
			cfg.Headless.Frames = *frames
		}
	})

	var err error
	if *headless {
		err = runHeadless(cfg)
	} else {
		err = runWindow(cfg)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runWindow(cfg townview.Config) error {
	window := townview.NewPlatformWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	app := townview.NewAppBuilder().
		UseModule(cfg.Modules()...).
		UseModule(window, townview.InputModule{}, townview.ImmersiveModule{}).
		Build()

	handle, err := app.Start()
	defer handle.Stop()
	if err != nil {
		return startupError(app.Logger(), err)
	}

	ws, ok := app.Surface().(*townview.WindowSurface)
	if !ok {
		return errors.New("window surface missing")
	}
	defer ws.Destroy()

	for !ws.ShouldClose() && !handle.Stopped() {
		ws.WindowFrames().Pump()
	}
	// Stop before Destroy: the context must go before the window.
	handle.Stop()
	return handle.Err()
}

// startupError filters a failed start. A missing drawing surface leaves the
// page blank and exits cleanly; anything else is returned.
func startupError(log townview.Logger, err error) error {
	if errors.Is(err, townview.ErrSurfaceUnavailable) {
		log.Warnf("No drawing surface, nothing rendered: %v", err)
		return nil
	}
	return err
}

func runHeadless(cfg townview.Config) error {
	surface := townview.NewHeadlessSurface(cfg.Window.Width, cfg.Window.Height)
	app := townview.NewAppBuilder().
		UseModule(cfg.Modules()...).
		UseSurface(surface).
		Build()

	handle, err := app.Start()
	defer handle.Stop()
	if err != nil {
		return err
	}

	for i := 0; i < cfg.Headless.Frames && !handle.Stopped(); i++ {
		surface.ManualFrames().Tick()
	}

	ctx := surface.HeadlessContext()
	app.Logger().Infof("Headless: %d frames, %d nodes in %d batches, camera at %v",
		ctx.Draws, ctx.LastMeshes, ctx.LastBatches, ctx.LastCamera.Position)
	handle.Stop()
	return handle.Err()
}
