package main

import (
	"flag"
	"runtime"

	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/tellovr/core"
	"github.com/devblok/tellovr/gfx/glcore"
)

func init() {
	runtime.LockOSThread()
}

var (
	configPath = flag.String("config", "", "TOML configuration file")
	assetPath  = flag.String("assets", "", "Directory or kar archive with shaders and frames, overrides the configuration")
	fps        = flag.Int("fps", -1, "Frames per second, overrides the configuration")
)

func newWindow(cfg core.WindowConfiguration) (*sdl.Window, sdl.GLContext, error) {
	for attr, value := range map[sdl.GLattr]int{
		sdl.GL_CONTEXT_MAJOR_VERSION: 2,
		sdl.GL_CONTEXT_MINOR_VERSION: 1,
		sdl.GL_DOUBLEBUFFER:          1,
	} {
		if err := sdl.GLSetAttribute(attr, value); err != nil {
			return nil, nil, err
		}
	}

	window, err := sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.ScreenWidth),
		int32(cfg.ScreenHeight),
		sdl.WINDOW_OPENGL)
	if err != nil {
		return nil, nil, err
	}

	glctx, err := window.GLCreateContext()
	if err != nil {
		window.Destroy()
		return nil, nil, err
	}
	return window, glctx, nil
}

func main() {
	flag.Parse()

	cfg, err := core.LoadConfiguration(*configPath, ".env")
	if err != nil {
		log.Fatal(err)
	}
	if *assetPath != "" {
		cfg.Assets.Path = *assetPath
	}
	if *fps >= 0 {
		cfg.Time.FramesPerSecond = *fps
	}

	logger, err := core.NewLogger(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		logger.Fatal(err)
	}
	defer sdl.Quit()

	window, glctx, err := newWindow(cfg.Window)
	if err != nil {
		logger.Fatal(err)
	}
	defer window.Destroy()
	defer sdl.GLDeleteContext(glctx)

	if err := glcore.Init(); err != nil {
		logger.Fatal(err)
	}
	logger.WithField("version", glcore.Version()).Info("OpenGL context ready")

	v, err := newViewer(cfg, logger)
	if err != nil {
		logger.Fatal(err)
	}
	defer v.Release()

	if err := v.Run(window); err != nil {
		logger.Error(err)
	}
	logger.Info("Event loop exited")
}
