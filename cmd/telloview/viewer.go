package main

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/gobuffalo/packr"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/tellovr/asset"
	"github.com/devblok/tellovr/core"
	"github.com/devblok/tellovr/gfx"
	"github.com/devblok/tellovr/gfx/eye"
	"github.com/devblok/tellovr/gfx/glcore"
)

// Shaders shipped with the binary, used when the asset source has none.
var bundledShaders = packr.NewBox("../../assets/shaders")

type viewer struct {
	cfg  core.Configuration
	log  *log.Logger
	util *gfx.Utility
	ctx  glcore.Context

	program    uint32
	projection int32

	textures []gfx.Texture
	aspects  []float32
	frame    int
}

func newViewer(cfg core.Configuration, logger *log.Logger) (*viewer, error) {
	v := &viewer{
		cfg: cfg,
		log: logger,
		util: &gfx.Utility{
			Log:            logger,
			MaxTextureSize: cfg.Texture.MaxSize,
		},
	}

	src, closer, err := asset.Open(cfg.Assets.Path)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	v.loadProgram(src)

	names, err := asset.List(src, cfg.Assets.FramePrefix)
	if err != nil {
		v.Release()
		return nil, err
	}
	if len(names) == 0 {
		v.Release()
		return nil, fmt.Errorf("no frames under %q in %s", cfg.Assets.FramePrefix, cfg.Assets.Path)
	}
	images, err := asset.LoadImages(src, names...)
	if err != nil {
		v.Release()
		return nil, err
	}

	textures, err := v.util.UploadTextures(v.ctx, images)
	if err != nil {
		v.Release()
		return nil, err
	}
	v.textures = textures
	for _, img := range images {
		b := img.Bounds()
		v.aspects = append(v.aspects, float32(b.Dx())/float32(b.Dy()))
	}
	if err := v.util.CheckErrorState(v.ctx, "upload frames"); err != nil {
		v.Release()
		return nil, err
	}

	v.log.WithFields(log.Fields{
		"frames": len(v.textures),
		"source": cfg.Assets.Path,
	}).Info("Frames uploaded")
	return v, nil
}

// loadProgram compiles the frame shaders. Any failure leaves the
// viewer on fixed function texturing.
func (v *viewer) loadProgram(src asset.Source) {
	vert, frag, err := v.shaderSources(src)
	if err != nil {
		v.log.WithError(err).Warn("Shaders unavailable, drawing without a program")
		return
	}
	program, err := glcore.CompileProgram(vert, frag)
	if err != nil {
		v.log.WithError(err).Warn("Shader program failed, drawing without a program")
		return
	}
	v.program = program
	v.projection = gl.GetUniformLocation(program, gl.Str("projection\x00"))
}

func (v *viewer) shaderSources(src asset.Source) (string, string, error) {
	sources := []asset.Source{src, asset.Box(bundledShaders)}
	names := [][2]string{
		{v.cfg.Assets.VertexShader, v.cfg.Assets.FragmentShader},
		{"frame.vert", "frame.frag"},
	}

	var lastErr error
	for idx, s := range sources {
		vert, err := asset.LoadShader(v.util, s, names[idx][0])
		if err != nil {
			lastErr = err
			continue
		}
		frag, err := asset.LoadShader(v.util, s, names[idx][1])
		if err != nil {
			lastErr = err
			continue
		}
		return vert, frag, nil
	}
	return "", "", lastErr
}

// Run draws frames until the window is closed or escape is pressed.
func (v *viewer) Run(window *sdl.Window) error {
	time := core.NewTime(v.cfg.Time)
	defer time.Stop()

EventLoop:
	for {
		select {
		case <-time.EventTicker().C:
			for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
				switch et := event.(type) {
				case *sdl.KeyboardEvent:
					if et.Keysym.Sym == sdl.K_ESCAPE {
						break EventLoop
					}
				case *sdl.QuitEvent:
					break EventLoop
				}
			}
		case <-time.FpsTicker().C:
			if err := v.draw(); err != nil {
				return err
			}
			window.GLSwap()
			v.frame = (v.frame + 1) % len(v.textures)
		}
	}
	return nil
}

func (v *viewer) draw() error {
	if len(v.textures) == 0 {
		return errors.New("nothing to draw")
	}

	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.Enable(gl.TEXTURE_2D)
	v.ctx.BindTexture(gfx.Texture2D, v.textures[v.frame])
	if v.program != 0 {
		gl.UseProgram(v.program)
	}

	viewports := eye.Viewports(int32(v.cfg.Window.ScreenWidth), int32(v.cfg.Window.ScreenHeight))
	for _, vp := range viewports {
		gl.Viewport(vp.X, vp.Y, vp.Width, vp.Height)
		mvp := eye.Projection(v.aspects[v.frame], vp.Aspect())
		if v.program != 0 {
			gl.UniformMatrix4fv(v.projection, 1, false, &mvp[0])
		} else {
			gl.MatrixMode(gl.PROJECTION)
			gl.LoadMatrixf(&mvp[0])
		}

		gl.Begin(gl.QUADS)
		gl.TexCoord2f(0, 1)
		gl.Vertex2f(-1, -1)
		gl.TexCoord2f(1, 1)
		gl.Vertex2f(1, -1)
		gl.TexCoord2f(1, 0)
		gl.Vertex2f(1, 1)
		gl.TexCoord2f(0, 0)
		gl.Vertex2f(-1, 1)
		gl.End()
	}
	return v.util.CheckErrorState(v.ctx, "draw frame")
}

// Release frees the textures and program.
func (v *viewer) Release() {
	v.util.DeleteTextures(v.ctx, v.textures)
	v.textures = nil
	if v.program != 0 {
		glcore.DeleteProgram(v.program)
		v.program = 0
	}
}
