// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx_test

import (
	"errors"
	"image"
	"image/color"
	"io"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/devblok/tellovr/gfx"
	"github.com/devblok/tellovr/gfx/gfxtest"
)

func newUtility() (*gfx.Utility, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return gfx.New(logger), hook
}

func errorEntries(hook *test.Hook) []*logrus.Entry {
	var out []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			out = append(out, e)
		}
	}
	return out
}

func TestCheckErrorStateClean(t *testing.T) {
	c := qt.New(t)
	u, hook := newUtility()
	ctx := gfxtest.NewContext()

	c.Assert(u.CheckErrorState(ctx, "clean"), qt.IsNil)
	c.Assert(hook.AllEntries(), qt.HasLen, 0)
}

func TestCheckErrorStateFirstCode(t *testing.T) {
	c := qt.New(t)
	u, hook := newUtility()
	ctx := gfxtest.NewContext()
	ctx.QueueErrors(gfx.InvalidEnum, gfx.OutOfMemory)

	err := u.CheckErrorState(ctx, "glTexImage2D")
	c.Assert(err, qt.ErrorIs, gfx.ErrGraphics)

	var gerr *gfx.Error
	c.Assert(errors.As(err, &gerr), qt.IsTrue)
	c.Assert(gerr.Label, qt.Equals, "glTexImage2D")
	c.Assert(gerr.Code, qt.Equals, gfx.InvalidEnum)
	c.Assert(err, qt.ErrorMatches, `glTexImage2D: glError 1280 \(GL_INVALID_ENUM\)`)

	entries := errorEntries(hook)
	c.Assert(entries, qt.HasLen, 1)
	c.Assert(entries[0].Data["label"], qt.Equals, "glTexImage2D")
	c.Assert(entries[0].Data["code"], qt.Equals, uint32(gfx.InvalidEnum))

	// the rest of the queue surfaces on the next check
	c.Assert(ctx.PendingErrors(), qt.Equals, 1)
	err = u.CheckErrorState(ctx, "again")
	c.Assert(errors.As(err, &gerr), qt.IsTrue)
	c.Assert(gerr.Code, qt.Equals, gfx.OutOfMemory)
	c.Assert(errorEntries(hook), qt.HasLen, 2)
}

func TestEnumString(t *testing.T) {
	c := qt.New(t)
	c.Assert(gfx.InvalidOperation.String(), qt.Equals, "GL_INVALID_OPERATION")
	c.Assert(gfx.Enum(0x1234).String(), qt.Equals, "0x1234")
}

func TestLoadShaderSource(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"single line no newline", "void main() {}", "void main() {}\n"},
		{"trailing newline kept single", "a\nb\n", "a\nb\n"},
		{"missing final newline", "a\nb", "a\nb\n"},
		{"crlf", "a\r\nb\r\n", "a\nb\n"},
		{"lone cr", "a\rb", "a\nb\n"},
		{"lone cr then newline", "a\rb\n", "a\nb\n"},
		{"trailing cr", "a\r", "a\n"},
		{"cr cr lf", "a\r\r\nb", "a\n\nb\n"},
		{"blank lines", "\n\nx", "\n\nx\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			u, hook := newUtility()
			r := &closeTracker{Reader: strings.NewReader(tt.in)}

			src, err := u.LoadShaderSource(r)
			c.Assert(err, qt.IsNil)
			c.Assert(src, qt.Equals, tt.want)
			c.Assert(r.closed, qt.IsTrue)
			c.Assert(errorEntries(hook), qt.HasLen, 0)
		})
	}
}

func TestLoadShaderSourceLongLine(t *testing.T) {
	c := qt.New(t)
	u, _ := newUtility()
	line := strings.Repeat("x", 200*1024)

	src, err := u.LoadShaderSource(io.NopCloser(strings.NewReader(line)))
	c.Assert(err, qt.IsNil)
	c.Assert(src, qt.Equals, line+"\n")
}

func TestLoadShaderSourceReadError(t *testing.T) {
	c := qt.New(t)
	u, hook := newUtility()
	cause := errors.New("device unplugged")
	r := &closeTracker{Reader: io.MultiReader(strings.NewReader("line one\nline"), &failingReader{err: cause})}

	src, err := u.LoadShaderSource(r)
	c.Assert(src, qt.Equals, "")
	c.Assert(err, qt.ErrorIs, cause)

	var serr *gfx.ShaderError
	c.Assert(errors.As(err, &serr), qt.IsTrue)
	c.Assert(r.closed, qt.IsTrue)
	c.Assert(errorEntries(hook), qt.HasLen, 1)
}

func TestLoadShaderSourceReadErrorAfterCR(t *testing.T) {
	c := qt.New(t)
	u, _ := newUtility()
	cause := errors.New("device unplugged")
	r := io.NopCloser(io.MultiReader(strings.NewReader("line\r"), &failingReader{err: cause}))

	_, err := u.LoadShaderSource(r)
	c.Assert(err, qt.ErrorIs, cause)
}

func TestLoadShaderSourceCloseError(t *testing.T) {
	c := qt.New(t)
	u, hook := newUtility()
	cause := errors.New("close failed")
	r := &closeTracker{Reader: strings.NewReader("x"), err: cause}

	_, err := u.LoadShaderSource(r)
	c.Assert(err, qt.ErrorIs, cause)
	c.Assert(errorEntries(hook), qt.HasLen, 1)
}

func testImages(n int) []image.Image {
	images := make([]image.Image, n)
	for idx := range images {
		img := image.NewNRGBA(image.Rect(0, 0, 2+idx, 3))
		img.Set(0, 0, color.NRGBA{R: uint8(idx), A: 255})
		images[idx] = img
	}
	return images
}

func TestUploadTextures(t *testing.T) {
	c := qt.New(t)
	u, _ := newUtility()
	ctx := gfxtest.NewContext()
	images := testImages(3)

	textures, err := u.UploadTextures(ctx, images)
	c.Assert(err, qt.IsNil)
	c.Assert(textures, qt.DeepEquals, []gfx.Texture{1, 2, 3})
	c.Assert(ctx.Bound(), qt.Equals, gfx.Texture(3))

	uploads := ctx.CallsOf(gfxtest.OpTexImage2D)
	c.Assert(uploads, qt.HasLen, 3)
	for idx, up := range uploads {
		c.Assert(up.Texture, qt.Equals, textures[idx])
		c.Assert(up.Level, qt.Equals, int32(0))
		c.Assert(up.Target, qt.Equals, gfx.Texture2D)
		c.Assert(up.Bounds, qt.Equals, image.Rect(0, 0, 2+idx, 3))
	}
}

func TestUploadTexturesNearestBeforeUpload(t *testing.T) {
	c := qt.New(t)
	u, _ := newUtility()
	ctx := gfxtest.NewContext()

	_, err := u.UploadTextures(ctx, testImages(2))
	c.Assert(err, qt.IsNil)

	params := map[gfx.Texture]map[gfx.Enum]int32{}
	for _, call := range ctx.Calls() {
		switch call.Op {
		case gfxtest.OpTexParameteri:
			if params[call.Texture] == nil {
				params[call.Texture] = map[gfx.Enum]int32{}
			}
			params[call.Texture][call.Pname] = call.Param
		case gfxtest.OpTexImage2D:
			c.Assert(params[call.Texture][gfx.TextureMinFilter], qt.Equals, int32(gfx.Nearest))
			c.Assert(params[call.Texture][gfx.TextureMagFilter], qt.Equals, int32(gfx.Nearest))
		}
	}
	c.Assert(params, qt.HasLen, 2)
}

func TestUploadTexturesAllocationFailure(t *testing.T) {
	c := qt.New(t)
	u, _ := newUtility()
	ctx := gfxtest.NewContext()
	ctx.FailAllocation(1)

	textures, err := u.UploadTextures(ctx, testImages(3))
	c.Assert(err, qt.ErrorIs, gfx.ErrTextureAllocation)
	c.Assert(textures, qt.IsNil)
	c.Assert(ctx.CallsOf(gfxtest.OpTexImage2D), qt.HasLen, 0)
	c.Assert(ctx.Live(), qt.Equals, 0)

	deleted := ctx.CallsOf(gfxtest.OpDeleteTextures)
	c.Assert(deleted, qt.HasLen, 1)
	c.Assert(deleted[0].Textures, qt.DeepEquals, []gfx.Texture{1, 2})
}

func TestUploadTexturesShortAllocation(t *testing.T) {
	c := qt.New(t)
	u, _ := newUtility()
	ctx := gfxtest.NewContext()
	ctx.LimitAllocation(2)

	textures, err := u.UploadTextures(ctx, testImages(3))
	c.Assert(err, qt.ErrorIs, gfx.ErrTextureAllocation)
	c.Assert(err, qt.ErrorMatches, `.*requested 3, got 2`)
	c.Assert(textures, qt.IsNil)
	c.Assert(ctx.CallsOf(gfxtest.OpTexImage2D), qt.HasLen, 0)
	c.Assert(ctx.Live(), qt.Equals, 0)

	deleted := ctx.CallsOf(gfxtest.OpDeleteTextures)
	c.Assert(deleted, qt.HasLen, 1)
	c.Assert(deleted[0].Textures, qt.DeepEquals, []gfx.Texture{1, 2})
}

func TestUploadTexturesEmpty(t *testing.T) {
	c := qt.New(t)
	u, _ := newUtility()
	ctx := gfxtest.NewContext()

	_, err := u.UploadTextures(ctx, nil)
	c.Assert(err, qt.ErrorIs, gfx.ErrNoImages)
	c.Assert(ctx.Calls(), qt.HasLen, 0)
}

func TestUploadTexturesMaxSize(t *testing.T) {
	c := qt.New(t)
	u, _ := newUtility()
	u.MaxTextureSize = 64
	ctx := gfxtest.NewContext()

	_, err := u.UploadTextures(ctx, []image.Image{image.NewGray(image.Rect(0, 0, 256, 128))})
	c.Assert(err, qt.IsNil)
	c.Assert(ctx.CallsOf(gfxtest.OpTexImage2D)[0].Bounds, qt.Equals, image.Rect(0, 0, 64, 32))
}

func TestPixels(t *testing.T) {
	c := qt.New(t)

	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	c.Assert(gfx.Pixels(src, 0), qt.Equals, src)

	sub := src.SubImage(image.Rect(1, 1, 3, 4)).(*image.RGBA)
	sub.Set(1, 1, color.RGBA{R: 9, A: 255})
	out := gfx.Pixels(sub, 0)
	c.Assert(out.Bounds(), qt.Equals, image.Rect(0, 0, 2, 3))
	c.Assert(out.RGBAAt(0, 0), qt.Equals, color.RGBA{R: 9, A: 255})

	tall := gfx.Pixels(image.NewGray(image.Rect(0, 0, 10, 100)), 50)
	c.Assert(tall.Bounds(), qt.Equals, image.Rect(0, 0, 5, 50))
}

func BenchmarkPixelsNRGBA(b *testing.B) {
	img := image.NewNRGBA(image.Rect(0, 0, 960, 720))
	for idx := 0; idx < b.N; idx++ {
		gfx.Pixels(img, 0)
	}
}

func BenchmarkPixelsScaled(b *testing.B) {
	img := image.NewNRGBA(image.Rect(0, 0, 960, 720))
	for idx := 0; idx < b.N; idx++ {
		gfx.Pixels(img, 512)
	}
}

type closeTracker struct {
	io.Reader
	closed bool
	err    error
}

func (c *closeTracker) Close() error {
	c.closed = true
	return c.err
}

type failingReader struct {
	err error
}

func (f *failingReader) Read([]byte) (int, error) {
	return 0, f.err
}
