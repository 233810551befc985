// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gles adapts a golang.org/x/mobile/gl context, the OpenGL ES
// binding used on Android, to gfx.Context.
package gles

import (
	"image"

	"golang.org/x/mobile/gl"

	"github.com/devblok/tellovr/gfx"
)

// Context wraps a mobile GL context. Like the wrapped context it must
// only be used from the goroutine driving the app's paint events.
type Context struct {
	GL gl.Context
}

// New wraps glctx.
func New(glctx gl.Context) *Context {
	return &Context{GL: glctx}
}

// GetError implements gfx.Context.
func (c *Context) GetError() gfx.Enum {
	return gfx.Enum(c.GL.GetError())
}

// GenTextures implements gfx.Context. x/mobile creates one texture per
// call, so the handles are generated one by one.
func (c *Context) GenTextures(n int) []gfx.Texture {
	textures := make([]gfx.Texture, n)
	for idx := range textures {
		textures[idx] = gfx.Texture(c.GL.CreateTexture().Value)
	}
	return textures
}

// DeleteTextures implements gfx.Context.
func (c *Context) DeleteTextures(textures ...gfx.Texture) {
	for _, t := range textures {
		c.GL.DeleteTexture(gl.Texture{Value: uint32(t)})
	}
}

// BindTexture implements gfx.Context.
func (c *Context) BindTexture(target gfx.Enum, t gfx.Texture) {
	c.GL.BindTexture(gl.Enum(target), gl.Texture{Value: uint32(t)})
}

// TexParameteri implements gfx.Context.
func (c *Context) TexParameteri(target, pname gfx.Enum, param int32) {
	c.GL.TexParameteri(gl.Enum(target), gl.Enum(pname), int(param))
}

// TexImage2D implements gfx.Context.
func (c *Context) TexImage2D(target gfx.Enum, level int32, img *image.RGBA) {
	size := img.Rect.Size()
	c.GL.TexImage2D(gl.Enum(target), int(level), gl.RGBA, size.X, size.Y, gl.RGBA, gl.UNSIGNED_BYTE, img.Pix)
}

var _ gfx.Context = (*Context)(nil)
