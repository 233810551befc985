// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package glcore implements gfx.Context on desktop OpenGL 2.1.
// Every call must come from the thread the GL context is current on.
package glcore

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/go-gl/gl/v2.1/gl"

	"github.com/devblok/tellovr/gfx"
)

// Init loads the GL function pointers. A context must be current.
func Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl.Init(): %w", err)
	}
	return nil
}

// Version returns the GL version string of the current context.
func Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// Context forwards gfx.Context calls to the current GL context.
type Context struct{}

// GetError implements gfx.Context.
func (Context) GetError() gfx.Enum {
	return gfx.Enum(gl.GetError())
}

// GenTextures implements gfx.Context.
func (Context) GenTextures(n int) []gfx.Texture {
	if n <= 0 {
		return nil
	}
	names := make([]uint32, n)
	gl.GenTextures(int32(n), &names[0])
	textures := make([]gfx.Texture, n)
	for idx, name := range names {
		textures[idx] = gfx.Texture(name)
	}
	return textures
}

// DeleteTextures implements gfx.Context.
func (Context) DeleteTextures(textures ...gfx.Texture) {
	if len(textures) == 0 {
		return
	}
	names := make([]uint32, len(textures))
	for idx, t := range textures {
		names[idx] = uint32(t)
	}
	gl.DeleteTextures(int32(len(names)), &names[0])
}

// BindTexture implements gfx.Context.
func (Context) BindTexture(target gfx.Enum, t gfx.Texture) {
	gl.BindTexture(uint32(target), uint32(t))
}

// TexParameteri implements gfx.Context.
func (Context) TexParameteri(target, pname gfx.Enum, param int32) {
	gl.TexParameteri(uint32(target), uint32(pname), param)
}

// TexImage2D implements gfx.Context.
func (Context) TexImage2D(target gfx.Enum, level int32, img *image.RGBA) {
	size := img.Rect.Size()
	gl.TexImage2D(uint32(target), level, gl.RGBA,
		int32(size.X), int32(size.Y), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
}

// CompileProgram compiles the vertex and fragment sources and links
// them into a program. Compiler and linker logs are returned as errors.
func CompileProgram(vertex, fragment string) (uint32, error) {
	vs, err := compileShader(vertex, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(fragment, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, errors.New("link failed: " + strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

// DeleteProgram releases a program created by CompileProgram.
func DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, errors.New(strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

var _ gfx.Context = Context{}
