// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gfx holds the graphics helpers shared by every renderer:
// error checking, shader source loading and texture upload.
//
// Nothing in this package keeps graphics state. The graphics context is
// passed explicitly to every call and, like the underlying API, must only
// be used from the thread that owns it. Callers serialize access.
package gfx

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"
)

// Enum is a graphics API enumerant. Values match OpenGL so that backends
// can hand them through untouched.
type Enum uint32

// Enumerants used by the helpers.
const (
	NoError Enum = 0

	Texture2D        Enum = 0x0DE1
	TextureMagFilter Enum = 0x2800
	TextureMinFilter Enum = 0x2801
	Nearest          Enum = 0x2600

	InvalidEnum                 Enum = 0x0500
	InvalidValue                Enum = 0x0501
	InvalidOperation            Enum = 0x0502
	OutOfMemory                 Enum = 0x0505
	InvalidFramebufferOperation Enum = 0x0506
)

// String returns the symbolic name of well known error codes.
func (e Enum) String() string {
	switch e {
	case NoError:
		return "GL_NO_ERROR"
	case InvalidEnum:
		return "GL_INVALID_ENUM"
	case InvalidValue:
		return "GL_INVALID_VALUE"
	case InvalidOperation:
		return "GL_INVALID_OPERATION"
	case OutOfMemory:
		return "GL_OUT_OF_MEMORY"
	case InvalidFramebufferOperation:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	}
	return fmt.Sprintf("0x%04X", uint32(e))
}

// Texture is an opaque texture handle. Zero is never a valid texture.
type Texture uint32

// Context is the slice of a graphics context the helpers need.
// Implementations forward each call to the live API.
type Context interface {

	// GetError returns the next pending error code, or NoError.
	GetError() Enum

	// GenTextures generates n texture handles.
	// A zero handle signals a failed allocation.
	GenTextures(n int) []Texture

	// DeleteTextures releases the given handles.
	DeleteTextures(textures ...Texture)

	// BindTexture makes t the active texture for target.
	BindTexture(target Enum, t Texture)

	// TexParameteri sets an integer parameter on the bound texture.
	TexParameteri(target, pname Enum, param int32)

	// TexImage2D uploads img to the bound texture at the given mip level.
	TexImage2D(target Enum, level int32, img *image.RGBA)
}

// Utility bundles the helpers with the diagnostic sink they report to.
// It has no mutable state and can be shared freely.
type Utility struct {
	// Log receives diagnostics. Nil means the logrus standard logger.
	Log logrus.FieldLogger

	// MaxTextureSize caps the larger texture dimension, images above it
	// are scaled down before upload. Zero disables the cap.
	MaxTextureSize int
}

// New creates a Utility reporting to log.
func New(log logrus.FieldLogger) *Utility {
	return &Utility{Log: log}
}

func (u *Utility) logger() logrus.FieldLogger {
	if u == nil || u.Log == nil {
		return logrus.StandardLogger()
	}
	return u.Log
}
