// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	"errors"
	"fmt"
)

// package errors
var (
	ErrGraphics          = errors.New("graphics error")
	ErrTextureAllocation = errors.New("texture allocation failed")
	ErrNoImages          = errors.New("no images to upload")
)

// Error is a pending graphics context error picked up at a call site.
type Error struct {
	Label string
	Code  Enum
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: glError %d (%s)", e.Label, uint32(e.Code), e.Code)
}

// Is reports ErrGraphics as a match, so callers can test the class.
func (e *Error) Is(target error) bool {
	return target == ErrGraphics
}

// ShaderError is returned when shader source could not be read.
// Callers should treat the shader as unavailable.
type ShaderError struct {
	Err error
}

func (e *ShaderError) Error() string {
	return "shader source unavailable: " + e.Err.Error()
}

// Unwrap returns the underlying read error.
func (e *ShaderError) Unwrap() error {
	return e.Err
}
