// Package gfxtest provides a recording graphics context for tests.
package gfxtest

import (
	"image"
	"sync"

	"github.com/devblok/tellovr/gfx"
)

// Operations recorded by Context.
const (
	OpGetError       = "GetError"
	OpGenTextures    = "GenTextures"
	OpDeleteTextures = "DeleteTextures"
	OpBindTexture    = "BindTexture"
	OpTexParameteri  = "TexParameteri"
	OpTexImage2D     = "TexImage2D"
)

// Call is one recorded call on the Context.
type Call struct {
	Op       string
	Target   gfx.Enum
	Texture  gfx.Texture
	Textures []gfx.Texture
	Pname    gfx.Enum
	Param    int32
	Level    int32
	Bounds   image.Rectangle
}

// Context implements gfx.Context in memory. Handles are handed out
// sequentially starting at 1. The zero value is ready to use.
type Context struct {
	mutex sync.Mutex

	errors []gfx.Enum
	fail   map[int]bool
	limit  int
	next   gfx.Texture
	gen    int

	calls []Call
	live  map[gfx.Texture]bool
	bound gfx.Texture
}

// NewContext creates an empty Context.
func NewContext() *Context {
	return &Context{}
}

// QueueErrors appends codes to the pending error queue.
func (c *Context) QueueErrors(codes ...gfx.Enum) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.errors = append(c.errors, codes...)
}

// FailAllocation makes the allocation with the given zero based indices,
// counted over the lifetime of the Context, return a zero handle.
func (c *Context) FailAllocation(indices ...int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.fail == nil {
		c.fail = map[int]bool{}
	}
	for _, idx := range indices {
		c.fail[idx] = true
	}
}

// LimitAllocation caps every GenTextures call to at most n handles,
// like a driver that runs out of names mid request. Zero lifts the cap.
func (c *Context) LimitAllocation(n int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.limit = n
}

// Calls returns a copy of the recorded calls.
func (c *Context) Calls() []Call {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]Call(nil), c.calls...)
}

// CallsOf returns the recorded calls of a single operation.
func (c *Context) CallsOf(op string) []Call {
	var out []Call
	for _, call := range c.Calls() {
		if call.Op == op {
			out = append(out, call)
		}
	}
	return out
}

// Live returns the number of generated handles not yet deleted.
func (c *Context) Live() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.live)
}

// Bound returns the texture currently bound to the 2D target.
func (c *Context) Bound() gfx.Texture {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.bound
}

// PendingErrors returns the number of queued error codes.
func (c *Context) PendingErrors() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.errors)
}

// GetError pops the next queued error.
func (c *Context) GetError() gfx.Enum {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.calls = append(c.calls, Call{Op: OpGetError})
	if len(c.errors) == 0 {
		return gfx.NoError
	}
	code := c.errors[0]
	c.errors = c.errors[1:]
	return code
}

// GenTextures hands out n handles.
func (c *Context) GenTextures(n int) []gfx.Texture {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.live == nil {
		c.live = map[gfx.Texture]bool{}
	}
	if c.limit > 0 && n > c.limit {
		n = c.limit
	}
	textures := make([]gfx.Texture, n)
	for idx := range textures {
		if c.fail[c.gen] {
			c.gen++
			continue
		}
		c.gen++
		c.next++
		textures[idx] = c.next
		c.live[c.next] = true
	}
	c.calls = append(c.calls, Call{Op: OpGenTextures, Textures: append([]gfx.Texture(nil), textures...)})
	return textures
}

// DeleteTextures forgets the given handles.
func (c *Context) DeleteTextures(textures ...gfx.Texture) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for _, t := range textures {
		delete(c.live, t)
		if c.bound == t {
			c.bound = 0
		}
	}
	c.calls = append(c.calls, Call{Op: OpDeleteTextures, Textures: append([]gfx.Texture(nil), textures...)})
}

// BindTexture records the binding.
func (c *Context) BindTexture(target gfx.Enum, t gfx.Texture) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if target == gfx.Texture2D {
		c.bound = t
	}
	c.calls = append(c.calls, Call{Op: OpBindTexture, Target: target, Texture: t})
}

// TexParameteri records the parameter against the bound texture.
func (c *Context) TexParameteri(target, pname gfx.Enum, param int32) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.calls = append(c.calls, Call{Op: OpTexParameteri, Target: target, Texture: c.bound, Pname: pname, Param: param})
}

// TexImage2D records the upload against the bound texture.
func (c *Context) TexImage2D(target gfx.Enum, level int32, img *image.RGBA) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.calls = append(c.calls, Call{Op: OpTexImage2D, Target: target, Texture: c.bound, Level: level, Bounds: img.Bounds()})
}
