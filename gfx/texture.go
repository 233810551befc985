// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

// UploadTextures creates one 2D texture per image, in order, with
// nearest filtering and the pixels uploaded at mip level 0. The last
// texture is left bound. If any handle comes back zero, every handle
// granted for the batch is released and ErrTextureAllocation is returned.
func (u *Utility) UploadTextures(ctx Context, images []image.Image) ([]Texture, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	textures := ctx.GenTextures(len(images))
	if len(textures) != len(images) {
		u.DeleteTextures(ctx, textures)
		return nil, fmt.Errorf("%w: requested %d, got %d", ErrTextureAllocation, len(images), len(textures))
	}
	for idx, t := range textures {
		if t == 0 {
			u.DeleteTextures(ctx, textures)
			return nil, fmt.Errorf("%w: image %d", ErrTextureAllocation, idx)
		}
	}

	for idx, t := range textures {
		ctx.BindTexture(Texture2D, t)
		ctx.TexParameteri(Texture2D, TextureMinFilter, int32(Nearest))
		ctx.TexParameteri(Texture2D, TextureMagFilter, int32(Nearest))
		ctx.TexImage2D(Texture2D, 0, Pixels(images[idx], u.maxTextureSize()))
	}

	u.logger().WithField("count", len(textures)).Debug("textures uploaded")
	return textures, nil
}

// DeleteTextures releases textures, skipping zero handles.
func (u *Utility) DeleteTextures(ctx Context, textures []Texture) {
	live := make([]Texture, 0, len(textures))
	for _, t := range textures {
		if t != 0 {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return
	}
	ctx.DeleteTextures(live...)
	u.logger().WithFields(logrus.Fields{
		"count": len(live),
	}).Debug("textures released")
}

func (u *Utility) maxTextureSize() int {
	if u == nil {
		return 0
	}
	return u.MaxTextureSize
}

// Pixels transforms img into a tightly packed RGBA image with a zero
// origin, the layout texture uploads expect. Images whose larger side
// exceeds maxSize are scaled down with nearest neighbour sampling,
// keeping the aspect ratio. A maxSize of zero or less disables scaling.
func Pixels(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			h = max(1, h*maxSize/w)
			w = maxSize
		} else {
			w = max(1, w*maxSize/h)
			h = maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	}

	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*w {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
