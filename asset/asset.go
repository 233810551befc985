// Package asset provides the shader and frame sources the viewer reads
// from: plain directories, packr boxes and kar archives.
package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	// Decoders registered with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gobuffalo/packd"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/devblok/tellovr/asset/kar"
	"github.com/devblok/tellovr/gfx"
)

// package errors
var (
	ErrNotImage    = errors.New("asset is not a supported image")
	ErrNotListable = errors.New("asset source cannot list its content")
)

// Source is anything assets can be opened from by name.
type Source interface {
	Open(name string) (io.ReadCloser, error)
}

// Dir is a Source rooted at a directory on disk.
type Dir string

// Open implements Source.
func (d Dir) Open(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(string(d), filepath.FromSlash(name)))
}

// Box adapts a packr box, or any packd.Finder, to Source.
func Box(f packd.Finder) Source {
	return boxSource{finder: f}
}

type boxSource struct {
	finder packd.Finder
}

func (b boxSource) Open(name string) (io.ReadCloser, error) {
	data, err := b.finder.Find(name)
	if err != nil {
		return nil, err
	}
	return ioutil.NopCloser(bytes.NewReader(data)), nil
}

// Archive adapts a kar archive to Source.
func Archive(ar *kar.Archive) Source {
	return archiveSource{archive: ar}
}

type archiveSource struct {
	archive *kar.Archive
}

func (a archiveSource) Open(name string) (io.ReadCloser, error) {
	r, err := a.archive.Open(name)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (a archiveSource) Names() ([]string, error) {
	return a.archive.Names(), nil
}

func (b boxSource) Names() ([]string, error) {
	if l, ok := b.finder.(packd.Lister); ok {
		return l.List(), nil
	}
	return nil, ErrNotListable
}

// Names walks the directory and returns slash separated relative paths.
func (d Dir) Names() ([]string, error) {
	var names []string
	if err := filepath.Walk(string(d), func(path string, f os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if f.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(string(d), path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	}); err != nil {
		return nil, err
	}
	return names, nil
}

// Lister is implemented by sources that can enumerate their content.
type Lister interface {
	Names() ([]string, error)
}

// List returns the sorted names in src starting with prefix.
func List(src Source, prefix string) ([]string, error) {
	l, ok := src.(Lister)
	if !ok {
		return nil, ErrNotListable
	}
	all, err := l.Names()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, name := range all {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Open picks a Source for path: kar archives are memory mapped,
// anything else is treated as a directory. The returned closer
// releases the archive mapping.
func Open(path string) (Source, io.Closer, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	if info.IsDir() {
		return Dir(path), nopCloser{}, nil
	}
	ar, err := kar.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	return Archive(ar), ar, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// LoadShader opens name from src and reads it with u.LoadShaderSource.
func LoadShader(u *gfx.Utility, src Source, name string) (string, error) {
	r, err := src.Open(name)
	if err != nil {
		return "", fmt.Errorf("open shader %q: %w", name, err)
	}
	return u.LoadShaderSource(r)
}

// DecodeImage sniffs the content of r and decodes it. Content that is
// not an image, or an image format without a decoder, yields ErrNotImage.
func DecodeImage(r io.Reader) (image.Image, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return nil, ErrNotImage
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err == image.ErrFormat {
		// sniffed as an image, but no decoder is registered for it
		return nil, ErrNotImage
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind.MIME.Value, err)
	}
	return img, nil
}

// LoadImages decodes the named images from src, in order.
func LoadImages(src Source, names ...string) ([]image.Image, error) {
	images := make([]image.Image, 0, len(names))
	for _, name := range names {
		img, err := loadImage(src, name)
		if err != nil {
			return nil, fmt.Errorf("load image %q: %w", name, err)
		}
		images = append(images, img)
	}
	return images, nil
}

func loadImage(src Source, name string) (image.Image, error) {
	r, err := src.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return DecodeImage(r)
}
