package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestCompressListExtract(t *testing.T) {
	c := qt.New(t)
	root, err := ioutil.TempDir("", "karcmd")
	c.Assert(err, qt.IsNil)
	defer os.RemoveAll(root)

	src := filepath.Join(root, "assets")
	files := map[string]string{
		"shaders/frame.vert": "void main() {}\n",
		"frames/0001.png":    "\x89PNG fake",
	}
	for name, content := range files {
		path := filepath.Join(src, filepath.FromSlash(name))
		c.Assert(os.MkdirAll(filepath.Dir(path), 0755), qt.IsNil)
		c.Assert(ioutil.WriteFile(path, []byte(content), 0644), qt.IsNil)
	}

	archive := filepath.Join(root, "assets.kar")
	c.Assert(compressFiles(src, archive), qt.IsNil)
	c.Assert(compressFiles(src, archive), qt.ErrorMatches, "destination file exists, will not overwrite")

	var listing bytes.Buffer
	c.Assert(listFiles(archive, &listing), qt.IsNil)
	c.Assert(listing.String(), qt.Contains, "shaders/frame.vert")
	c.Assert(listing.String(), qt.Contains, "frames/0001.png")

	out := filepath.Join(root, "out")
	c.Assert(extractFiles(archive, out), qt.IsNil)
	for name, content := range files {
		got, err := ioutil.ReadFile(filepath.Join(out, filepath.FromSlash(name)))
		c.Assert(err, qt.IsNil)
		c.Assert(string(got), qt.Equals, content)
	}

	c.Assert(extractFiles(archive, out), qt.ErrorMatches, ".* exists, will not overwrite")
}
