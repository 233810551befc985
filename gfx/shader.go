// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	"bufio"
	"io"
	"strings"
)

// LoadShaderSource drains r and returns its text with every line,
// the last one included, terminated by a single newline. r is closed
// before returning. Read failures are logged and returned as *ShaderError.
func (u *Utility) LoadShaderSource(r io.ReadCloser) (string, error) {
	src, err := readLines(r)
	if cerr := r.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		u.logger().WithError(err).Error("could not read shader source")
		return "", &ShaderError{Err: err}
	}
	return src, nil
}

// readLines ends a line at LF, CR or CRLF.
func readLines(r io.Reader) (string, error) {
	var (
		sb      strings.Builder
		br      = bufio.NewReader(r)
		pending bool
	)
	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			if pending {
				sb.WriteByte('\n')
			}
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}

		switch c {
		case '\r':
			next, err := br.Peek(1)
			if err != nil && err != io.EOF {
				return "", err
			}
			if len(next) == 1 && next[0] == '\n' {
				br.ReadByte()
			}
			fallthrough
		case '\n':
			sb.WriteByte('\n')
			pending = false
		default:
			sb.WriteByte(c)
			pending = true
		}
	}
}
