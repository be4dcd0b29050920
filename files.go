/*
 * files.go, part of govasp.
 *
 * Copyright 2024 The govasp Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package vasp

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// VASP runs are often archived compressed, so every file in this package
// is read and written through these helpers, which choose a codec
// from the name suffix.

const (
	gzSuffix   = ".gz"
	zstdSuffix = ".zst"
)

// trimCompression returns name without a compression suffix.
func trimCompression(name string) string {
	for _, s := range []string{gzSuffix, zstdSuffix} {
		if strings.HasSuffix(strings.ToLower(name), s) {
			return name[:len(name)-len(s)]
		}
	}
	return name
}

// readCloser closes the decompressor and then the file under it.
type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var err error
	for _, c := range r.closers {
		if e := c(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// openInput opens name for reading, decompressing on the fly if needed.
func openInput(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, gzSuffix):
		gz, err := gzip.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, err
		}
		return &readCloser{gz, []func() error{gz.Close, f.Close}}, nil
	case strings.HasSuffix(lower, zstdSuffix):
		zr, err := zstd.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, err
		}
		//*zstd.Decoder.Close returns nothing.
		zclose := func() error { zr.Close(); return nil }
		return &readCloser{zr, []func() error{zclose, f.Close}}, nil
	default:
		return f, nil
	}
}

// writeCloser flushes the compressor and then closes the file under it.
type writeCloser struct {
	io.Writer
	closers []func() error
}

func (w *writeCloser) Close() error {
	var err error
	for _, c := range w.closers {
		if e := c(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// createOutput creates name for writing, compressing if the suffix asks for it.
func createOutput(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, gzSuffix):
		gz, err := gzip.NewWriterLevel(f, gzip.BestCompression)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &writeCloser{gz, []func() error{gz.Close, f.Close}}, nil
	case strings.HasSuffix(lower, zstdSuffix):
		zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			f.Close()
			return nil, err
		}
		return &writeCloser{zw, []func() error{zw.Close, f.Close}}, nil
	default:
		return f, nil
	}
}

// readLines returns all the lines in name, without line terminators.
func readLines(name string) ([]string, error) {
	r, err := openInput(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	lines := make([]string, 0, 1024)
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// isAbsent is true for errors that mean that a file is not there.
func isAbsent(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
