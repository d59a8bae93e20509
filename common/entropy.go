// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// FileReader is an entropy source backed by a device or file such as /dev/urandom.
// Every Read opens the path, fills p completely and closes the handle before returning.
type FileReader struct {
	Path string
}

var _ io.Reader = (*FileReader)(nil)

func NewFileReader(path string) *FileReader {
	return &FileReader{Path: path}
}

// Read returns n == len(p) if and only if err == nil.
func (r *FileReader) Read(p []byte) (n int, err error) {
	if r.Path == "" {
		return 0, errors.Wrap(ErrEntropy, "no entropy path was provided")
	}
	f, err := os.Open(r.Path)
	if err != nil {
		return 0, errors.Wrapf(ErrEntropy, "open %s: %v", r.Path, err)
	}
	defer f.Close()

	n, err = io.ReadFull(f, p)
	if err != nil {
		return n, errors.Wrapf(ErrEntropy, "read %s: %v", r.Path, err)
	}
	return n, nil
}
