// This file is part of vm-bytecode - https://github.com/kohazen/vm-bytecode
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
// Copyright 2026 The vm-bytecode Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package bvi - or bytecode-vm-internal with some commonly used stuff.
package bvi

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// ErrWriter is a simple wrapper to track io errors. Write will keep returning
// the last error over and over.
type ErrWriter struct {
	w   io.Writer
	Err error
}

func (w *ErrWriter) Write(p []byte) (n int, err error) {
	if w.Err != nil {
		return 0, w.Err
	}
	n, err = w.w.Write(p)
	if err != nil {
		w.Err = errors.Wrap(err, "write failed")
	}
	return n, w.Err
}

// Print writes s and returns the sticky error.
func (w *ErrWriter) Print(s string) error {
	io.WriteString(w, s)
	return w.Err
}

// Printf formats according to a format specifier and writes the result.
func (w *ErrWriter) Printf(format string, args ...interface{}) error {
	fmt.Fprintf(w, format, args...)
	return w.Err
}

// Ints writes a space separated list of the given values.
func Ints[T ~int32 | ~int](w *ErrWriter, a []T) error {
	for i, v := range a {
		if i > 0 {
			w.Write([]byte{' '})
		}
		io.WriteString(w, strconv.Itoa(int(v)))
	}
	return w.Err
}

// NewErrWriter returns a new ErrWriter. If w already is an *ErrWriter, it is
// returned as is.
func NewErrWriter(w io.Writer) *ErrWriter {
	if ew, ok := w.(*ErrWriter); ok {
		return ew
	}
	return &ErrWriter{w, nil}
}
