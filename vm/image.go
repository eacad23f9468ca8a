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

package vm

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Bytecode file format constants.
const (
	Magic   uint32 = 0xCAFEBABE
	Version uint32 = 0x00000001

	// HeaderSize is the size in bytes of the file header.
	HeaderSize = 12

	// MaxImageSize is the largest code size accepted by ReadImage.
	MaxImageSize = 1 << 24
)

// Image file errors.
var (
	ErrBadMagic     = errors.New("invalid bytecode file (bad magic number)")
	ErrBadVersion   = errors.New("unsupported bytecode version")
	ErrEmptyCode    = errors.New("bytecode file has no code")
	ErrCodeTooLarge = errors.New("bytecode too large")
)

// Header is the fixed size header at the start of a bytecode file. All
// fields are stored little-endian.
type Header struct {
	Magic    uint32
	Version  uint32
	CodeSize uint32
}

// WriteImage writes the file header followed by code to w.
func WriteImage(w io.Writer, code []byte) error {
	if len(code) > MaxImageSize {
		return errors.Wrapf(ErrCodeTooLarge, "%d bytes", len(code))
	}
	h := Header{Magic, Version, uint32(len(code))}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return errors.Wrap(err, "header write failed")
	}
	if _, err := w.Write(code); err != nil {
		return errors.Wrap(err, "code write failed")
	}
	return nil
}

// ReadImage reads and validates a bytecode header from r, then reads exactly
// the number of code bytes it declares. The returned slice is a fresh
// allocation owned by the caller.
func ReadImage(r io.Reader) ([]byte, error) {
	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrap(err, "header read failed")
	}
	switch {
	case h.Magic != Magic:
		return nil, errors.Wrapf(ErrBadMagic, "got 0x%08X, expected 0x%08X", h.Magic, Magic)
	case h.Version != Version:
		return nil, errors.Wrapf(ErrBadVersion, "got %d, expected %d", h.Version, Version)
	case h.CodeSize == 0:
		return nil, ErrEmptyCode
	case h.CodeSize > MaxImageSize:
		return nil, errors.Wrapf(ErrCodeTooLarge, "%d bytes", h.CodeSize)
	}
	code := make([]byte, h.CodeSize)
	if n, err := io.ReadFull(r, code); err != nil {
		return nil, errors.Wrapf(err, "expected %d bytes of code, read %d", h.CodeSize, n)
	}
	return code, nil
}

// Load loads a bytecode file.
func Load(fileName string) ([]byte, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "open failed")
	}
	defer f.Close()
	code, err := ReadImage(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrap(err, fileName)
	}
	return code, nil
}

// Save writes code to a bytecode file. The file is removed if any write
// fails.
func Save(fileName string, code []byte) (err error) {
	f, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "create failed")
	}
	w := bufio.NewWriter(f)
	defer func() {
		if ferr := w.Flush(); err == nil && ferr != nil {
			err = errors.Wrap(ferr, "write failed")
		}
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "close failed")
		}
		// delete file on error
		if err != nil {
			os.Remove(fileName)
		}
	}()
	return WriteImage(w, code)
}
