/*
 * trackfile.go, part of goPart.
 *
 * Copyright 2024 The goPart authors
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

//Package trackfile reads and writes the compressed container used to store
//converted particle runs, meshes and per-site field maps. The payload is
//gob-encoded behind a compressor chosen from the last letter of the file
//name: f or s for zstd, z for gzip, r for flate, l for lzw, anything else
//zstd. The canonical extension is .tsf.
package trackfile

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/lzw"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	part "github.com/sepamod/gopart"
	"gonum.org/v1/gonum/mat"
)

const (
	magic         = "GOPART"
	formatVersion = 1

	lzwLitwidth int = 8
)

//Container kinds.
const (
	KindTracks = "tracks"
	KindMesh   = "mesh"
	KindFields = "fields"
)

type header struct {
	Magic   string
	Version int
	Kind    string
}

//This will cause additional indirections but I suppose it won't matter, as
//each call will take enough time to make those delays irrelevant.
//Also, why couldn't *zstd.Decoder implement io.ReadCloser? :-(
type stdql struct {
	closeql func()
	*zstd.Decoder
}

//Close closes the object. It can not be used after this call.
func (s stdql) Close() error {
	s.closeql()
	return nil
}

func newCompressor(name string, f io.Writer) (io.WriteCloser, error) {
	zwriter := func(a io.Writer) (io.WriteCloser, error) { return flate.NewWriter(a, flate.BestCompression) }
	gzipwriter := func(a io.Writer) (io.WriteCloser, error) { return gzip.NewWriterLevel(a, gzip.BestCompression) }
	zstdwriter := func(a io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(a, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}
	var anyNewWriter func(io.Writer) (io.WriteCloser, error)
	switch strings.ToLower(name)[len(name)-1] {
	case 'l':
		anyNewWriter = func(a io.Writer) (io.WriteCloser, error) { return lzw.NewWriter(a, lzw.MSB, lzwLitwidth), nil }
	case 'f':
		anyNewWriter = zstdwriter
	case 'z':
		anyNewWriter = gzipwriter
	case 's':
		anyNewWriter = zstdwriter
	case 'r':
		anyNewWriter = zwriter
	default:
		anyNewWriter = zstdwriter
	}
	return anyNewWriter(f)
}

func newDecompressor(name string, f io.Reader) (io.ReadCloser, error) {
	zreader := func(a io.Reader) (io.ReadCloser, error) { return flate.NewReader(a), nil }
	zstdreader := func(a io.Reader) (io.ReadCloser, error) {
		r, err := zstd.NewReader(a)
		if err != nil {
			return nil, err
		}
		return &stdql{r.Close, r}, nil
	}
	gzreader := func(a io.Reader) (io.ReadCloser, error) { return gzip.NewReader(a) }
	var anyNewReader func(io.Reader) (io.ReadCloser, error)
	switch strings.ToLower(name)[len(name)-1] {
	case 'l':
		anyNewReader = func(a io.Reader) (io.ReadCloser, error) { return lzw.NewReader(a, lzw.MSB, lzwLitwidth), nil }
	case 'f':
		anyNewReader = zstdreader
	case 'z':
		anyNewReader = gzreader
	case 's':
		anyNewReader = zstdreader
	case 'r':
		anyNewReader = zreader
	default:
		anyNewReader = zstdreader
	}
	return anyNewReader(f)
}

//save encodes a header plus one payload into a fresh file.
func save(name, kind string, payload interface{}) error {
	f, err := os.Create(name)
	if err != nil {
		return Error{UnableToOpen + ": " + err.Error(), name, []string{"save"}, true}
	}
	defer f.Close()
	b := bufio.NewWriter(f)
	h, err := newCompressor(name, b)
	if err != nil {
		return Error{err.Error(), name, []string{"save"}, true}
	}
	enc := gob.NewEncoder(h)
	if err := enc.Encode(header{magic, formatVersion, kind}); err != nil {
		return Error{err.Error(), name, []string{"save"}, true}
	}
	if err := enc.Encode(payload); err != nil {
		return Error{err.Error(), name, []string{"save"}, true}
	}
	if err := h.Close(); err != nil {
		return Error{err.Error(), name, []string{"save"}, true}
	}
	return b.Flush()
}

//load decodes a file of the expected kind into payload.
func load(name, kind string, payload interface{}) error {
	f, err := os.Open(name)
	if err != nil {
		return Error{UnableToOpen + ": " + err.Error(), name, []string{"load"}, true}
	}
	defer f.Close()
	h, err := newDecompressor(name, bufio.NewReader(f))
	if err != nil {
		return Error{err.Error(), name, []string{"load"}, true}
	}
	defer h.Close()
	dec := gob.NewDecoder(h)
	var hd header
	if err := dec.Decode(&hd); err != nil {
		return Error{WrongFormat + ": " + err.Error(), name, []string{"load"}, true}
	}
	if hd.Magic != magic {
		return Error{WrongFormat, name, []string{"load"}, true}
	}
	if hd.Version > formatVersion {
		return Error{fmt.Sprintf("%s: file version %d, library version %d", VersionTooNew, hd.Version, formatVersion), name, []string{"load"}, true}
	}
	if hd.Kind != kind {
		return Error{fmt.Sprintf("%s: file holds %q, caller wants %q", WrongKind, hd.Kind, kind), name, []string{"load"}, true}
	}
	if err := dec.Decode(payload); err != nil {
		return Error{WrongFormat + ": " + err.Error(), name, []string{"load"}, true}
	}
	return nil
}

//Kind returns the container kind of a stored file without decoding its payload.
func Kind(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", Error{UnableToOpen + ": " + err.Error(), name, []string{"Kind"}, true}
	}
	defer f.Close()
	h, err := newDecompressor(name, bufio.NewReader(f))
	if err != nil {
		return "", Error{err.Error(), name, []string{"Kind"}, true}
	}
	defer h.Close()
	var hd header
	if err := gob.NewDecoder(h).Decode(&hd); err != nil || hd.Magic != magic {
		return "", Error{WrongFormat, name, []string{"Kind"}, true}
	}
	return hd.Kind, nil
}

//denseData returns the row-major data of a matrix, copying only when the
//matrix is a view with padding.
func denseData(m *mat.Dense) []float64 {
	raw := m.RawMatrix()
	if raw.Stride == raw.Cols {
		return raw.Data
	}
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		out = append(out, mat.Row(nil, i, m)...)
	}
	return out
}

//Errors

//errDecorate is a helper function that asserts that the error implements part.Error and
//decorates the error with the caller's name before returning it. If used with a
//non-part.Error error, it will cause a panic.
func errDecorate(err error, caller string) error {
	err2 := err.(part.Error)
	err2.Decorate(caller)
	return err2
}

// Error is the general structure for track-file errors. It fulfills part.Error
// and part.FileError.
type Error struct {
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("track file %s error: %s", err.filename, err.message)
}

//Decorate adds new information to the error.
func (err Error) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the receiver,
	//it should work, since err.deco is a slice, and hence a pointer itself.
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file associated to the error.
func (err Error) FileName() string { return err.filename }

//Format returns the format of the file associated to the error (always "tsf").
func (err Error) Format() string { return "tsf" }

//Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

const (
	UnableToOpen  = "Unable to open file"
	WrongFormat   = "Wrong format in the track file"
	WrongKind     = "Wrong container kind"
	VersionTooNew = "File written by a newer library version"
	NilData       = "Given nil data"
)
