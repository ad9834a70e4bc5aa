// Package bundle implements the tagged binary wire format for a
// CoreBundle (§4.6): a fixed header followed by the tagged encoding of
// its root CoreTerm, with all strings interned into a single table in
// first-use order for byte-for-byte canonical output.
package bundle

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sunholo/axiscore/internal/core"
	axerrors "github.com/sunholo/axiscore/internal/errors"
)

var magic = [8]byte{'A', 'X', 'I', 'S', 'I', 'R', 0, 0}

const version = "0.1"

// Error is a structured bundle failure.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

// stringTable interns strings in first-use order, which is what makes two
// encodings of an equal CoreBundle byte-identical.
type stringTable struct {
	index map[string]uint32
	order []string
}

func newStringTable() *stringTable {
	return &stringTable{index: make(map[string]uint32)}
}

func (t *stringTable) intern(s string) uint32 {
	if i, ok := t.index[s]; ok {
		return i
	}
	i := uint32(len(t.order))
	t.index[s] = i
	t.order = append(t.order, s)
	return i
}

// Encode renders b as its canonical binary form.
func Encode(b *core.CoreBundle) ([]byte, error) {
	st := newStringTable()
	entrypointIdx := st.intern(b.EntrypointName)

	var body bytes.Buffer
	if err := encodeTerm(&body, b.Root, st); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Write(magic[:])
	writeString(&out, version)
	writeString(&out, b.EntrypointName)
	writeU32(&out, entrypointIdx)
	writeU32(&out, uint32(len(st.order)))
	for _, s := range st.order {
		writeString(&out, s)
	}
	out.Write(body.Bytes())

	return out.Bytes(), nil
}

// Write encodes b and writes it atomically to path: a temporary sibling
// file is written first and renamed into place, so a crash mid-write
// never leaves a truncated bundle at path. Any failure removes the
// partial temp file.
func Write(path string, b *core.CoreBundle) error {
	data, err := Encode(b)
	if err != nil {
		return &Error{Code: axerrors.BND003, Message: err.Error()}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".bundle-*.tmp")
	if err != nil {
		return &Error{Code: axerrors.BND003, Message: fmt.Sprintf("cannot create temp file: %v", err)}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &Error{Code: axerrors.BND003, Message: fmt.Sprintf("write failed: %v", err)}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &Error{Code: axerrors.BND003, Message: fmt.Sprintf("close failed: %v", err)}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &Error{Code: axerrors.BND003, Message: fmt.Sprintf("rename failed: %v", err)}
	}
	return nil
}

// Read loads and decodes the bundle at path.
func Read(path string) (*core.CoreBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Code: axerrors.IO001, Message: err.Error()}
	}
	return Decode(data)
}

// Decode parses data into a CoreBundle, rejecting any unsupported major
// version or truncated payload.
func Decode(data []byte) (*core.CoreBundle, error) {
	r := bytes.NewReader(data)

	var gotMagic [8]byte
	if _, err := r.Read(gotMagic[:]); err != nil || gotMagic != magic {
		return nil, &Error{Code: axerrors.BND002, Message: "bad magic header"}
	}

	ver, err := readString(r)
	if err != nil {
		return nil, &Error{Code: axerrors.BND002, Message: "truncated version string"}
	}
	if majorVersion(ver) != majorVersion(version) {
		return nil, &Error{Code: axerrors.BND001, Message: fmt.Sprintf("unsupported bundle version %q", ver)}
	}

	entrypointName, err := readString(r)
	if err != nil {
		return nil, &Error{Code: axerrors.BND002, Message: "truncated entrypoint name"}
	}
	if _, err := readU32(r); err != nil { // entrypoint_id, unused on read-back
		return nil, &Error{Code: axerrors.BND002, Message: "truncated entrypoint id"}
	}

	count, err := readU32(r)
	if err != nil {
		return nil, &Error{Code: axerrors.BND002, Message: "truncated string table count"}
	}
	table := make([]string, count)
	for i := range table {
		s, err := readString(r)
		if err != nil {
			return nil, &Error{Code: axerrors.BND002, Message: "truncated string table entry"}
		}
		table[i] = s
	}

	root, err := decodeTerm(r, table)
	if err != nil {
		return nil, err
	}

	return &core.CoreBundle{Version: ver, EntrypointName: entrypointName, Root: root}, nil
}

func majorVersion(v string) string {
	for i, r := range v {
		if r == '.' {
			return v[:i]
		}
	}
	return v
}

func writeU32(w *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func writeI64(w *bytes.Buffer, v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	w.Write(b[:])
}

func writeString(w *bytes.Buffer, s string) {
	writeU32(w, uint32(len(s)))
	w.WriteString(s)
}

func writeSpan(w *bytes.Buffer, sp core.Span, st *stringTable) {
	writeU32(w, st.intern(sp.File))
	writeU32(w, uint32(sp.Line))
	writeU32(w, uint32(sp.Column))
}

func readU32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readI64(r *bytes.Reader) (int64, error) {
	var b [8]byte
	if _, err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := readFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func readSpan(r *bytes.Reader, table []string) (core.Span, error) {
	fi, err := readU32(r)
	if err != nil {
		return core.Span{}, err
	}
	line, err := readU32(r)
	if err != nil {
		return core.Span{}, err
	}
	col, err := readU32(r)
	if err != nil {
		return core.Span{}, err
	}
	file := ""
	if int(fi) < len(table) {
		file = table[fi]
	}
	return core.Span{File: file, Line: int(line), Column: int(col)}, nil
}

func readFull(r *bytes.Reader, b []byte) (int, error) {
	n := 0
	for n < len(b) {
		m, err := r.Read(b[n:])
		n += m
		if err != nil {
			return n, err
		}
		if m == 0 {
			return n, fmt.Errorf("unexpected EOF")
		}
	}
	return n, nil
}
