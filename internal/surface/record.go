package surface

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"routeviz/internal/projection"
	"routeviz/internal/scene"
)

// Document is the serialised form of one pass.
type Document struct {
	Viewport projection.Viewport `json:"viewport" msgpack:"viewport"`
	Commands []scene.Command     `json:"commands" msgpack:"commands"`
}

// Recorder keeps the commands of the last pass in memory.
type Recorder struct {
	doc Document
}

func (r *Recorder) Begin(vp projection.Viewport) {
	r.doc = Document{Viewport: vp}
}

func (r *Recorder) Draw(c scene.Command) {
	r.doc.Commands = append(r.doc.Commands, c)
}

func (r *Recorder) End() error { return nil }

func (r *Recorder) Document() Document {
	return Document{Viewport: r.doc.Viewport, Commands: slices.Clone(r.doc.Commands)}
}

// JSON records a pass and writes it as indented JSON on End.
type JSON struct {
	Recorder
	out io.Writer
}

func NewJSON(out io.Writer) *JSON { return &JSON{out: out} }

func (j *JSON) End() error { return WriteJSON(j.out, j.doc) }

// Msgpack records a pass and writes it as zstd-compressed msgpack on End.
type Msgpack struct {
	Recorder
	out io.Writer
}

func NewMsgpack(out io.Writer) *Msgpack { return &Msgpack{out: out} }

func (m *Msgpack) End() error { return WriteMsgpack(m.out, m.doc) }

func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// WriteMsgpack msgpack-encodes doc and compresses it with zstd.
func WriteMsgpack(w io.Writer, doc Document) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	if err := msgpack.NewEncoder(zw).Encode(doc); err != nil {
		zw.Close()
		return fmt.Errorf("msgpack encode: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("zstd close: %w", err)
	}
	return nil
}

// ReadMsgpack reverses WriteMsgpack.
func ReadMsgpack(r io.Reader) (Document, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return Document{}, fmt.Errorf("zstd reader: %w", err)
	}
	defer zr.Close()

	var doc Document
	if err := msgpack.NewDecoder(zr).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("msgpack decode: %w", err)
	}
	return doc, nil
}
