// Package ply decodes PLY (Polygon File Format) meshes and point clouds.
//
// Decoding happens in two layers. ParseHeader reads the text header,
// then DecodeASCII or DecodeBinary turns the body into a Document of
// index-addressed records. BuildGeometry is a separate, pure reduction
// from a Document to flat positions, normals, colors and triangle indices.
package ply

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Option configures decoding.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	charset string
}

func newOptions(opts []Option) *options {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger routes non-fatal header diagnostics to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCommentCharset decodes comment and obj_info lines from the named
// charset (see pkg/encoding). The header length is unaffected.
func WithCommentCharset(name string) Option {
	return func(o *options) {
		o.charset = name
	}
}

// Result is the outcome of Decode. Geometry is only set for ASCII input;
// for binary input callers interpret Document themselves or call
// BuildGeometry.
type Result struct {
	Header   *Header
	Document *Document
	Geometry *Geometry
}

// Decode parses a complete PLY file held in memory. data is not retained.
func Decode(data []byte, opts ...Option) (*Result, error) {
	o := newOptions(opts)

	h, err := ParseHeader(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing header: %w", err)
	}

	if h.Format.IsBinary() {
		doc, err := DecodeBinary(data, h)
		if err != nil {
			return nil, fmt.Errorf("decoding binary body: %w", err)
		}
		o.logger.Debug("decoded binary PLY",
			zap.String("format", string(h.Format)),
			zap.Int("elements", len(doc.Elements)))
		return &Result{Header: h, Document: doc}, nil
	}

	doc, err := DecodeASCII(data, h)
	if err != nil {
		return nil, fmt.Errorf("decoding ascii body: %w", err)
	}
	geom, err := BuildGeometry(doc)
	if err != nil {
		return nil, fmt.Errorf("building geometry: %w", err)
	}
	o.logger.Debug("decoded ascii PLY",
		zap.Int("vertices", geom.VertexCount()),
		zap.Int("triangles", geom.TriangleCount()))

	return &Result{Header: h, Document: doc, Geometry: geom}, nil
}

// DecodeDocument parses data into a Document regardless of body format.
func DecodeDocument(data []byte, opts ...Option) (*Document, error) {
	h, err := ParseHeader(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing header: %w", err)
	}
	if h.Format.IsBinary() {
		return DecodeBinary(data, h)
	}
	return DecodeASCII(data, h)
}

// DecodeGeometry parses data and reduces it to a Geometry for either
// body format.
func DecodeGeometry(data []byte, opts ...Option) (*Geometry, error) {
	doc, err := DecodeDocument(data, opts...)
	if err != nil {
		return nil, err
	}
	return BuildGeometry(doc)
}

// Load reads and decodes a PLY file from disk.
func Load(path string, opts ...Option) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading PLY file: %w", err)
	}
	return Decode(data, opts...)
}
