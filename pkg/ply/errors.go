package ply

import "errors"

// Header errors.
var (
	ErrMissingEndHeader       = errors.New("missing end_header terminator")
	ErrMissingFormat          = errors.New("missing format line")
	ErrUnsupportedFormat      = errors.New("unsupported PLY format")
	ErrInvalidElement         = errors.New("invalid element declaration")
	ErrInvalidProperty        = errors.New("invalid property declaration")
	ErrPropertyOutsideElement = errors.New("property declared before any element")
	ErrUnknownKind            = errors.New("unknown numeric kind")
)

// Body errors.
var (
	ErrTruncatedRecord  = errors.New("truncated record")
	ErrInvalidValue     = errors.New("invalid value")
	ErrInvalidListCount = errors.New("invalid list count")
)

// Geometry errors.
var (
	ErrMissingVertexElement = errors.New("no vertex element")
	ErrMissingCoordinates   = errors.New("vertex element lacks x, y, z")
	ErrUnsupportedLayout    = errors.New("unsupported element layout")
	ErrShortFace            = errors.New("face has fewer than 3 indices")
	ErrIndexOutOfRange      = errors.New("face index out of range")
)
