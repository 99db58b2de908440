package ply

import (
	"encoding/binary"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/plyview/pkg/encoding"
)

// Format is the body encoding declared by the header's format line.
type Format string

// Supported body formats.
const (
	FormatASCII    Format = "ascii"
	FormatBinaryLE Format = "binary_little_endian"
	FormatBinaryBE Format = "binary_big_endian"
)

// headerPattern matches from the first "ply" keyword through the first line
// that starts with end_header. Running it over bytes keeps match offsets in
// bytes.
var headerPattern = regexp.MustCompile(`(?s)ply(.*?)(?m:^)end_header\r?\n`)

// IsBinary reports whether the body is fixed-width binary.
func (f Format) IsBinary() bool {
	return f == FormatBinaryLE || f == FormatBinaryBE
}

// ByteOrder returns the byte order of a binary body. Everything except
// binary_big_endian is read little-endian.
func (f Format) ByteOrder() binary.ByteOrder {
	if f == FormatBinaryBE {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Property describes one field of an element record. List properties
// carry the kind of their length prefix in CountKind; for scalars
// CountKind is KindInvalid.
type Property struct {
	Name      string
	Kind      Kind
	IsList    bool
	CountKind Kind
}

// String renders the property the way it is written in a header.
func (p Property) String() string {
	if p.IsList {
		return fmt.Sprintf("property list %s %s %s", p.CountKind, p.Kind, p.Name)
	}
	return fmt.Sprintf("property %s %s", p.Kind, p.Name)
}

// Element is a named, counted group of records sharing one property layout.
type Element struct {
	Name       string
	Count      int
	Properties []Property
}

// Header is the parsed text header of a PLY file.
type Header struct {
	Format  Format
	Version string

	// Comments and ObjInfo hold whole lines, keyword included. They are
	// kept byte for byte unless a comment charset is configured.
	Comments []string
	ObjInfo  []string

	Elements []Element

	// Length is the byte offset immediately after the end_header line,
	// i.e. where the body starts.
	Length int
}

// Element returns the named element declaration, or nil.
func (h *Header) Element(name string) *Element {
	for i := range h.Elements {
		if h.Elements[i].Name == name {
			return &h.Elements[i]
		}
	}
	return nil
}

// ParseHeader scans the leading text of data up to and including the
// end_header line.
func ParseHeader(data []byte, opts ...Option) (*Header, error) {
	o := newOptions(opts)

	loc := headerPattern.FindSubmatchIndex(data)
	if loc == nil {
		return nil, ErrMissingEndHeader
	}

	h := &Header{
		Comments: []string{},
		Elements: []Element{},
		Length:   loc[1],
	}

	text := string(data[loc[2]:loc[3]])
	var current *Element

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimRight(raw, "\r")
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "format":
			if len(fields) < 2 {
				return nil, fmt.Errorf("%w: line %d: %q", ErrUnsupportedFormat, lineNo, line)
			}
			switch f := Format(fields[1]); f {
			case FormatASCII, FormatBinaryLE, FormatBinaryBE:
				h.Format = f
			default:
				return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, fields[1])
			}
			if len(fields) > 2 {
				h.Version = fields[2]
			}

		case "comment":
			comment, err := o.decodeText(line)
			if err != nil {
				return nil, fmt.Errorf("decoding comment on line %d: %w", lineNo, err)
			}
			h.Comments = append(h.Comments, comment)

		case "obj_info":
			info, err := o.decodeText(line)
			if err != nil {
				return nil, fmt.Errorf("decoding obj_info on line %d: %w", lineNo, err)
			}
			h.ObjInfo = append(h.ObjInfo, info)

		case "element":
			if len(fields) != 3 {
				return nil, fmt.Errorf("%w: line %d: %q", ErrInvalidElement, lineNo, line)
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: line %d: bad count %q", ErrInvalidElement, lineNo, fields[2])
			}
			if current != nil {
				h.Elements = append(h.Elements, *current)
			}
			current = &Element{Name: fields[1], Count: count, Properties: []Property{}}

		case "property":
			if current == nil {
				return nil, fmt.Errorf("%w: line %d: %q", ErrPropertyOutsideElement, lineNo, line)
			}
			prop, err := parseProperty(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			current.Properties = append(current.Properties, prop)

		default:
			o.logger.Warn("unhandled header directive",
				zap.String("directive", fields[0]),
				zap.Int("line", lineNo))
		}
	}

	if current != nil {
		h.Elements = append(h.Elements, *current)
	}

	if h.Format == "" {
		return nil, ErrMissingFormat
	}

	return h, nil
}

// parseProperty parses the fields of a property line, "property" included.
func parseProperty(fields []string) (Property, error) {
	if len(fields) >= 2 && fields[1] == "list" {
		if len(fields) != 5 {
			return Property{}, fmt.Errorf("%w: %q", ErrInvalidProperty, strings.Join(fields, " "))
		}
		if fields[3] == "list" {
			return Property{}, fmt.Errorf("%w: nested list %q", ErrInvalidProperty, fields[4])
		}
		countKind, err := ParseKind(fields[2])
		if err != nil {
			return Property{}, err
		}
		if !countKind.IsInteger() {
			return Property{}, fmt.Errorf("%w: list count type %s is not an integer", ErrInvalidProperty, countKind)
		}
		itemKind, err := ParseKind(fields[3])
		if err != nil {
			return Property{}, err
		}
		return Property{Name: fields[4], Kind: itemKind, IsList: true, CountKind: countKind}, nil
	}

	if len(fields) != 3 {
		return Property{}, fmt.Errorf("%w: %q", ErrInvalidProperty, strings.Join(fields, " "))
	}
	kind, err := ParseKind(fields[1])
	if err != nil {
		return Property{}, err
	}
	return Property{Name: fields[2], Kind: kind}, nil
}

func (o *options) decodeText(line string) (string, error) {
	if o.charset == "" {
		return line, nil
	}
	return encoding.Decode([]byte(line), o.charset)
}
