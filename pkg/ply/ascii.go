package ply

import (
	"fmt"
	"strconv"
	"strings"
)

// DecodeASCII decodes the records of an ASCII body. Each non-blank line
// after the header is one record of the current element; tokens are
// consumed left to right in property order. Tokens beyond the layout
// are ignored, as is anything after the last declared record.
func DecodeASCII(data []byte, h *Header) (*Document, error) {
	if h.Format != FormatASCII {
		return nil, fmt.Errorf("%w: %q is not ascii", ErrUnsupportedFormat, h.Format)
	}
	if h.Length <= 0 || h.Length > len(data) {
		return nil, fmt.Errorf("%w: header length %d", ErrMissingEndHeader, h.Length)
	}

	lines := strings.Split(string(data[h.Length:]), "\n")
	next := 0
	doc := newDocument(h)

	for _, el := range h.Elements {
		ed := ElementData{
			Name:       el.Name,
			Properties: el.Properties,
			Records:    make([]Record, 0, min(el.Count, len(lines))),
		}
		for i := 0; i < el.Count; i++ {
			var tokens []string
			for next < len(lines) && len(tokens) == 0 {
				tokens = strings.Fields(lines[next])
				next++
			}
			if len(tokens) == 0 {
				return nil, fmt.Errorf("element %q record %d: %w: body ended", el.Name, i, ErrTruncatedRecord)
			}

			rec, err := parseRecord(&el, tokens)
			if err != nil {
				return nil, fmt.Errorf("element %q record %d (line %d): %w", el.Name, i, next, err)
			}
			ed.Records = append(ed.Records, rec)
		}
		doc.Elements = append(doc.Elements, ed)
	}

	return doc, nil
}

func parseRecord(el *Element, tokens []string) (Record, error) {
	rec := make(Record, len(el.Properties))
	pos := 0
	take := func() (string, bool) {
		if pos >= len(tokens) {
			return "", false
		}
		pos++
		return tokens[pos-1], true
	}

	for j, p := range el.Properties {
		if !p.IsList {
			tok, ok := take()
			if !ok {
				return nil, fmt.Errorf("%w: missing property %q", ErrTruncatedRecord, p.Name)
			}
			v, err := parseToken(p.Kind, tok)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", p.Name, err)
			}
			rec[j].Scalar = v
			continue
		}

		tok, ok := take()
		if !ok {
			return nil, fmt.Errorf("%w: missing count of list %q", ErrTruncatedRecord, p.Name)
		}
		n, err := parseToken(p.CountKind, tok)
		if err != nil {
			return nil, fmt.Errorf("property %q count: %w", p.Name, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: property %q has %v items", ErrInvalidListCount, p.Name, n)
		}
		count := int(n)
		if count > len(tokens)-pos {
			return nil, fmt.Errorf("%w: list %q declares %d items, %d tokens left", ErrTruncatedRecord, p.Name, count, len(tokens)-pos)
		}

		list := make([]float64, count)
		for k := range list {
			tok, _ := take()
			if list[k], err = parseToken(p.Kind, tok); err != nil {
				return nil, fmt.Errorf("property %q item %d: %w", p.Name, k, err)
			}
		}
		rec[j].List = list
	}
	return rec, nil
}

// parseToken converts one ASCII token according to its declared kind.
func parseToken(k Kind, tok string) (float64, error) {
	var (
		v   float64
		err error
	)
	switch k {
	case KindInt8, KindInt16, KindInt32:
		var n int64
		n, err = strconv.ParseInt(tok, 10, k.Size()*8)
		v = float64(n)
	case KindUint8, KindUint16, KindUint32:
		var n uint64
		n, err = strconv.ParseUint(tok, 10, k.Size()*8)
		v = float64(n)
	case KindFloat32:
		v, err = strconv.ParseFloat(tok, 32)
	case KindFloat64:
		v, err = strconv.ParseFloat(tok, 64)
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownKind, k)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %q as %s", ErrInvalidValue, tok, k)
	}
	return v, nil
}
