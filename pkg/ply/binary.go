package ply

import (
	"encoding/binary"
	"fmt"
)

// cursor reads fixed-width values from a binary body. pos only moves forward.
type cursor struct {
	data  []byte
	pos   int
	order binary.ByteOrder
}

func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}

func (c *cursor) read(k Kind) (float64, error) {
	n := k.Size()
	if n == 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownKind, k)
	}
	if c.remaining() < n {
		return 0, ErrTruncatedRecord
	}
	v := k.decode(c.data[c.pos:c.pos+n], c.order)
	c.pos += n
	return v, nil
}

// DecodeBinary decodes the records of a binary body. The body starts at
// h.Length and elements are read in declaration order.
func DecodeBinary(data []byte, h *Header) (*Document, error) {
	if !h.Format.IsBinary() {
		return nil, fmt.Errorf("%w: %q is not binary", ErrUnsupportedFormat, h.Format)
	}
	if h.Length <= 0 || h.Length > len(data) {
		return nil, fmt.Errorf("%w: header length %d", ErrMissingEndHeader, h.Length)
	}

	c := &cursor{data: data, pos: h.Length, order: h.Format.ByteOrder()}
	doc := newDocument(h)

	for _, el := range h.Elements {
		// Records without properties consume no bytes, so nothing else bounds them.
		if len(el.Properties) == 0 && el.Count > c.remaining() {
			return nil, fmt.Errorf("%w: %q declares %d records without properties, %d bytes left",
				ErrInvalidElement, el.Name, el.Count, c.remaining())
		}
		ed := ElementData{
			Name:       el.Name,
			Properties: el.Properties,
			Records:    make([]Record, 0, recordCapacity(&el, c.remaining())),
		}
		for i := 0; i < el.Count; i++ {
			rec, err := c.readRecord(&el)
			if err != nil {
				return nil, fmt.Errorf("element %q record %d: %w", el.Name, i, err)
			}
			ed.Records = append(ed.Records, rec)
		}
		doc.Elements = append(doc.Elements, ed)
	}

	return doc, nil
}

func (c *cursor) readRecord(el *Element) (Record, error) {
	rec := make(Record, len(el.Properties))
	for j, p := range el.Properties {
		if !p.IsList {
			v, err := c.read(p.Kind)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", p.Name, err)
			}
			rec[j].Scalar = v
			continue
		}

		n, err := c.read(p.CountKind)
		if err != nil {
			return nil, fmt.Errorf("property %q count: %w", p.Name, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: property %q has %v items", ErrInvalidListCount, p.Name, n)
		}
		count := int(n)
		if size := p.Kind.Size(); size > 0 && count > c.remaining()/size {
			return nil, fmt.Errorf("property %q: %w: %d items declared", p.Name, ErrTruncatedRecord, count)
		}

		list := make([]float64, count)
		for k := range list {
			if list[k], err = c.read(p.Kind); err != nil {
				return nil, fmt.Errorf("property %q item %d: %w", p.Name, k, err)
			}
		}
		rec[j].List = list
	}
	return rec, nil
}

// recordCapacity bounds the preallocation for an element so a bogus
// count in the header cannot force a huge allocation.
func recordCapacity(el *Element, remaining int) int {
	size := 0
	for _, p := range el.Properties {
		if p.IsList {
			size += p.CountKind.Size()
		} else {
			size += p.Kind.Size()
		}
	}
	if size == 0 {
		return 0
	}
	if limit := remaining / size; el.Count > limit {
		return limit
	}
	return el.Count
}
