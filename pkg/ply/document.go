package ply

// Value is one decoded property of a record. Scalars use Scalar; list
// properties use List, which is non-nil even when the list is empty.
// Every numeric kind is widened to float64 without loss.
type Value struct {
	Scalar float64
	List   []float64
}

// Record holds one value per property, in declaration order.
type Record []Value

// ElementData is the decoded body of one element.
type ElementData struct {
	Name       string
	Properties []Property
	Records    []Record
}

// PropertyIndex returns the position of the named property, or -1.
func (e *ElementData) PropertyIndex(name string) int {
	for i, p := range e.Properties {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Value looks up a property of rec by name.
func (e *ElementData) Value(rec Record, name string) (Value, bool) {
	i := e.PropertyIndex(name)
	if i < 0 || i >= len(rec) {
		return Value{}, false
	}
	return rec[i], true
}

// Document is the format-agnostic result of decoding a PLY body: every
// element in declaration order plus the header's free text.
type Document struct {
	Format   Format
	Version  string
	Comments []string
	ObjInfo  []string
	Elements []ElementData
}

// Element returns the named element, or nil.
func (d *Document) Element(name string) *ElementData {
	for i := range d.Elements {
		if d.Elements[i].Name == name {
			return &d.Elements[i]
		}
	}
	return nil
}

func newDocument(h *Header) *Document {
	return &Document{
		Format:   h.Format,
		Version:  h.Version,
		Comments: h.Comments,
		ObjInfo:  h.ObjInfo,
		Elements: make([]ElementData, 0, len(h.Elements)),
	}
}
