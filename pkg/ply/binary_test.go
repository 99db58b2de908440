package ply

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

// makeBinaryPLY builds a binary PLY file from a header body and a writer
// callback that appends the encoded records.
func makeBinaryPLY(order binary.ByteOrder, decls string, write func(buf *bytes.Buffer)) []byte {
	format := "binary_little_endian"
	if order == binary.BigEndian {
		format = "binary_big_endian"
	}

	buf := new(bytes.Buffer)
	buf.WriteString("ply\nformat " + format + " 1.0\n")
	buf.WriteString(decls)
	buf.WriteString("end_header\n")
	if write != nil {
		write(buf)
	}
	return buf.Bytes()
}

func TestDecodeBinary_Float32Vertices(t *testing.T) {
	verts := [][3]float32{
		{0.1, -2.5, 3.25},
		{float32(math.Pi), 1e-7, -0},
	}
	data := makeBinaryPLY(binary.LittleEndian,
		"element vertex 2\nproperty float32 x\nproperty float32 y\nproperty float32 z\n",
		func(buf *bytes.Buffer) {
			for _, v := range verts {
				binary.Write(buf, binary.LittleEndian, v)
			}
		})

	doc, err := DecodeDocument(data)
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}

	vertex := doc.Element("vertex")
	if vertex == nil || len(vertex.Records) != 2 {
		t.Fatalf("expected 2 vertex records, got %+v", vertex)
	}
	for i, v := range verts {
		for c, name := range []string{"x", "y", "z"} {
			got, ok := vertex.Value(vertex.Records[i], name)
			if !ok {
				t.Fatalf("record %d: missing %s", i, name)
			}
			if math.Float32bits(float32(got.Scalar)) != math.Float32bits(v[c]) {
				t.Errorf("record %d %s: got %v, expected %v", i, name, got.Scalar, v[c])
			}
		}
	}
}

func TestDecodeBinary_FaceList(t *testing.T) {
	data := makeBinaryPLY(binary.LittleEndian,
		"element face 1\nproperty list uint8 int32 vertex_indices\n",
		func(buf *bytes.Buffer) {
			buf.WriteByte(3)
			binary.Write(buf, binary.LittleEndian, []int32{7, -1, 100000})
		})

	doc, err := DecodeDocument(data)
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}

	face := doc.Element("face")
	got := face.Records[0][0].List
	want := []float64{7, -1, 100000}
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestDecodeBinary_BigEndianAllKinds(t *testing.T) {
	decls := "element sample 1\n" +
		"property char a\nproperty uchar b\nproperty short c\nproperty ushort d\n" +
		"property int e\nproperty uint f\nproperty float g\nproperty double h\n" +
		"property list ushort uint16 items\n"

	data := makeBinaryPLY(binary.BigEndian, decls, func(buf *bytes.Buffer) {
		binary.Write(buf, binary.BigEndian, int8(-5))
		binary.Write(buf, binary.BigEndian, uint8(250))
		binary.Write(buf, binary.BigEndian, int16(-300))
		binary.Write(buf, binary.BigEndian, uint16(60000))
		binary.Write(buf, binary.BigEndian, int32(-70000))
		binary.Write(buf, binary.BigEndian, uint32(4000000000))
		binary.Write(buf, binary.BigEndian, float32(1.5))
		binary.Write(buf, binary.BigEndian, float64(-2.25))
		binary.Write(buf, binary.BigEndian, uint16(2))
		binary.Write(buf, binary.BigEndian, []uint16{513, 65535})
	})

	h, err := ParseHeader(data)
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	doc, err := DecodeBinary(data, h)
	if err != nil {
		t.Fatalf("DecodeBinary failed: %v", err)
	}

	rec := doc.Elements[0].Records[0]
	want := []float64{-5, 250, -300, 60000, -70000, 4000000000, 1.5, -2.25}
	for i, w := range want {
		if rec[i].Scalar != w {
			t.Errorf("property %s: expected %v, got %v", doc.Elements[0].Properties[i].Name, w, rec[i].Scalar)
		}
	}
	items := rec[8].List
	if len(items) != 2 || items[0] != 513 || items[1] != 65535 {
		t.Errorf("unexpected list items %v", items)
	}
}

func TestDecodeBinary_EmptyList(t *testing.T) {
	data := makeBinaryPLY(binary.LittleEndian,
		"element face 2\nproperty list uchar int vertex_indices\n",
		func(buf *bytes.Buffer) {
			buf.WriteByte(0)
			buf.WriteByte(1)
			binary.Write(buf, binary.LittleEndian, int32(9))
		})

	doc, err := DecodeDocument(data)
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}
	recs := doc.Elements[0].Records
	if recs[0][0].List == nil || len(recs[0][0].List) != 0 {
		t.Errorf("expected empty non-nil list, got %v", recs[0][0].List)
	}
	if len(recs[1][0].List) != 1 || recs[1][0].List[0] != 9 {
		t.Errorf("unexpected second list %v", recs[1][0].List)
	}
}

func TestDecodeBinary_Errors(t *testing.T) {
	tests := []struct {
		name    string
		decls   string
		write   func(buf *bytes.Buffer)
		wantErr error
	}{
		{
			name:  "truncated scalar",
			decls: "element vertex 2\nproperty float x\n",
			write: func(buf *bytes.Buffer) {
				binary.Write(buf, binary.LittleEndian, float32(1))
				buf.Write([]byte{0, 0})
			},
			wantErr: ErrTruncatedRecord,
		},
		{
			name:    "empty body",
			decls:   "element vertex 1\nproperty double x\n",
			wantErr: ErrTruncatedRecord,
		},
		{
			name:  "list longer than body",
			decls: "element face 1\nproperty list uchar int vertex_indices\n",
			write: func(buf *bytes.Buffer) {
				buf.WriteByte(200)
				binary.Write(buf, binary.LittleEndian, []int32{1, 2, 3})
			},
			wantErr: ErrTruncatedRecord,
		},
		{
			name:  "negative list count",
			decls: "element face 1\nproperty list char int vertex_indices\n",
			write: func(buf *bytes.Buffer) {
				binary.Write(buf, binary.LittleEndian, int8(-3))
			},
			wantErr: ErrInvalidListCount,
		},
		{
			name:    "huge declared count",
			decls:   "element vertex 4000000000\nproperty float x\n",
			wantErr: ErrTruncatedRecord,
		},
		{
			name:    "records without properties",
			decls:   "element marker 2000000000\n",
			wantErr: ErrInvalidElement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := makeBinaryPLY(binary.LittleEndian, tt.decls, tt.write)
			doc, err := DecodeDocument(data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
			if doc != nil {
				t.Error("expected no document on fatal error")
			}
		})
	}
}

func TestDecodeBinary_FewRecordsWithoutProperties(t *testing.T) {
	data := makeBinaryPLY(binary.LittleEndian, "element marker 2\n", func(buf *bytes.Buffer) {
		buf.Write([]byte{0, 0})
	})
	doc, err := DecodeDocument(data)
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}
	if n := len(doc.Elements[0].Records); n != 2 {
		t.Errorf("expected 2 records, got %d", n)
	}
}

func TestDecodeBinary_InvalidKindInHandBuiltHeader(t *testing.T) {
	data := makeBinaryPLY(binary.LittleEndian, "", func(buf *bytes.Buffer) {
		buf.Write([]byte{1, 2, 3, 4})
	})
	h, err := ParseHeader(data)
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	h.Elements = []Element{{Name: "bogus", Count: 1, Properties: []Property{{Name: "p"}}}}

	if _, err := DecodeBinary(data, h); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestDecodeBinary_RejectsASCIIHeader(t *testing.T) {
	h := &Header{Format: FormatASCII, Length: 1}
	if _, err := DecodeBinary([]byte("xx"), h); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDecodeBinary_ZeroLengthHeader(t *testing.T) {
	h := &Header{Format: FormatBinaryLE}
	if _, err := DecodeBinary([]byte{1, 2, 3}, h); !errors.Is(err, ErrMissingEndHeader) {
		t.Errorf("expected ErrMissingEndHeader, got %v", err)
	}
}

func TestRecordCapacity(t *testing.T) {
	el := &Element{Count: 1000, Properties: []Property{{Name: "x", Kind: KindFloat32}}}
	if got := recordCapacity(el, 40); got != 10 {
		t.Errorf("expected capacity 10, got %d", got)
	}
	if got := recordCapacity(el, 1<<20); got != 1000 {
		t.Errorf("expected capacity 1000, got %d", got)
	}
	if got := recordCapacity(&Element{Count: 5}, 100); got != 0 {
		t.Errorf("expected capacity 0 for empty layout, got %d", got)
	}
}
