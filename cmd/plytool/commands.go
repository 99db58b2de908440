package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Faultbox/plyview/internal/config"
	"github.com/Faultbox/plyview/pkg/ply"
)

type elementInfo struct {
	Name       string   `json:"name" yaml:"name"`
	Count      int      `json:"count" yaml:"count"`
	Properties []string `json:"properties" yaml:"properties"`
}

type headerInfo struct {
	File        string        `json:"file" yaml:"file"`
	Format      string        `json:"format" yaml:"format"`
	Version     string        `json:"version" yaml:"version"`
	HeaderBytes int           `json:"header_bytes" yaml:"header_bytes"`
	Comments    []string      `json:"comments" yaml:"comments"`
	ObjInfo     []string      `json:"obj_info,omitempty" yaml:"obj_info,omitempty"`
	Elements    []elementInfo `json:"elements" yaml:"elements"`
}

func cmdInfo(cfg *config.Config, path string, w io.Writer) error {
	h, _, err := loadFile(cfg, path)
	if err != nil {
		return err
	}

	info := headerInfo{
		File:        path,
		Format:      string(h.Format),
		Version:     h.Version,
		HeaderBytes: h.Length,
		Comments:    h.Comments,
		ObjInfo:     h.ObjInfo,
	}
	for _, el := range h.Elements {
		ei := elementInfo{Name: el.Name, Count: el.Count}
		for _, p := range el.Properties {
			ei.Properties = append(ei.Properties, p.String())
		}
		info.Elements = append(info.Elements, ei)
	}

	return emit(w, cfg.Output.Format, info, func(w io.Writer) {
		fmt.Fprintf(w, "File:    %s\n", info.File)
		fmt.Fprintf(w, "Format:  %s %s\n", info.Format, info.Version)
		fmt.Fprintf(w, "Header:  %d bytes\n", info.HeaderBytes)
		for _, c := range info.Comments {
			fmt.Fprintf(w, "  %s\n", c)
		}
		for _, o := range info.ObjInfo {
			fmt.Fprintf(w, "  %s\n", o)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Elements:")
		for _, el := range info.Elements {
			fmt.Fprintf(w, "  %-10s %d\n", el.Name, el.Count)
			for _, p := range el.Properties {
				fmt.Fprintf(w, "    %s\n", p)
			}
		}
	})
}

type elementDump struct {
	Name    string           `json:"name" yaml:"name"`
	Count   int              `json:"count" yaml:"count"`
	Records []map[string]any `json:"records" yaml:"records"`
}

func cmdDump(cfg *config.Config, path, element string, w io.Writer) error {
	h, doc, err := loadFile(cfg, path)
	if err != nil {
		return err
	}
	if element != "" && h.Element(element) == nil {
		return fmt.Errorf("%s: no element named %q", path, element)
	}

	var dumps []elementDump
	for _, ed := range doc.Elements {
		if element != "" && ed.Name != element {
			continue
		}
		d := elementDump{Name: ed.Name, Count: len(ed.Records)}
		for i, rec := range ed.Records {
			if cfg.Output.Limit > 0 && i >= cfg.Output.Limit {
				break
			}
			d.Records = append(d.Records, recordMap(&ed, rec))
		}
		dumps = append(dumps, d)
	}
	return emit(w, cfg.Output.Format, dumps, func(w io.Writer) {
		for _, d := range dumps {
			fmt.Fprintf(w, "element %s (%d records)\n", d.Name, d.Count)
			ed := doc.Element(d.Name)
			for i, rec := range ed.Records[:len(d.Records)] {
				fmt.Fprintf(w, "  [%d] %s\n", i, formatRecord(ed, rec))
			}
			if len(d.Records) < d.Count {
				fmt.Fprintf(w, "  ... %d more\n", d.Count-len(d.Records))
			}
		}
	})
}

func recordMap(ed *ply.ElementData, rec ply.Record) map[string]any {
	m := make(map[string]any, len(rec))
	for _, p := range ed.Properties {
		v, _ := ed.Value(rec, p.Name)
		if p.IsList {
			m[p.Name] = v.List
		} else {
			m[p.Name] = v.Scalar
		}
	}
	return m
}

func formatRecord(ed *ply.ElementData, rec ply.Record) string {
	parts := make([]string, len(ed.Properties))
	for j, p := range ed.Properties {
		v, _ := ed.Value(rec, p.Name)
		if p.IsList {
			items := make([]string, len(v.List))
			for k, item := range v.List {
				items[k] = fmt.Sprint(item)
			}
			parts[j] = fmt.Sprintf("%s=[%s]", p.Name, strings.Join(items, " "))
		} else {
			parts[j] = fmt.Sprintf("%s=%v", p.Name, v.Scalar)
		}
	}
	return strings.Join(parts, " ")
}

type geometrySummary struct {
	File      string     `json:"file" yaml:"file"`
	Vertices  int        `json:"vertices" yaml:"vertices"`
	Triangles int        `json:"triangles" yaml:"triangles"`
	Normals   bool       `json:"normals" yaml:"normals"`
	Colors    bool       `json:"colors" yaml:"colors"`
	BoundsMin [3]float32 `json:"bounds_min" yaml:"bounds_min"`
	BoundsMax [3]float32 `json:"bounds_max" yaml:"bounds_max"`
	Centroid  [3]float32 `json:"centroid" yaml:"centroid"`
}

func summarize(cfg *config.Config, path string) (*geometrySummary, error) {
	h, doc, err := loadFile(cfg, path)
	if err != nil {
		return nil, err
	}
	if h.Format.IsBinary() && !cfg.Decode.Geometry {
		return nil, fmt.Errorf("%s: %s body; set decode.geometry to reduce binary files", path, h.Format)
	}

	g, err := ply.BuildGeometry(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	lo, hi := g.Bounds()
	return &geometrySummary{
		File:      path,
		Vertices:  g.VertexCount(),
		Triangles: g.TriangleCount(),
		Normals:   g.Normals != nil,
		Colors:    g.VertexColors,
		BoundsMin: lo,
		BoundsMax: hi,
		Centroid:  g.Centroid(),
	}, nil
}

func cmdGeometry(cfg *config.Config, path string, w io.Writer) error {
	s, err := summarize(cfg, path)
	if err != nil {
		return err
	}
	return emitSummary(cfg, s, w)
}

func emitSummary(cfg *config.Config, s *geometrySummary, w io.Writer) error {
	return emit(w, cfg.Output.Format, s, func(w io.Writer) {
		fmt.Fprintf(w, "File:      %s\n", s.File)
		fmt.Fprintf(w, "Vertices:  %d\n", s.Vertices)
		fmt.Fprintf(w, "Triangles: %d\n", s.Triangles)
		fmt.Fprintf(w, "Normals:   %t\n", s.Normals)
		fmt.Fprintf(w, "Colors:    %t\n", s.Colors)
		fmt.Fprintf(w, "Bounds:    %v .. %v\n", s.BoundsMin, s.BoundsMax)
		fmt.Fprintf(w, "Centroid:  %v\n", s.Centroid)
	})
}

func cmdConfig(cfg *config.Config, args []string, w io.Writer) error {
	if len(args) < 1 || args[0] != "init" {
		return fmt.Errorf("%w: plytool config init [path]", errUsage)
	}

	path := filepath.Join(config.ConfigDir(), "config.yaml")
	if len(args) > 1 {
		path = args[1]
	}
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}
