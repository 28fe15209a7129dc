// Package export converts an elaborated model into a JSON document and
// checks documents against the embedded CUE schema.
package export

import (
	"encoding/json"
	"io"

	"github.com/golangrdl/gordl/rdl"
)

// Format identifies the document layout. It changes only when the schema
// does.
const Format = "gordl/v1"

// Document is the JSON form of an elaborated model.
type Document struct {
	Format      string       `json:"format"`
	Nodes       []Node       `json:"nodes"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Node is one elaborated instance. Offset, Address and Size are set for
// addressable kinds; Msb, Lsb and Width for fields; Width for signals.
type Node struct {
	Kind       string     `json:"kind"`
	Name       string     `json:"name"`
	Path       string     `json:"path"`
	Index      []int      `json:"index,omitempty"`
	External   bool       `json:"external,omitempty"`
	Offset     *uint64    `json:"offset,omitempty"`
	Address    *uint64    `json:"address,omitempty"`
	Size       *uint64    `json:"size,omitempty"`
	Msb        *uint64    `json:"msb,omitempty"`
	Lsb        *uint64    `json:"lsb,omitempty"`
	Width      *uint64    `json:"width,omitempty"`
	Properties []Property `json:"properties,omitempty"`
	Defaults   []Property `json:"defaults,omitempty"`
	Span       *Span      `json:"span,omitempty"`
	Children   []Node     `json:"children,omitempty"`
}

// Property is a name/value pair in declaration order.
type Property struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// Value is a property value. Text is the SystemRDL rendering; Number and
// Width carry numeric values, Elems and Fields aggregate ones.
type Value struct {
	Kind   string     `json:"kind"`
	Text   string     `json:"text"`
	Number *uint64    `json:"number,omitempty"`
	Width  uint       `json:"width,omitempty"`
	Elems  []Value    `json:"elems,omitempty"`
	Fields []Property `json:"fields,omitempty"`
}

// Span is a source location.
type Span struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// Diagnostic is a non-fatal finding.
type Diagnostic struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Path     string `json:"path,omitempty"`
	Span     *Span  `json:"span,omitempty"`
}

// FromRoot builds the document for root. A nil root yields an empty
// document.
func FromRoot(root *rdl.Root) Document {
	doc := Document{Format: Format, Nodes: []Node{}}
	if root == nil {
		return doc
	}
	for _, n := range root.Nodes() {
		doc.Nodes = append(doc.Nodes, fromNode(n))
	}
	for _, d := range root.Diagnostics() {
		doc.Diagnostics = append(doc.Diagnostics, Diagnostic{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Message:  d.Message,
			Path:     d.Path,
			Span:     fromSpan(d.Span.File, d.Span.Line, d.Span.Column),
		})
	}
	return doc
}

// Write encodes doc as indented JSON.
func Write(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func fromNode(n rdl.Node) Node {
	out := Node{
		Kind:       n.Kind().String(),
		Name:       n.Name(),
		Path:       n.Path(),
		Index:      n.Index(),
		External:   n.External(),
		Properties: fromProperties(n.Properties()),
		Defaults:   fromProperties(n.DefaultProperties()),
	}
	sp := n.Span()
	out.Span = fromSpan(sp.File, sp.Line, sp.Column)

	switch n := n.(type) {
	case rdl.Addressable:
		out.Offset = ptr(n.Offset())
		out.Address = ptr(n.AbsoluteAddress())
		out.Size = ptr(n.Size())
	case *rdl.Field:
		out.Msb = ptr(n.Msb())
		out.Lsb = ptr(n.Lsb())
		out.Width = ptr(n.Width())
	case *rdl.Signal:
		out.Width = ptr(n.Width())
	}

	for _, c := range n.Children() {
		out.Children = append(out.Children, fromNode(c))
	}
	return out
}

func fromProperties(p rdl.Properties) []Property {
	if p.Len() == 0 {
		return nil
	}
	out := make([]Property, 0, p.Len())
	for name, v := range p.All() {
		out = append(out, Property{Name: name, Value: fromLiteral(v)})
	}
	return out
}

func fromLiteral(l rdl.Literal) Value {
	v := Value{Kind: l.Kind().String(), Text: l.String()}
	switch l.Kind() {
	case rdl.LitNumber:
		n, _ := l.Number()
		v.Number = &n
		v.Width = l.Width()
	case rdl.LitArray:
		for _, e := range l.Elems() {
			v.Elems = append(v.Elems, fromLiteral(e))
		}
	case rdl.LitStruct:
		for _, f := range l.Fields() {
			v.Fields = append(v.Fields, Property{Name: f.Name, Value: fromLiteral(f.Value)})
		}
	}
	return v
}

func fromSpan(file string, line, col int) *Span {
	if file == "" && line == 0 && col == 0 {
		return nil
	}
	return &Span{File: file, Line: line, Column: col}
}

func ptr(v uint64) *uint64 { return &v }
