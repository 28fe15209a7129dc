package elaborator

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golangrdl/gordl/ast"
	"github.com/golangrdl/gordl/internal/expand"
	"github.com/golangrdl/gordl/internal/props"
	"github.com/golangrdl/gordl/internal/types"
	"github.com/golangrdl/gordl/rdl"
)

// frame is the context a component is elaborated in. It is passed by
// value; the scope chain it carries is immutable and shared.
type frame struct {
	top    bool     // no enclosing node
	parent rdl.Kind // enclosing node kind, unless top
	path   string   // enclosing node path, "" at top level
	scope  *props.Scope
	mode   rdl.AddressingType // addressing of the nearest enclosing address map
	diags  *[]rdl.Diagnostic
}

func (f frame) child(kind rdl.Kind, path string, scope *props.Scope, mode rdl.AddressingType) frame {
	return frame{parent: kind, path: path, scope: scope, mode: mode, diags: f.diags}
}

// component elaborates a definition and its instance clause. Addressable
// instances take offsets from alloc; fields take bit ranges from bits.
func (e *elaborator) component(c *ast.Component, f frame, alloc *expand.Allocator, bits *expand.BitAllocator) ([]rdl.Node, error) {
	path := joinPath(f.path, declName(c))
	kind, ok := nodeKind(c.Type)
	if !ok {
		return nil, rdl.Unsupported("nested "+c.Type.String()+" component", c.Span).AtPath(f.path)
	}
	if !f.top && !canContain(f.parent, kind) {
		return nil, rdl.Invalid(c.Span, "%s cannot contain %s", f.parent, kind).AtPath(path)
	}

	set := props.NewSet()
	for _, el := range c.Body {
		switch b := el.(type) {
		case ast.PropertyAssignment:
			if err := props.Resolve(b, set); err != nil {
				return nil, at(err, path)
			}
		case *ast.Component:
			// Elaborated once the node itself is laid out.
		case *ast.EnumDef:
			return nil, rdl.Unsupported("enum definition", b.Span).AtPath(path)
		case *ast.StructDef:
			return nil, rdl.Unsupported("struct definition", b.Span).AtPath(path)
		case *ast.ConstraintDef:
			return nil, rdl.Unsupported("constraint definition", b.Span).AtPath(path)
		case *ast.ExplicitComponentInst:
			if b.Alias != nil {
				return nil, rdl.Unsupported("alias instance", b.Span).AtPath(path)
			}
			return nil, rdl.Unsupported("explicit component instance", b.Span).AtPath(path)
		case nil:
			return nil, rdl.Internal(c.Span, "nil body element").AtPath(path)
		default:
			return nil, rdl.Internal(el.Pos(), "unhandled body element %T", el).AtPath(path)
		}
	}
	def := definition{
		comp:     c,
		kind:     kind,
		local:    set.Local(),
		defaults: set.Defaults(),
	}

	decls, err := expand.Decls(c)
	if err != nil {
		return nil, at(err, path)
	}

	var out []rdl.Node
	for _, d := range decls {
		if d.Span.IsZero() {
			d.Span = c.Span
		}
		var nodes []rdl.Node
		switch kind {
		case rdl.KindReg:
			nodes, err = e.register(def, d, f, alloc)
		case rdl.KindMem:
			nodes, err = e.mem(def, d, f, alloc)
		case rdl.KindRegFile, rdl.KindAddrMap:
			nodes, err = e.container(def, d, f, alloc)
		case rdl.KindField:
			nodes, err = e.field(def, d, f, bits)
		case rdl.KindSignal:
			nodes, err = e.signal(def, d, f)
		default:
			err = rdl.Internal(d.Span, "unhandled node kind %s", kind)
		}
		if err != nil {
			return nil, at(err, joinPath(f.path, d.Name))
		}
		out = append(out, nodes...)
	}
	return out, nil
}

// definition is a component whose properties have been resolved.
type definition struct {
	comp     *ast.Component
	kind     rdl.Kind
	local    rdl.Properties
	defaults rdl.Properties
}

func (def definition) spec(d expand.Decl, index []int, children []rdl.Node) rdl.NodeSpec {
	return rdl.NodeSpec{
		Name:              d.Name,
		Index:             index,
		Properties:        def.local,
		DefaultProperties: def.defaults,
		Children:          children,
		External:          d.External,
		Span:              d.Span,
	}
}

// body elaborates the nested component definitions of def in declaration
// order.
func (e *elaborator) body(def definition, f frame, alloc *expand.Allocator, bits *expand.BitAllocator) ([]rdl.Node, error) {
	var children []rdl.Node
	for _, el := range def.comp.Body {
		sub, ok := el.(*ast.Component)
		if !ok {
			continue
		}
		nodes, err := e.component(sub, f, alloc, bits)
		if err != nil {
			return nil, err
		}
		children = append(children, nodes...)
	}
	if err := uniqueNames(children, f.path); err != nil {
		return nil, err
	}
	return children, nil
}

func (e *elaborator) register(def definition, d expand.Decl, f frame, alloc *expand.Allocator) ([]rdl.Node, error) {
	width, _ := f.scope.EffectiveNumber(rdl.KindReg, def.local, rdl.PropRegWidth)
	size, err := expand.RegisterSize(width, d.Span)
	if err != nil {
		return nil, err
	}
	layout, err := alloc.Place(d, size)
	if err != nil {
		return nil, err
	}
	e.checkOverlap(layout, d, f)

	scope := f.scope.Push(def.defaults)
	var out []rdl.Node
	for i, idx := range d.Elements() {
		path := joinPath(f.path, rdl.FormatName(d.Name, idx))
		bits := expand.NewBitAllocator(width, e.policy)
		children, err := e.body(def, f.child(rdl.KindReg, path, scope, f.mode), expand.NewAllocator(f.mode), bits)
		if err != nil {
			return nil, err
		}
		n := rdl.NewRegister(def.spec(d, idx, children), layout.Offset(i))
		e.traceNode(n, layout.Offset(i), size)
		out = append(out, n)
	}
	return out, nil
}

func (e *elaborator) mem(def definition, d expand.Decl, f frame, alloc *expand.Allocator) ([]rdl.Node, error) {
	entries, ok := f.scope.EffectiveNumber(rdl.KindMem, def.local, rdl.PropMemEntries)
	if !ok {
		return nil, rdl.Invalid(d.Span, "mem %q requires mementries", d.Name)
	}
	width, _ := f.scope.EffectiveNumber(rdl.KindMem, def.local, rdl.PropMemWidth)
	size, err := expand.MemSize(entries, width, d.Span)
	if err != nil {
		return nil, err
	}
	layout, err := alloc.Place(d, size)
	if err != nil {
		return nil, err
	}
	e.checkOverlap(layout, d, f)

	scope := f.scope.Push(def.defaults)
	var out []rdl.Node
	for i, idx := range d.Elements() {
		path := joinPath(f.path, rdl.FormatName(d.Name, idx))
		children, err := e.body(def, f.child(rdl.KindMem, path, scope, f.mode), expand.NewAllocator(f.mode), nil)
		if err != nil {
			return nil, err
		}
		n := rdl.NewMem(def.spec(d, idx, children), layout.Offset(i))
		e.traceNode(n, layout.Offset(i), size)
		out = append(out, n)
	}
	return out, nil
}

// container elaborates address maps and register files. Their size is the
// end of the furthest child, so the first element's children are built
// before the declarator is placed; every element has the same size.
func (e *elaborator) container(def definition, d expand.Decl, f frame, alloc *expand.Allocator) ([]rdl.Node, error) {
	mode := f.mode
	if def.kind == rdl.KindAddrMap {
		v, _ := f.scope.Effective(rdl.KindAddrMap, def.local, rdl.PropAddressing)
		mode, _ = v.Addressing()
	}
	scope := f.scope.Push(def.defaults)

	children := func(idx []int) ([]rdl.Node, uint64, error) {
		path := joinPath(f.path, rdl.FormatName(d.Name, idx))
		a := expand.NewAllocator(mode)
		nodes, err := e.body(def, f.child(def.kind, path, scope, mode), a, nil)
		return nodes, a.End(), err
	}

	elements := d.Elements()
	first, size, err := children(elements[0])
	if err != nil {
		return nil, err
	}
	layout, err := alloc.Place(d, size)
	if err != nil {
		return nil, err
	}
	e.checkOverlap(layout, d, f)

	out := make([]rdl.Node, 0, len(elements))
	for i, idx := range elements {
		kids := first
		if i > 0 {
			if kids, _, err = children(idx); err != nil {
				return nil, err
			}
		}
		var n rdl.Node
		if def.kind == rdl.KindAddrMap {
			n = rdl.NewAddrMap(def.spec(d, idx, kids), layout.Offset(i))
		} else {
			n = rdl.NewRegFile(def.spec(d, idx, kids), layout.Offset(i))
		}
		e.traceNode(n, layout.Offset(i), size)
		out = append(out, n)
	}
	return out, nil
}

func (e *elaborator) field(def definition, d expand.Decl, f frame, bits *expand.BitAllocator) ([]rdl.Node, error) {
	path := joinPath(f.path, d.Name)
	local := def.local
	// An instance reset ("f[7:0] = 5") overrides a reset assigned in the
	// field body, as an instance-level assignment does. It is the only
	// property that may replace an existing local value.
	if d.Reset != nil {
		local = rdl.NewProperties(append(local.Entries(), rdl.Property{Name: rdl.PropReset, Value: *d.Reset})...)
	}

	width, _ := f.scope.EffectiveNumber(rdl.KindField, local, rdl.PropFieldWidth)
	b, diag, err := bits.Place(d, width)
	if err != nil {
		return nil, err
	}
	if diag != nil {
		diag.Path = path
		e.diagnose(f, *diag)
	}
	if v, ok := local.Get(rdl.PropReset); ok {
		n, _ := v.Number()
		if fw := uint(b.Msb - b.Lsb + 1); fw < 64 && n != rdl.Mask(n, fw) {
			return nil, rdl.Invalid(d.Span, "reset value %#x of field %q does not fit in %d bits", n, d.Name, fw)
		}
	}

	scope := f.scope.Push(def.defaults)
	children, err := e.body(def, f.child(rdl.KindField, path, scope, f.mode), expand.NewAllocator(f.mode), nil)
	if err != nil {
		return nil, err
	}
	spec := def.spec(d, nil, children)
	spec.Properties = local
	n := rdl.NewField(spec, b.Msb, b.Lsb)
	if e.TraceEnabled() {
		e.Trace("field", slog.String("path", path),
			slog.Uint64("msb", b.Msb), slog.Uint64("lsb", b.Lsb))
	}
	return []rdl.Node{n}, nil
}

func (e *elaborator) signal(def definition, d expand.Decl, f frame) ([]rdl.Node, error) {
	scope := f.scope.Push(def.defaults)
	var out []rdl.Node
	for _, idx := range d.Elements() {
		path := joinPath(f.path, rdl.FormatName(d.Name, idx))
		children, err := e.body(def, f.child(rdl.KindSignal, path, scope, f.mode), expand.NewAllocator(f.mode), nil)
		if err != nil {
			return nil, err
		}
		n := rdl.NewSignal(def.spec(d, idx, children))
		if e.TraceEnabled() {
			e.Trace("signal", slog.String("path", path))
		}
		out = append(out, n)
	}
	return out, nil
}

// checkOverlap records a warning when d shares addresses with an earlier
// sibling. Overlap is legal for read-only and write-only register pairs,
// so it never fails elaboration.
func (e *elaborator) checkOverlap(l expand.Layout, d expand.Decl, f frame) {
	if l.Overlaps == "" {
		return
	}
	e.diagnose(f, rdl.Diagnostic{
		Severity: rdl.SeverityWarning,
		Code:     types.DiagAddressOverlap,
		Message: fmt.Sprintf("%q at %#x overlaps the addresses of %q",
			d.Name, l.Base, l.Overlaps),
		Path: joinPath(f.path, d.Name),
		Span: d.Span,
	})
}

func (e *elaborator) diagnose(f frame, d rdl.Diagnostic) {
	*f.diags = append(*f.diags, d)
	e.Log(slog.LevelWarn, d.Message, slog.String("path", d.Path))
}

func (e *elaborator) traceNode(n rdl.Node, offset, size uint64) {
	if !e.TraceEnabled() {
		return
	}
	e.Trace(n.Kind().String(),
		slog.String("name", n.Name()),
		slog.Uint64("offset", offset),
		slog.Uint64("size", size),
		slog.Int("children", len(n.Children())))
}

// declName names a definition for error paths before its declarators are
// evaluated.
func declName(c *ast.Component) string {
	if c.Insts != nil && len(c.Insts.Insts) > 0 {
		return c.Insts.Insts[0].Name.Name
	}
	if c.Name != nil {
		return c.Name.Name
	}
	return "<anonymous " + c.Type.String() + ">"
}

// at attaches path to err if it does not already carry one.
func at(err error, path string) error {
	var re *rdl.Error
	if errors.As(err, &re) {
		return re.AtPath(path)
	}
	return err
}

func nodeKind(t ast.ComponentType) (rdl.Kind, bool) {
	switch t {
	case ast.ComponentAddrMap:
		return rdl.KindAddrMap, true
	case ast.ComponentRegFile:
		return rdl.KindRegFile, true
	case ast.ComponentReg:
		return rdl.KindReg, true
	case ast.ComponentField:
		return rdl.KindField, true
	case ast.ComponentMem:
		return rdl.KindMem, true
	case ast.ComponentSignal:
		return rdl.KindSignal, true
	}
	return 0, false
}

func canContain(parent, child rdl.Kind) bool {
	switch child {
	case rdl.KindSignal:
		return true
	case rdl.KindField:
		return parent == rdl.KindReg
	case rdl.KindReg:
		return parent == rdl.KindAddrMap || parent == rdl.KindRegFile || parent == rdl.KindMem
	case rdl.KindRegFile:
		return parent == rdl.KindAddrMap || parent == rdl.KindRegFile
	case rdl.KindAddrMap, rdl.KindMem:
		return parent == rdl.KindAddrMap
	}
	return false
}
