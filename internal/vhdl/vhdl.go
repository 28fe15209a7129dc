// Package vhdl emits VHDL entity declarations for elaborated address maps.
//
// Each top-level addrmap becomes one entity. Its port list holds a fixed
// 32-bit bus interface followed by ports for every field below the map,
// in declaration order. The direction of a field's ports follows its
// effective hw access:
//
//	readable and writable   <name>_out : out, <name>_in : in, <name>_we : in
//	readable only           <name> : out
//	writable only           <name> : in, <name>_we : in
//	na                      no ports
//
// Port names are the field path below the address map joined by "_",
// with array subscripts flattened (regs[2].en becomes regs_2_en).
package vhdl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/golangrdl/gordl/rdl"
)

// Port is one entity port.
type Port struct {
	Name string
	Dir  string // "in" or "out"
	Type string
}

// busPorts is the software bus interface shared by every entity.
var busPorts = []Port{
	{"bus_addr", "in", "std_logic_vector(31 downto 0)"},
	{"bus_data_in", "in", "std_logic_vector(31 downto 0)"},
	{"bus_data_out", "out", "std_logic_vector(31 downto 0)"},
	{"bus_read_valid", "in", "std_logic"},
	{"bus_write_valid", "in", "std_logic"},
}

// Generate writes one entity and architecture per top-level addrmap in
// root. Other top-level kinds are skipped.
func Generate(w io.Writer, root *rdl.Root) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "-- Auto-generated VHDL from a register description")
	if root != nil {
		for _, n := range root.Nodes() {
			m, ok := n.(*rdl.AddrMap)
			if !ok {
				continue
			}
			writeEntity(bw, m)
		}
	}
	return bw.Flush()
}

// Ports returns the port list of the entity generated for m.
func Ports(m *rdl.AddrMap) []Port {
	ports := append([]Port(nil), busPorts...)
	for n := range rdl.Walk(m) {
		f, ok := n.(*rdl.Field)
		if !ok {
			continue
		}
		ports = append(ports, fieldPorts(PortName(m, f), f)...)
	}
	return ports
}

func fieldPorts(name string, f *rdl.Field) []Port {
	typ := vectorType(f.Width())
	hw := f.HWAccess()
	switch {
	case hw.Readable() && hw.Writable():
		return []Port{
			{name + "_out", "out", typ},
			{name + "_in", "in", typ},
			{name + "_we", "in", "std_logic"},
		}
	case hw.Readable():
		return []Port{{name, "out", typ}}
	case hw.Writable():
		return []Port{
			{name, "in", typ},
			{name + "_we", "in", "std_logic"},
		}
	}
	return nil
}

// PortName returns the port base name of n relative to the address map
// top.
func PortName(top rdl.Node, n rdl.Node) string {
	rel := strings.TrimPrefix(n.Path(), top.Path()+".")
	return Identifier(rel)
}

// Identifier maps an instance path or name to a VHDL basic identifier.
func Identifier(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '.' || r == '[':
			b.WriteByte('_')
		case r == ']':
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "_")
}

func vectorType(width uint64) string {
	if width > 1 {
		return fmt.Sprintf("std_logic_vector(%d downto 0)", width-1)
	}
	return "std_logic"
}

func writeEntity(w io.Writer, m *rdl.AddrMap) {
	name := Identifier(m.Name())
	ports := Ports(m)

	fmt.Fprintf(w, "\nlibrary ieee;\nuse ieee.std_logic_1164.all;\n")
	fmt.Fprintf(w, "\nentity %s is\n", name)
	fmt.Fprintln(w, "    port (")
	for i, p := range ports {
		sep := ";"
		if i == len(ports)-1 {
			sep = ""
		}
		fmt.Fprintf(w, "        %s : %s %s%s\n", p.Name, p.Dir, p.Type, sep)
	}
	fmt.Fprintln(w, "    );")
	fmt.Fprintln(w, "end entity;")

	fmt.Fprintf(w, "\narchitecture rtl of %s is\n", name)
	fmt.Fprintln(w, "begin")
	for n := range rdl.Walk(m) {
		switch n := n.(type) {
		case *rdl.Register:
			fmt.Fprintf(w, "    -- %s @ 0x%x\n", PortName(m, n), n.AbsoluteAddress())
		case *rdl.Field:
			fmt.Fprintf(w, "    --   %s [%d:%d] sw=%s hw=%s\n",
				PortName(m, n), n.Msb(), n.Lsb(), n.SWAccess(), n.HWAccess())
		}
	}
	fmt.Fprintln(w, "end architecture;")
}
