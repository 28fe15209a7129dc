package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangrdl/gordl"
)

func TestLayout(t *testing.T) {
	tests := []struct {
		path    string
		kind    gordl.Kind
		offset  uint64
		address uint64
		size    uint64
	}{
		// bridge.yml: fullalign pads the win array to a 16-byte boundary
		{"bridge", gordl.KindAddrMap, 0, 0, 0x1c},
		{"bridge.status", gordl.KindReg, 0, 0, 1},
		{"bridge.win[0]", gordl.KindReg, 0x10, 0x10, 4},
		{"bridge.win[2]", gordl.KindReg, 0x18, 0x18, 4},

		// periph.yaml: nested address maps with an explicit stride
		{"periph", gordl.KindAddrMap, 0, 0, 0x2400},
		{"periph.timer[0]", gordl.KindAddrMap, 0, 0, 0x10},
		{"periph.timer[1]", gordl.KindAddrMap, 0x100, 0x100, 0x10},
		{"periph.timer[1].ctrl", gordl.KindReg, 0, 0x100, 4},
		{"periph.timer[1].cmp", gordl.KindReg, 8, 0x108, 8},
		{"periph.info", gordl.KindRegFile, 0x1000, 0x1000, 4},
		{"periph.info.version", gordl.KindReg, 0, 0x1000, 4},
		{"periph.sram", gordl.KindMem, 0x2000, 0x2000, 0x400},

		// uart.yaml
		{"uart", gordl.KindAddrMap, 0, 0, 0x500},
		{"uart.ctrl", gordl.KindReg, 0, 0, 4},
		{"uart.chan[0]", gordl.KindRegFile, 0x100, 0x100, 0x10},
		{"uart.chan[1]", gordl.KindRegFile, 0x110, 0x110, 0x10},
		{"uart.chan[1].fifo[3]", gordl.KindReg, 0xc, 0x11c, 4},
		{"uart.buf", gordl.KindMem, 0x400, 0x400, 0x100},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			n := node(t, tt.path)
			assert.Equal(t, tt.kind, n.Kind())
			a, ok := n.(gordl.Addressable)
			require.True(t, ok)
			assert.Equal(t, tt.offset, a.Offset(), "offset")
			assert.Equal(t, tt.address, a.AbsoluteAddress(), "address")
			assert.Equal(t, tt.size, a.Size(), "size")
		})
	}
}

func TestExternal(t *testing.T) {
	assert.True(t, node(t, "uart.buf").External())
	assert.False(t, node(t, "periph.sram").External())
}

func TestAddressing(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"bridge", "fullalign"},
		{"periph", "regalign"},
		{"periph.timer[0]", "regalign"},
		{"uart", "regalign"},
	}
	for _, tt := range tests {
		m, ok := node(t, tt.path).(*gordl.AddrMap)
		require.True(t, ok, tt.path)
		assert.Equal(t, tt.want, m.Addressing().String(), tt.path)
	}
}
