package emulator

import (
	"fmt"
	"io"
	"iter"
	"maps"

	"github.com/ezrec/mach32/cpu"
)

// Console register offsets, in bytes from the window base.
const (
	CONSOLE_TX_STATUS = 0x0 // Program stores 1 here to present TX_DATA.
	CONSOLE_TX_DATA   = 0x4 // Low byte is the character to transmit.
	CONSOLE_RX_STATUS = 0x8 // Host stores 1 here when RX_DATA holds a byte.
	CONSOLE_RX_DATA   = 0xc // Low byte is the received character.

	CONSOLE_SIZE = 0x10
)

// Console is a memory-mapped character device: a four-word window of
// plain RAM that the host pumps between instruction steps, so the core
// never blocks on it.
//
// Transmit: the program stores a byte to TX_DATA, then stores 1 to
// TX_STATUS. The host drains the byte to Out and clears TX_STATUS.
//
// Receive: when RX_STATUS is clear, the host fills RX_DATA from In,
// sets RX_STATUS, and an external interrupt is queued. The program
// clears RX_STATUS to acknowledge.
type Console struct {
	Base uint32    // Word-aligned base of the register window.
	In   io.Reader // Receive source; nil for no input.
	Out  io.Writer // Transmit sink; nil discards.
}

// Defines exports the console register addresses as assembler
// predefines.
func (con *Console) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"CONSOLE_TX_STATUS": fmt.Sprintf("%#v", con.Base+CONSOLE_TX_STATUS),
		"CONSOLE_TX_DATA":   fmt.Sprintf("%#v", con.Base+CONSOLE_TX_DATA),
		"CONSOLE_RX_STATUS": fmt.Sprintf("%#v", con.Base+CONSOLE_RX_STATUS),
		"CONSOLE_RX_DATA":   fmt.Sprintf("%#v", con.Base+CONSOLE_RX_DATA),
	})
}

// Reset clears the register window. A console with neither side wired
// is inactive and leaves memory alone.
func (con *Console) Reset(mem *cpu.Memory) (err error) {
	if con.In == nil && con.Out == nil {
		return
	}

	for off := uint32(0); off < CONSOLE_SIZE; off += cpu.WIDTH_WORD {
		err = mem.Write(con.Base+off, cpu.WIDTH_WORD, 0)
		if err != nil {
			return
		}
	}

	return
}

// Pump services the window once: drains a pending transmit, and fills
// the receive register when it is free. Reports whether a receive byte
// arrived, so the caller can queue the external interrupt.
func (con *Console) Pump(mem *cpu.Memory) (filled bool, err error) {
	if con.In == nil && con.Out == nil {
		return
	}

	status, err := mem.Read(con.Base+CONSOLE_TX_STATUS, cpu.WIDTH_WORD)
	if err != nil {
		return
	}
	if status != 0 {
		var data uint32
		data, err = mem.Read(con.Base+CONSOLE_TX_DATA, cpu.WIDTH_WORD)
		if err != nil {
			return
		}
		if con.Out != nil {
			_, err = con.Out.Write([]byte{byte(data)})
			if err != nil {
				return
			}
		}
		err = mem.Write(con.Base+CONSOLE_TX_STATUS, cpu.WIDTH_WORD, 0)
		if err != nil {
			return
		}
	}

	if con.In == nil {
		return
	}

	status, err = mem.Read(con.Base+CONSOLE_RX_STATUS, cpu.WIDTH_WORD)
	if err != nil || status != 0 {
		return
	}

	var buf [1]byte
	n, rerr := con.In.Read(buf[:])
	if rerr != nil {
		// Input exhausted; the receive side goes quiet.
		con.In = nil
		return
	}
	if n == 0 {
		return
	}

	err = mem.Write(con.Base+CONSOLE_RX_DATA, cpu.WIDTH_WORD, uint32(buf[0]))
	if err != nil {
		return
	}
	err = mem.Write(con.Base+CONSOLE_RX_STATUS, cpu.WIDTH_WORD, 1)
	if err != nil {
		return
	}
	filled = true

	return
}
