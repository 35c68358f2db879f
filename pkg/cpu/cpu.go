// Package cpu implements a cycle-approximate Zilog Z80 instruction core:
// register file, flag ALU, and a byte-driven fetch/decode/execute engine
// over an embedder-supplied bus.Bus. The core is a pure function of its
// registers and the Bus callbacks; Step advances the machine by exactly
// one instruction and returns the T-states it consumed.
package cpu

import (
	"errors"

	"github.com/z80dev/z80core/pkg/bus"
)

// Sticky errors surfaced by Step, matching the numeric codes in the
// external interface (invalid opcode = -2; the embedder-triggered abort
// has no fixed numeric code in the original table and is reported as its
// own sentinel so embedders can distinguish "bad program" from "my own
// callback backed out").
var (
	ErrInvalidOpcode = errors.New("cpu: invalid opcode")
	ErrUserAbort     = errors.New("cpu: aborted by bus callback")
)

// abortSignal is the panic value used to unwind out of a partially executed
// instruction when the embedder's AbortPoll fires mid-Step. It is never
// allowed to escape Step.
type abortSignal struct{}

// CPU is the complete emulator core: register file plus the bus it is
// driven through. The zero value is not usable; construct with New.
type CPU struct {
	Reg Registers
	bus *bus.Bus

	err error
}

// New constructs a core with all registers zeroed and bound to b. b's four
// callables must all be set; Abort is optional.
func New(b *bus.Bus) *CPU {
	return &CPU{bus: b}
}

// Reset zeroes the register file and clears the sticky error. Bus
// callbacks are preserved.
func (c *CPU) Reset() {
	c.Reg.Reset()
	c.err = nil
}

// Err returns the sticky fatal error, or nil if the core is healthy.
func (c *CPU) Err() error {
	return c.err
}

// IsHalted reports whether the core is sitting in the HALT sticky state.
func (c *CPU) IsHalted() bool {
	return c.Reg.Halted
}

// GetReg8/SetReg8/GetReg16/SetReg16 expose the external register-access
// surface described in §6; they are the only way an embedder inspects or
// mutates state between Step calls.

func (c *CPU) GetReg8(name Reg8, shadow bool) uint8 { return c.Reg.Get8(name, shadow) }
func (c *CPU) SetReg8(name Reg8, v uint8, shadow bool) { c.Reg.Set8(name, v, shadow) }
func (c *CPU) GetReg16(name Reg16) uint16 { return c.Reg.Get16(name) }
func (c *CPU) SetReg16(name Reg16, v uint16) { c.Reg.Set16(name, v) }

// Step advances the machine by exactly one instruction (or, for a repeated
// block instruction that rewinds PC, by one iteration of it) and returns
// the T-states consumed. Once the sticky error is set, Step is a no-op
// that keeps returning it.
func (c *CPU) Step() (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	if c.Reg.Halted {
		return 4, nil
	}

	tstates, err := c.step()
	if err != nil {
		c.err = err
		return 0, err
	}
	return tstates, nil
}

// step runs one real dispatch cycle. A mid-instruction abort from the bus
// unwinds here via recover; any other panic is a programmer error in the
// dispatcher and is allowed to propagate.
func (c *CPU) step() (tstates int, err error) {
	defer func() {
		if p := recover(); p != nil {
			switch p.(type) {
			case abortSignal:
				err = ErrUserAbort
			case invalidOpcodePanic:
				err = ErrInvalidOpcode
			default:
				panic(p)
			}
		}
	}()

	op := c.fetchByte()
	return c.execBase(op), nil
}

// checkAbort panics the internal abort sentinel when the embedder's
// AbortPoll fires. Every Bus-touching helper below calls this immediately
// after the underlying call.
func (c *CPU) checkAbort(aborted bool) {
	if aborted {
		panic(abortSignal{})
	}
}

func (c *CPU) readMem(addr uint16) uint8 {
	v, aborted := c.bus.ReadMem(addr)
	c.checkAbort(aborted)
	return v
}

func (c *CPU) writeMem(addr uint16, v uint8) {
	c.checkAbort(c.bus.WriteMem(addr, v))
}

func (c *CPU) readIO(addr uint16) uint8 {
	v, aborted := c.bus.ReadIO(addr)
	c.checkAbort(aborted)
	return v
}

func (c *CPU) writeIO(addr uint16, v uint8) {
	c.checkAbort(c.bus.WriteIO(addr, v))
}

// fetchByte reads the byte at PC and advances PC by one, wrapping mod
// 65536.
func (c *CPU) fetchByte() uint8 {
	v := c.readMem(c.Reg.PC)
	c.Reg.PC++
	return v
}

// fetchWord reads a little-endian word starting at PC and advances PC by
// two.
func (c *CPU) fetchWord() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return uint16(hi)<<8 | uint16(lo)
}

// fetchDisp reads a signed 8-bit displacement byte.
func (c *CPU) fetchDisp() int8 {
	return int8(c.fetchByte())
}

// effectiveIdx computes (base + sign-extended displacement) mod 65536 for
// DD/FD indexed addressing.
func (c *CPU) effectiveIdx(base uint16) uint16 {
	d := c.fetchDisp()
	return uint16(int32(base) + int32(d))
}

// readWord reads a little-endian word at an arbitrary address (low byte at
// addr, high byte at addr+1, both wrapping mod 65536).
func (c *CPU) readWord(addr uint16) uint16 {
	lo := c.readMem(addr)
	hi := c.readMem(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// writeWord writes a little-endian word at an arbitrary address.
func (c *CPU) writeWord(addr uint16, v uint16) {
	c.writeMem(addr, uint8(v))
	c.writeMem(addr+1, uint8(v>>8))
}

// push implements the Register File's push(v16): decrement SP, write high
// byte; decrement SP, write low byte.
func (c *CPU) push(v uint16) {
	c.Reg.SP--
	c.writeMem(c.Reg.SP, uint8(v>>8))
	c.Reg.SP--
	c.writeMem(c.Reg.SP, uint8(v))
}

// pop implements the Register File's pop(): read low byte at SP, increment;
// read high byte at SP, increment.
func (c *CPU) pop() uint16 {
	lo := c.readMem(c.Reg.SP)
	c.Reg.SP++
	hi := c.readMem(c.Reg.SP)
	c.Reg.SP++
	return uint16(hi)<<8 | uint16(lo)
}
