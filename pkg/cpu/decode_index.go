package cpu

// execIndex implements the bounded DD/FD table (spec §4.5): load/store of
// IX or IY as a 16-bit value, PUSH/POP, ADD iz,rr, the (iz+d)-indexed
// arithmetic/logic/load/store group, INC/DEC of the index register and of
// (iz+d), LD SP,iz, JP (iz), and EX (SP),iz. The IX/IY half-register forms
// (IXH/IXL/IYH/IYL) and the DDCB/FDCB prefixed-CB space are out of scope;
// any opcode outside this bounded list — including an attempted DDCB/FDCB
// — falls to the default case and raises invalid-opcode.
func (c *CPU) execIndex(prefix uint8) int {
	idx := c.idxPtr(prefix)
	op := c.fetchByte()

	switch op {
	case 0x21:
		*idx = c.fetchWord()
		return 14
	case 0x2A:
		*idx = c.readWord(c.fetchWord())
		return 20
	case 0x22:
		c.writeWord(c.fetchWord(), *idx)
		return 20
	case 0xE5:
		c.push(*idx)
		return 15
	case 0xE1:
		*idx = c.pop()
		return 14
	case 0x09, 0x19, 0x29, 0x39:
		rr := c.idxRP(prefix, op>>4)
		*idx = c.Reg.aluAddHL16(*idx, rr)
		return 15
	case 0x86, 0x8E, 0x96, 0x9E, 0xA6, 0xAE, 0xB6, 0xBE:
		y := (op >> 3) & 7
		v := c.readMem(c.effectiveIdx(*idx))
		c.aluOp(y, v)
		return 19
	case 0x34:
		addr := c.effectiveIdx(*idx)
		c.writeMem(addr, c.Reg.aluInc8(c.readMem(addr)))
		return 23
	case 0x35:
		addr := c.effectiveIdx(*idx)
		c.writeMem(addr, c.Reg.aluDec8(c.readMem(addr)))
		return 23
	case 0x36:
		addr := c.effectiveIdx(*idx)
		n := c.fetchByte()
		c.writeMem(addr, n)
		return 19
	case 0x23:
		*idx++
		return 10
	case 0x2B:
		*idx--
		return 10
	case 0xF9:
		c.Reg.SP = *idx
		return 10
	case 0xE9:
		c.Reg.PC = *idx
		return 8
	case 0xE3:
		sp := c.Reg.SP
		lo := c.readMem(sp)
		hi := c.readMem(sp + 1)
		c.writeMem(sp, uint8(*idx))
		c.writeMem(sp+1, uint8(*idx>>8))
		*idx = uint16(hi)<<8 | uint16(lo)
		return 23
	default:
		if op&0xF8 == 0x70 && op != 0x76 {
			// LD (iz+d),r: source register is the low 3 bits.
			addr := c.effectiveIdx(*idx)
			c.writeMem(addr, c.getR8(op&7))
			return 19
		}
		if op >= 0x46 && op <= 0x7E && op&7 == 6 && op != 0x76 {
			// LD r,(iz+d): destination register is bits 5-3.
			addr := c.effectiveIdx(*idx)
			c.setR8((op>>3)&7, c.readMem(addr))
			return 19
		}
		panic(invalidOpcodePanic{})
	}
}

// idxPtr returns a pointer to IX or IY depending on the prefix byte that
// routed here.
func (c *CPU) idxPtr(prefix uint8) *uint16 {
	if prefix == 0xDD {
		return &c.Reg.IX
	}
	return &c.Reg.IY
}

// idxRP resolves the ADD iz,rr source operand: BC, DE, iz itself, or SP.
func (c *CPU) idxRP(prefix uint8, nibble uint8) uint16 {
	switch nibble {
	case 0x0:
		return c.Reg.bc()
	case 0x1:
		return c.Reg.de()
	case 0x2:
		return *c.idxPtr(prefix)
	default:
		return c.Reg.SP
	}
}
