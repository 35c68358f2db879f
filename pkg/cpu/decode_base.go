package cpu

// This file implements the unprefixed base table (spec §4.5). The opcode
// byte is decomposed as x = bits 7-6, y = bits 5-3, z = bits 2-0, following
// the standard Z80 bit-field decoding used throughout the emulator
// community (and in the thegtproject/retrogolib references this dispatcher
// is grounded on) rather than 256 hand-written case labels: it is the same
// table the teacher's own inst.Catalog encodes as data, expressed here as
// control flow instead.

// getR8 reads one of the eight register operands named by a 3-bit field:
// B,C,D,E,H,L,(HL),A.
func (c *CPU) getR8(z uint8) uint8 {
	switch z {
	case 0:
		return c.Reg.main.B
	case 1:
		return c.Reg.main.C
	case 2:
		return c.Reg.main.D
	case 3:
		return c.Reg.main.E
	case 4:
		return c.Reg.main.H
	case 5:
		return c.Reg.main.L
	case 6:
		return c.readMem(c.Reg.hl())
	default:
		return c.Reg.main.A
	}
}

func (c *CPU) setR8(z uint8, v uint8) {
	switch z {
	case 0:
		c.Reg.main.B = v
	case 1:
		c.Reg.main.C = v
	case 2:
		c.Reg.main.D = v
	case 3:
		c.Reg.main.E = v
	case 4:
		c.Reg.main.H = v
	case 5:
		c.Reg.main.L = v
	case 6:
		c.writeMem(c.Reg.hl(), v)
	default:
		c.Reg.main.A = v
	}
}

// getRP reads one of BC,DE,HL,SP selected by a 2-bit field.
func (c *CPU) getRP(p uint8) uint16 {
	switch p {
	case 0:
		return c.Reg.bc()
	case 1:
		return c.Reg.de()
	case 2:
		return c.Reg.hl()
	default:
		return c.Reg.SP
	}
}

func (c *CPU) setRP(p uint8, v uint16) {
	switch p {
	case 0:
		c.Reg.setBC(v)
	case 1:
		c.Reg.setDE(v)
	case 2:
		c.Reg.setHL(v)
	default:
		c.Reg.SP = v
	}
}

// getRP2/setRP2 are the PUSH/POP variant: BC,DE,HL,AF.
func (c *CPU) getRP2(p uint8) uint16 {
	if p == 3 {
		return c.Reg.af()
	}
	return c.getRP(p)
}

func (c *CPU) setRP2(p uint8, v uint16) {
	if p == 3 {
		c.Reg.setAF(v)
		return
	}
	c.setRP(p, v)
}

// testCC evaluates one of the eight branch conditions: NZ,Z,NC,C,PO,PE,P,M.
func (c *CPU) testCC(y uint8) bool {
	f := c.Reg.main.F
	switch y {
	case 0:
		return f&FlagZ == 0
	case 1:
		return f&FlagZ != 0
	case 2:
		return f&FlagC == 0
	case 3:
		return f&FlagC != 0
	case 4:
		return f&FlagP == 0
	case 5:
		return f&FlagP != 0
	case 6:
		return f&FlagS == 0
	default:
		return f&FlagS != 0
	}
}

// aluOp applies one of the eight ALU-group operations (ADD,ADC,SUB,SBC,
// AND,XOR,OR,CP) selected by a 3-bit field to A and b.
func (c *CPU) aluOp(y uint8, b uint8) {
	switch y {
	case 0:
		c.Reg.aluAdd(b, 0)
	case 1:
		c.Reg.aluAdd(b, c.Reg.main.F&FlagC)
	case 2:
		c.Reg.aluSub(b, 0, false)
	case 3:
		c.Reg.aluSub(b, c.Reg.main.F&FlagC, false)
	case 4:
		c.Reg.aluAnd(b)
	case 5:
		c.Reg.aluXor(b)
	case 6:
		c.Reg.aluOr(b)
	case 7:
		c.Reg.aluSub(b, 0, true)
	}
}

func (c *CPU) execBase(op uint8) int {
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		return c.execBaseX0(op, y, z, p, q)
	case 1:
		return c.execBaseX1(y, z)
	case 2:
		c.aluOp(y, c.getR8(z))
		return bsel16(z == 6, 7, 4)
	default:
		return c.execBaseX3(op, y, z, p, q)
	}
}

func bsel16(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}

func (c *CPU) execBaseX0(op, y, z, p, q uint8) int {
	switch z {
	case 0:
		switch {
		case y == 0:
			return 4 // NOP
		case y == 1:
			c.Reg.swapAF()
			return 4
		case y == 2:
			c.Reg.main.B--
			d := c.fetchDisp()
			if c.Reg.main.B != 0 {
				c.Reg.PC = uint16(int32(c.Reg.PC) + int32(d))
				return 13
			}
			return 8
		case y == 3:
			d := c.fetchDisp()
			c.Reg.PC = uint16(int32(c.Reg.PC) + int32(d))
			return 12
		default:
			d := c.fetchDisp()
			if c.testCC(y - 4) {
				c.Reg.PC = uint16(int32(c.Reg.PC) + int32(d))
				return 12
			}
			return 7
		}
	case 1:
		if q == 0 {
			c.setRP(p, c.fetchWord())
			return 10
		}
		c.Reg.setHL(c.Reg.aluAddHL16(c.Reg.hl(), c.getRP(p)))
		return 11
	case 2:
		return c.execIndirectLoad(p, q)
	case 3:
		v := c.getRP(p)
		if q == 0 {
			c.setRP(p, v+1)
		} else {
			c.setRP(p, v-1)
		}
		return 6
	case 4:
		c.setR8(y, c.Reg.aluInc8(c.getR8(y)))
		return bsel16(y == 6, 11, 4)
	case 5:
		c.setR8(y, c.Reg.aluDec8(c.getR8(y)))
		return bsel16(y == 6, 11, 4)
	case 6:
		n := c.fetchByte()
		c.setR8(y, n)
		return bsel16(y == 6, 10, 7)
	default: // z == 7
		switch y {
		case 0:
			c.Reg.rlca()
		case 1:
			c.Reg.rrca()
		case 2:
			c.Reg.rla()
		case 3:
			c.Reg.rra()
		case 4:
			c.Reg.daa()
		case 5:
			c.Reg.cpl()
		case 6:
			c.Reg.scf()
		case 7:
			c.Reg.ccf()
		}
		return 4
	}
}

func (c *CPU) execIndirectLoad(p, q uint8) int {
	if q == 0 {
		switch p {
		case 0:
			c.writeMem(c.Reg.bc(), c.Reg.main.A)
			return 7
		case 1:
			c.writeMem(c.Reg.de(), c.Reg.main.A)
			return 7
		case 2:
			c.writeWord(c.fetchWord(), c.Reg.hl())
			return 16
		default:
			c.writeMem(c.fetchWord(), c.Reg.main.A)
			return 13
		}
	}
	switch p {
	case 0:
		c.Reg.main.A = c.readMem(c.Reg.bc())
		return 7
	case 1:
		c.Reg.main.A = c.readMem(c.Reg.de())
		return 7
	case 2:
		c.Reg.setHL(c.readWord(c.fetchWord()))
		return 16
	default:
		c.Reg.main.A = c.readMem(c.fetchWord())
		return 13
	}
}

func (c *CPU) execBaseX1(y, z uint8) int {
	if y == 6 && z == 6 {
		c.Reg.Halted = true
		return 4
	}
	c.setR8(y, c.getR8(z))
	return bsel16(y == 6 || z == 6, 7, 4)
}

func (c *CPU) execBaseX3(op, y, z, p, q uint8) int {
	switch z {
	case 0:
		if c.testCC(y) {
			c.Reg.PC = c.pop()
			return 11
		}
		return 5
	case 1:
		if q == 0 {
			c.setRP2(p, c.pop())
			return 10
		}
		switch p {
		case 0:
			c.Reg.PC = c.pop()
			return 10
		case 1:
			c.Reg.swapBCDEHL()
			return 4
		case 2:
			c.Reg.PC = c.Reg.hl()
			return 4
		default:
			c.Reg.SP = c.Reg.hl()
			return 6
		}
	case 2:
		addr := c.fetchWord()
		if c.testCC(y) {
			c.Reg.PC = addr
		}
		return 10
	case 3:
		return c.execMisc(y)
	case 4:
		addr := c.fetchWord()
		if c.testCC(y) {
			c.push(c.Reg.PC)
			c.Reg.PC = addr
			return 17
		}
		return 10
	case 5:
		if q == 0 {
			c.push(c.getRP2(p))
			return 11
		}
		switch p {
		case 0:
			addr := c.fetchWord()
			c.push(c.Reg.PC)
			c.Reg.PC = addr
			return 17
		case 1:
			return c.execIndex(0xDD)
		case 2:
			return c.execED()
		default:
			return c.execIndex(0xFD)
		}
	case 6:
		n := c.fetchByte()
		c.aluOp(y, n)
		return 7
	default:
		c.push(c.Reg.PC)
		c.Reg.PC = uint16(y) * 8
		return 11
	}
}

func (c *CPU) execMisc(y uint8) int {
	switch y {
	case 0:
		c.Reg.PC = c.fetchWord()
		return 10
	case 1:
		return c.execCB()
	case 2:
		n := c.fetchByte()
		c.writeIO(uint16(n), c.Reg.main.A)
		return 11
	case 3:
		n := c.fetchByte()
		c.Reg.main.A = c.readIO(uint16(n))
		return 11
	case 4:
		sp := c.Reg.SP
		lo := c.readMem(sp)
		hi := c.readMem(sp + 1)
		c.writeMem(sp, uint8(c.Reg.hl()))
		c.writeMem(sp+1, uint8(c.Reg.hl()>>8))
		c.Reg.setHL(uint16(hi)<<8 | uint16(lo))
		return 19
	case 5:
		d, e := c.Reg.main.D, c.Reg.main.E
		c.Reg.main.D, c.Reg.main.E = c.Reg.main.H, c.Reg.main.L
		c.Reg.main.H, c.Reg.main.L = d, e
		return 4
	case 6:
		c.Reg.IFF1, c.Reg.IFF2 = false, false
		return 4
	default:
		c.Reg.IFF1, c.Reg.IFF2 = true, true
		return 4
	}
}
