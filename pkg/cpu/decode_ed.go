package cpu

// execED implements the ED-prefixed extended table (spec §4.5): 16-bit
// loads through memory, NEG, the interrupt-mode setters, LD I,A/LD R,A/
// LD A,I/LD A,R, RLD/RRD, RETI/RETN, the documented IN/OUT forms, and the
// eight block instructions (LDxx/CPxx/INxx/OUTxx). Opcodes outside these
// documented groups raise invalid-opcode, matching the teacher's stance
// that unused table entries are errors rather than silent NOPs.
func (c *CPU) execED() int {
	op := c.fetchByte()
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 1:
		return c.execEDRegs(y, z, p, q)
	case 2:
		return c.execEDBlock(y, z)
	default:
		panic(invalidOpcodePanic{})
	}
}

func (c *CPU) execEDRegs(y, z, p, q uint8) int {
	switch z {
	case 0:
		v := c.readIO(c.Reg.bc())
		if y != 6 {
			c.setR8(y, v)
		}
		c.Reg.main.F = sz53pTable[v] | (c.Reg.main.F & FlagC)
		return 12
	case 1:
		var v uint8
		if y != 6 {
			v = c.getR8(y)
		}
		c.writeIO(c.Reg.bc(), v)
		return 12
	case 2:
		rp := c.getRP(p)
		if q == 0 {
			c.Reg.setHL(c.Reg.aluSbcHL16(c.Reg.hl(), rp))
		} else {
			c.Reg.setHL(c.Reg.aluAdcHL16(c.Reg.hl(), rp))
		}
		return 15
	case 3:
		addr := c.fetchWord()
		if q == 0 {
			c.writeWord(addr, c.getRP(p))
		} else {
			c.setRP(p, c.readWord(addr))
		}
		return 20
	case 4:
		c.Reg.neg()
		return 8
	case 5:
		c.Reg.PC = c.pop()
		if y == 1 {
			// RETI: no interrupt controller to notify in this core.
		} else {
			c.Reg.IFF1 = c.Reg.IFF2
		}
		return 14
	case 6:
		imTable := [8]uint8{0, 0, 1, 2, 0, 0, 1, 2}
		c.Reg.IM = imTable[y]
		return 8
	default:
		return c.execEDSpecial(y)
	}
}

func (c *CPU) execEDSpecial(y uint8) int {
	switch y {
	case 0:
		c.Reg.I = c.Reg.main.A
		return 9
	case 1:
		c.Reg.R = c.Reg.main.A
		return 9
	case 2:
		c.Reg.main.A = c.Reg.I
		c.setIRFlags(c.Reg.I)
		return 9
	case 3:
		c.Reg.main.A = c.Reg.R
		c.setIRFlags(c.Reg.R)
		return 9
	case 4:
		hl := c.Reg.hl()
		mem := c.readMem(hl)
		_, newMem := c.Reg.rrd(mem)
		c.writeMem(hl, newMem)
		return 18
	case 5:
		hl := c.Reg.hl()
		mem := c.readMem(hl)
		_, newMem := c.Reg.rld(mem)
		c.writeMem(hl, newMem)
		return 18
	default:
		panic(invalidOpcodePanic{})
	}
}

// setIRFlags implements the LD A,I / LD A,R flag rule: P/V copies IFF2.
func (c *CPU) setIRFlags(v uint8) {
	f := sz53Table[v] | (c.Reg.main.F & FlagC)
	if c.Reg.IFF2 {
		f |= FlagP
	}
	c.Reg.main.F = f
}

func (c *CPU) execEDBlock(y, z uint8) int {
	if y < 4 {
		panic(invalidOpcodePanic{})
	}
	repeat := y >= 6
	decrement := y == 5 || y == 7

	switch z {
	case 0:
		return c.blockLD(decrement, repeat)
	case 1:
		return c.blockCP(decrement, repeat)
	case 2:
		return c.blockIN(decrement, repeat)
	case 3:
		return c.blockOUT(decrement, repeat)
	default:
		panic(invalidOpcodePanic{})
	}
}

func (c *CPU) step16(decrement bool, v uint16) uint16 {
	if decrement {
		return v - 1
	}
	return v + 1
}

func (c *CPU) blockLD(decrement, repeat bool) int {
	hl, de := c.Reg.hl(), c.Reg.de()
	b := c.readMem(hl)
	c.writeMem(de, b)
	c.Reg.setHL(c.step16(decrement, hl))
	c.Reg.setDE(c.step16(decrement, de))
	bc := c.Reg.bc() - 1
	c.Reg.setBC(bc)
	c.Reg.ldBlockFlags(b, bc)

	if repeat && bc != 0 {
		c.Reg.PC -= 2
		return 21
	}
	return 16
}

func (c *CPU) blockCP(decrement, repeat bool) int {
	hl := c.Reg.hl()
	b := c.readMem(hl)
	c.Reg.setHL(c.step16(decrement, hl))
	bc := c.Reg.bc() - 1
	c.Reg.setBC(bc)
	c.Reg.cpBlockFlags(b, bc)

	res := c.Reg.main.A - b
	if repeat && bc != 0 && res != 0 {
		c.Reg.PC -= 2
		return 21
	}
	return 16
}

func (c *CPU) blockIN(decrement, repeat bool) int {
	hl := c.Reg.hl()
	v := c.readIO(c.Reg.bc())
	c.writeMem(hl, v)
	c.Reg.setHL(c.step16(decrement, hl))
	c.Reg.main.B--
	c.Reg.ioBlockFlags(c.Reg.main.B, v, false)

	if repeat && c.Reg.main.B != 0 {
		c.Reg.PC -= 2
		return 21
	}
	return 16
}

func (c *CPU) blockOUT(decrement, repeat bool) int {
	hl := c.Reg.hl()
	v := c.readMem(hl)
	c.writeIO(c.Reg.bc(), v)
	c.Reg.setHL(c.step16(decrement, hl))
	c.Reg.main.B--
	c.Reg.ioBlockFlags(c.Reg.main.B, v, false)

	if repeat && c.Reg.main.B != 0 {
		c.Reg.PC -= 2
		return 21
	}
	return 16
}
