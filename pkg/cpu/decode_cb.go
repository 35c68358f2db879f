package cpu

// execCB implements the CB-prefixed table (spec §4.5): rotate/shift and
// BIT/SET/RES across all eight register operands. Decoded with the same
// x/y/z bit fields as the base table: x=00 rotate/shift group (SLL, y=6,
// is intentionally unimplemented and falls through to invalid-opcode),
// x=01 BIT, x=10 RES, x=11 SET.
func (c *CPU) execCB() int {
	op := c.fetchByte()
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7

	v := c.getR8(z)
	indirect := z == 6

	switch x {
	case 0:
		res, ok := c.rotOp(y, v)
		if !ok {
			panic(invalidOpcodePanic{})
		}
		c.setR8(z, res)
		return bsel16(indirect, 15, 8)
	case 1:
		c.Reg.bit(uint(y), v)
		return bsel16(indirect, 12, 8)
	case 2:
		c.setR8(z, v & ^(uint8(1)<<y))
		return bsel16(indirect, 15, 8)
	default:
		c.setR8(z, v|(uint8(1)<<y))
		return bsel16(indirect, 15, 8)
	}
}

// rotOp dispatches RLC,RRC,RL,RR,SLA,SRA,SRL by the 3-bit y selector. y==6
// (SLL) reports ok=false: it is out of scope per spec.md.
func (c *CPU) rotOp(y uint8, v uint8) (uint8, bool) {
	switch y {
	case 0:
		return c.Reg.rlc(v), true
	case 1:
		return c.Reg.rrc(v), true
	case 2:
		return c.Reg.rl(v), true
	case 3:
		return c.Reg.rrot(v), true
	case 4:
		return c.Reg.sla(v), true
	case 5:
		return c.Reg.sra(v), true
	case 6:
		return 0, false
	default:
		return c.Reg.srl(v), true
	}
}

// invalidOpcodePanic is a lightweight internal signal converted to
// ErrInvalidOpcode by execBase's caller. It keeps the deeply nested decode
// switches from having to thread an error return through every case.
type invalidOpcodePanic struct{}
