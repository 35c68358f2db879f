package cpu

// regSet is one bank of the eight general-purpose 8-bit registers. The main
// and shadow banks are each one of these; EXX/EX AF,AF' swap fields between
// them rather than flipping a "current bank" pointer (see design notes:
// direct field access beats pointer indirection for the common case).
type regSet struct {
	A, F, B, C, D, E, H, L uint8
}

// Registers holds the complete Z80 register file: the main and shadow
// 8-bit banks, the index/stack/program counters, the refresh pair, and the
// interrupt-control latches.
type Registers struct {
	main regSet
	alt  regSet

	IX, IY uint16
	SP, PC uint16
	I, R   uint8

	IFF1, IFF2 bool
	IM         uint8

	Halted bool
}

// Reset zeroes the entire register file. Bus callbacks live outside
// Registers and are untouched by reset.
func (r *Registers) Reset() {
	*r = Registers{}
}

// af/setAF, bc/setBC, etc. read and write the big-endian paired view of the
// current bank: high byte first (A, B, D, H), low byte second (F, C, E, L).
func (r *Registers) af() uint16 { return uint16(r.main.A)<<8 | uint16(r.main.F) }
func (r *Registers) bc() uint16 { return uint16(r.main.B)<<8 | uint16(r.main.C) }
func (r *Registers) de() uint16 { return uint16(r.main.D)<<8 | uint16(r.main.E) }
func (r *Registers) hl() uint16 { return uint16(r.main.H)<<8 | uint16(r.main.L) }

func (r *Registers) setAF(v uint16) { r.main.A, r.main.F = uint8(v>>8), uint8(v) }
func (r *Registers) setBC(v uint16) { r.main.B, r.main.C = uint8(v>>8), uint8(v) }
func (r *Registers) setDE(v uint16) { r.main.D, r.main.E = uint8(v>>8), uint8(v) }
func (r *Registers) setHL(v uint16) { r.main.H, r.main.L = uint8(v>>8), uint8(v) }

// swapAF exchanges A and F with their shadow counterparts. EX AF,AF' touches
// only these two registers.
func (r *Registers) swapAF() {
	r.main.A, r.alt.A = r.alt.A, r.main.A
	r.main.F, r.alt.F = r.alt.F, r.main.F
}

// swapBCDEHL exchanges the entire BCDEHL bank with its shadow. This is EXX.
func (r *Registers) swapBCDEHL() {
	r.main.B, r.alt.B = r.alt.B, r.main.B
	r.main.C, r.alt.C = r.alt.C, r.main.C
	r.main.D, r.alt.D = r.alt.D, r.main.D
	r.main.E, r.alt.E = r.alt.E, r.main.E
	r.main.H, r.alt.H = r.alt.H, r.main.H
	r.main.L, r.alt.L = r.alt.L, r.main.L
}

// Reg8 names an 8-bit register for the external get8/set8 surface (spec §4.2,
// §6). Values are the main-bank registers plus I and R; shadow access is a
// separate boolean, matching "get8(name, shadow?)".
type Reg8 int

const (
	RegA Reg8 = iota
	RegF
	RegB
	RegC
	RegD
	RegE
	RegH
	RegL
	RegI
	RegR
)

// Reg16 names a register pair for the external get16/set16 surface.
type Reg16 int

const (
	RegAF Reg16 = iota
	RegBC
	RegDE
	RegHL
	RegIX
	RegIY
	RegSP
	RegPC
)

// Get8 reads an 8-bit register, optionally from the shadow bank. I and R
// have no shadow counterpart; shadow is ignored for them.
func (r *Registers) Get8(name Reg8, shadow bool) uint8 {
	bank := &r.main
	if shadow {
		bank = &r.alt
	}
	switch name {
	case RegA:
		return bank.A
	case RegF:
		return bank.F
	case RegB:
		return bank.B
	case RegC:
		return bank.C
	case RegD:
		return bank.D
	case RegE:
		return bank.E
	case RegH:
		return bank.H
	case RegL:
		return bank.L
	case RegI:
		return r.I
	case RegR:
		return r.R
	}
	return 0
}

// Set8 writes an 8-bit register, optionally into the shadow bank.
func (r *Registers) Set8(name Reg8, v uint8, shadow bool) {
	bank := &r.main
	if shadow {
		bank = &r.alt
	}
	switch name {
	case RegA:
		bank.A = v
	case RegF:
		bank.F = v
	case RegB:
		bank.B = v
	case RegC:
		bank.C = v
	case RegD:
		bank.D = v
	case RegE:
		bank.E = v
	case RegH:
		bank.H = v
	case RegL:
		bank.L = v
	case RegI:
		r.I = v
	case RegR:
		r.R = v
	}
}

// Get16 reads a register pair from the current bank (AF/BC/DE/HL) or a
// dedicated 16-bit register (IX/IY/SP/PC).
func (r *Registers) Get16(name Reg16) uint16 {
	switch name {
	case RegAF:
		return r.af()
	case RegBC:
		return r.bc()
	case RegDE:
		return r.de()
	case RegHL:
		return r.hl()
	case RegIX:
		return r.IX
	case RegIY:
		return r.IY
	case RegSP:
		return r.SP
	case RegPC:
		return r.PC
	}
	return 0
}

// Set16 writes a register pair.
func (r *Registers) Set16(name Reg16, v uint16) {
	switch name {
	case RegAF:
		r.setAF(v)
	case RegBC:
		r.setBC(v)
	case RegDE:
		r.setDE(v)
	case RegHL:
		r.setHL(v)
	case RegIX:
		r.IX = v
	case RegIY:
		r.IY = v
	case RegSP:
		r.SP = v
	case RegPC:
		r.PC = v
	}
}
