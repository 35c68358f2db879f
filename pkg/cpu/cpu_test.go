package cpu

import (
	"testing"

	"github.com/z80dev/z80core/pkg/bus"
)

// testMachine wires a flat 64KiB memory array and a byte-indexed IO space
// to a CPU, the way a minimal embedder would.
type testMachine struct {
	mem [65536]uint8
	io  [65536]uint8
	cpu *CPU
}

func newTestMachine() *testMachine {
	m := &testMachine{}
	b := &bus.Bus{
		MemRead:  func(addr uint16) uint8 { return m.mem[addr] },
		MemWrite: func(addr uint16, v uint8) { m.mem[addr] = v },
		IORead:   func(addr uint16) uint8 { return m.io[addr] },
		IOWrite:  func(addr uint16, v uint8) { m.io[addr] = v },
	}
	m.cpu = New(b)
	return m
}

func (m *testMachine) load(addr uint16, prog ...uint8) {
	for i, b := range prog {
		m.mem[int(addr)+i] = b
	}
}

// runUntilHalt steps the CPU until it halts or the step budget is
// exhausted, failing the test on a sticky error.
func (m *testMachine) runUntilHalt(t *testing.T, budget int) {
	t.Helper()
	for i := 0; i < budget; i++ {
		if m.cpu.IsHalted() {
			return
		}
		if _, err := m.cpu.Step(); err != nil {
			t.Fatalf("Step() error: %v", err)
		}
	}
	t.Fatalf("did not halt within %d steps", budget)
}

func TestScenarioAndRegister(t *testing.T) {
	m := newTestMachine()
	m.load(0, 0x3E, 0xC3, 0x06, 0x7A, 0xA0, 0x76) // ld a,0xC3; ld b,0x7A; and b; halt
	m.runUntilHalt(t, 100)

	if a := m.cpu.GetReg8(RegA, false); a != 0x42 {
		t.Errorf("A = 0x%02X, want 0x42", a)
	}
	if b := m.cpu.GetReg8(RegB, false); b != 0x7A {
		t.Errorf("B = 0x%02X, want 0x7A", b)
	}
	if f := m.cpu.GetReg8(RegF, false); f != 0x14 {
		t.Errorf("F = 0x%02X, want 0x14", f)
	}
	if pc := m.cpu.GetReg16(RegPC); pc != 0x0006 {
		t.Errorf("PC = 0x%04X, want 0x0006", pc)
	}
}

func TestScenarioAddAdcOverflow(t *testing.T) {
	m := newTestMachine()
	// ld a,0xFF; add a,0x02; adc a,0xFF; halt
	m.load(0, 0x3E, 0xFF, 0xC6, 0x02, 0xCE, 0xFF, 0x76)
	m.runUntilHalt(t, 100)

	if a := m.cpu.GetReg8(RegA, false); a != 0x01 {
		t.Errorf("A = 0x%02X, want 0x01", a)
	}
	// Both additions carry out of bits 3 and 7 (H, C); neither overflows
	// as a signed addition, so P/V stays clear.
	if f := m.cpu.GetReg8(RegF, false); f != 0x11 {
		t.Errorf("F = 0x%02X, want 0x11", f)
	}
	if pc := m.cpu.GetReg16(RegPC); pc != 0x0007 {
		t.Errorf("PC = 0x%04X, want 0x0007", pc)
	}
}

func TestScenarioDaa(t *testing.T) {
	m := newTestMachine()
	m.load(0, 0x3E, 0x9F, 0x27, 0x76) // ld a,0x9F; daa; halt
	m.runUntilHalt(t, 100)

	if a := m.cpu.GetReg8(RegA, false); a != 0x05 {
		t.Errorf("A = 0x%02X, want 0x05", a)
	}
	if f := m.cpu.GetReg8(RegF, false); f != 0x15 {
		t.Errorf("F = 0x%02X, want 0x15", f)
	}
	if pc := m.cpu.GetReg16(RegPC); pc != 0x0004 {
		t.Errorf("PC = 0x%04X, want 0x0004", pc)
	}
}

func TestScenarioDjnz(t *testing.T) {
	m := newTestMachine()
	// ld b,0x02; djnz +0x03 (to the halt at offset 7); halt at 4; halt at target
	m.load(0,
		0x06, 0x02, // ld b,0x02          (0,1)
		0x10, 0x03, // djnz +3             (2,3)  -> target = 4 + 3 = 7
		0x76, // halt (not taken path)     (4)
		0x00, 0x00, // padding             (5,6)
		0x76, // halt (target)             (7)
	)
	m.runUntilHalt(t, 100)

	if b := m.cpu.GetReg8(RegB, false); b != 1 {
		t.Errorf("B = %d, want 1", b)
	}
	if pc := m.cpu.GetReg16(RegPC); pc != 0x0008 {
		t.Errorf("PC = 0x%04X, want 0x0008", pc)
	}
}

func TestScenarioJrNz(t *testing.T) {
	m := newTestMachine()
	// ld a,0x00; inc a; jr nz,+1; halt (skipped); halt (target)
	m.load(0,
		0x3E, 0x00, // ld a,0             (0,1)
		0x3C, // inc a                    (2)
		0x20, 0x01, // jr nz,+1 -> target = 5 + 1 = 6
		0x76, // halt (skipped)           (5)
		0x76, // halt (target)            (6)
	)
	m.runUntilHalt(t, 100)

	if a := m.cpu.GetReg8(RegA, false); a != 1 {
		t.Errorf("A = %d, want 1", a)
	}
	if pc := m.cpu.GetReg16(RegPC); pc != 0x0007 {
		t.Errorf("PC = 0x%04X, want 0x0007", pc)
	}
}

func TestPushPopRoundTrip(t *testing.T) {
	m := newTestMachine()
	m.cpu.SetReg16(RegSP, 0x2000)
	m.cpu.SetReg16(RegDE, 0x1234)
	m.load(0, 0xD5, 0xE1, 0x76) // push de; pop hl; halt
	m.runUntilHalt(t, 100)

	if hl := m.cpu.GetReg16(RegHL); hl != 0x1234 {
		t.Errorf("HL = 0x%04X, want 0x1234", hl)
	}
	if sp := m.cpu.GetReg16(RegSP); sp != 0x2000 {
		t.Errorf("SP = 0x%04X, want 0x2000 (restored)", sp)
	}
}

func TestAddressWrapOnWordStore(t *testing.T) {
	m := newTestMachine()
	m.cpu.SetReg16(RegHL, 0xABCD)
	m.load(0, 0x22, 0xFF, 0xFF, 0x76) // ld (0xFFFF),hl; halt
	m.runUntilHalt(t, 100)

	if m.mem[0xFFFF] != 0xCD {
		t.Errorf("mem[0xFFFF] = 0x%02X, want 0xCD", m.mem[0xFFFF])
	}
	if m.mem[0x0000] != 0xAB {
		t.Errorf("mem[0x0000] = 0x%02X, want 0xAB (address wrap)", m.mem[0x0000])
	}
}

func TestInvalidOpcodeIsSticky(t *testing.T) {
	m := newTestMachine()
	m.load(0, 0xED, 0x00, 0x00) // ED 0x00 is an unused ED-table entry
	_, err := m.cpu.Step()
	if err != ErrInvalidOpcode {
		t.Fatalf("err = %v, want ErrInvalidOpcode", err)
	}
	_, err2 := m.cpu.Step()
	if err2 != ErrInvalidOpcode {
		t.Fatal("invalid-opcode error must stick across subsequent Step calls")
	}
	if m.cpu.Err() != ErrInvalidOpcode {
		t.Fatal("Err() must report the sticky error")
	}
}

func TestSllIsOutOfScope(t *testing.T) {
	m := newTestMachine()
	m.load(0, 0xCB, 0x30) // SLL B
	_, err := m.cpu.Step()
	if err != ErrInvalidOpcode {
		t.Fatalf("SLL must be treated as invalid opcode, got %v", err)
	}
}

func TestDdcbIsOutOfScope(t *testing.T) {
	m := newTestMachine()
	m.load(0, 0xDD, 0xCB, 0x00, 0x06) // attempted DDCB
	_, err := m.cpu.Step()
	if err != ErrInvalidOpcode {
		t.Fatalf("DDCB must be treated as invalid opcode, got %v", err)
	}
}

func TestHaltReturnsFourTStatesWithoutFetch(t *testing.T) {
	m := newTestMachine()
	m.load(0, 0x76)
	tstates, err := m.cpu.Step()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tstates != 4 {
		t.Fatalf("HALT fetch = %d, want 4", tstates)
	}
	pcAfterHalt := m.cpu.GetReg16(RegPC)
	tstates2, err2 := m.cpu.Step()
	if err2 != nil || tstates2 != 4 {
		t.Fatalf("post-halt Step = (%d,%v), want (4,nil)", tstates2, err2)
	}
	if m.cpu.GetReg16(RegPC) != pcAfterHalt {
		t.Fatal("halted Step must not advance PC")
	}
}

func TestUserAbortShortCircuits(t *testing.T) {
	m := newTestMachine()
	aborted := false
	m.cpu.bus.Abort = func() bool { return aborted }
	m.load(0, 0x3E, 0x01, 0x3E, 0x02) // ld a,1; ld a,2
	if _, err := m.cpu.Step(); err != nil {
		t.Fatalf("first Step should succeed, got %v", err)
	}
	aborted = true
	_, err := m.cpu.Step()
	if err != ErrUserAbort {
		t.Fatalf("err = %v, want ErrUserAbort", err)
	}
	if m.cpu.GetReg8(RegA, false) != 1 {
		t.Fatal("abort during opcode fetch must leave A at its pre-abort value")
	}
	if m.cpu.Err() != ErrUserAbort {
		t.Fatal("ErrUserAbort must stick")
	}
}

func TestIndexedLoadArithmetic(t *testing.T) {
	m := newTestMachine()
	m.cpu.SetReg16(RegIX, 0x0100)
	m.mem[0x0105] = 0x10
	m.cpu.SetReg8(RegA, 0x05, false)
	m.load(0, 0xDD, 0x86, 0x05, 0x76) // add a,(ix+5); halt
	m.runUntilHalt(t, 100)
	if a := m.cpu.GetReg8(RegA, false); a != 0x15 {
		t.Errorf("A = 0x%02X, want 0x15", a)
	}
}

func TestExStackPointerHL(t *testing.T) {
	m := newTestMachine()
	m.cpu.SetReg16(RegSP, 0x1000)
	m.cpu.SetReg16(RegHL, 0xABCD)
	m.mem[0x1000] = 0x34
	m.mem[0x1001] = 0x12
	m.load(0, 0xE3, 0x76) // ex (sp),hl; halt
	m.runUntilHalt(t, 100)
	if hl := m.cpu.GetReg16(RegHL); hl != 0x1234 {
		t.Errorf("HL = 0x%04X, want 0x1234", hl)
	}
	if m.mem[0x1000] != 0xCD || m.mem[0x1001] != 0xAB {
		t.Errorf("stack top = %02X%02X, want CDAB", m.mem[0x1001], m.mem[0x1000])
	}
}

func TestLdirCopiesExactlyBCBytes(t *testing.T) {
	m := newTestMachine()
	m.cpu.SetReg16(RegHL, 0x2000)
	m.cpu.SetReg16(RegDE, 0x3000)
	m.cpu.SetReg16(RegBC, 4)
	for i := 0; i < 4; i++ {
		m.mem[0x2000+i] = uint8(0x10 + i)
	}
	m.load(0x0000, 0xED, 0xB0, 0x76) // ldir; halt
	m.runUntilHalt(t, 100)

	for i := 0; i < 4; i++ {
		if m.mem[0x3000+i] != uint8(0x10+i) {
			t.Errorf("mem[0x%04X] = 0x%02X, want 0x%02X", 0x3000+i, m.mem[0x3000+i], 0x10+i)
		}
	}
	if bc := m.cpu.GetReg16(RegBC); bc != 0 {
		t.Errorf("BC = %d, want 0 after LDIR completes", bc)
	}
}
