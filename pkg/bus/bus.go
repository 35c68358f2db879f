// Package bus defines the memory/IO callback contract the cpu package is
// driven through. The core never owns memory; it only ever calls back into
// whatever the embedder wired up here.
package bus

// MemReader reads one byte from the 64KiB memory space. Addresses wrap
// modulo 65536; the callback is responsible for applying that wrap if its
// backing store is smaller.
type MemReader func(addr uint16) uint8

// MemWriter writes one byte to the 64KiB memory space.
type MemWriter func(addr uint16, value uint8)

// IOReader reads one byte from the 16-bit IO space.
type IOReader func(addr uint16) uint8

// IOWriter writes one byte to the 16-bit IO space.
type IOWriter func(addr uint16, value uint8)

// AbortPoll is an optional embedder hook, polled after every memory/IO call.
// It should return true when the embedder wants to cancel the instruction
// currently executing (e.g. a failed file-backed read). Most embedders can
// leave this nil.
type AbortPoll func() bool

// Bus bundles the four callables the core treats as its only external
// dependency (spec §4.1). All four fields must be set; AbortPoll is
// optional.
type Bus struct {
	MemRead  MemReader
	MemWrite MemWriter
	IORead   IOReader
	IOWrite  IOWriter

	// Abort is polled by the core after every Bus call. When it returns
	// true the in-flight instruction is abandoned (registers already
	// mutated this step are left as-is) and Step reports ErrUserAbort.
	Abort AbortPoll
}

// aborted reports whether the embedder has asked to cancel execution.
func (b *Bus) aborted() bool {
	return b.Abort != nil && b.Abort()
}

// ReadMem reads a byte and polls the abort hook.
func (b *Bus) ReadMem(addr uint16) (uint8, bool) {
	v := b.MemRead(addr)
	return v, b.aborted()
}

// WriteMem writes a byte and polls the abort hook.
func (b *Bus) WriteMem(addr uint16, v uint8) bool {
	b.MemWrite(addr, v)
	return b.aborted()
}

// ReadIO reads a byte from IO space and polls the abort hook.
func (b *Bus) ReadIO(addr uint16) (uint8, bool) {
	v := b.IORead(addr)
	return v, b.aborted()
}

// WriteIO writes a byte to IO space and polls the abort hook.
func (b *Bus) WriteIO(addr uint16, v uint8) bool {
	b.IOWrite(addr, v)
	return b.aborted()
}
