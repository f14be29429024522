// Completion: 100% - Executable memory management complete
//go:build (linux || darwin) && arm64

package main

import (
	"errors"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// jitmem.go - Ownership of executable memory. All raw pointer handling
// for the JIT lives in this file and the two platform files next to it;
// everything else in the program deals in byte slices and Programs.

// ErrExecAlloc wraps any failure to obtain or seal executable memory.
// The platform error code travels inside the wrapped message.
var ErrExecAlloc = errors.New("executable memory allocation failed")

// ExecPage owns one mmap'd region holding generated machine code.
// Lifecycle: NewExecPage allocates, writes and seals in one step; Func
// hands out a callable view into the region; Close unmaps it. The page
// is populated exactly once and never written again.
type ExecPage struct {
	mem  []byte
	base unsafe.Pointer
}

// pageAlign rounds n up to a whole number of pages, minimum one page.
func pageAlign(n int) int {
	page := os.Getpagesize()
	if n < 1 {
		n = 1
	}
	return (n + page - 1) &^ (page - 1)
}

// Func reinterprets the page base as a callable native function taking
// the tape base address and returning whatever the generated code
// leaves in the return register. The returned func is a borrowed view:
// calling it after Close is a use-after-unmap.
//
// A Go func value is a pointer to a word holding the code address, so
// one is built by hand here. The generated code takes its argument and
// returns its result in x0, which is also where Go passes and receives
// them for this signature on ARM64.
func (p *ExecPage) Func() func(tape uintptr) uint64 {
	code := p.base
	var fn func(tape uintptr) uint64
	*(*unsafe.Pointer)(unsafe.Pointer(&fn)) = unsafe.Pointer(&code)
	return fn
}

// Close unmaps the region. Safe to call more than once.
func (p *ExecPage) Close() error {
	if p.mem == nil {
		return nil
	}
	mem := p.mem
	p.mem = nil
	p.base = nil
	return unix.Munmap(mem)
}
