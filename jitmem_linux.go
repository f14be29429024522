// Completion: 100% - Platform-specific module complete
//go:build linux && arm64

package main

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// NewExecPage maps an anonymous private region, copies the code buffer
// into it exactly once and seals it read+execute. The allocate -> write
// -> protect -> execute order is mandatory under W^X: the region is
// never writable and executable at the same time.
func NewExecPage(code []byte) (*ExecPage, error) {
	size := pageAlign(len(code))
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %v: %w", size, err, ErrExecAlloc)
	}
	copy(mem, code)
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		unix.Munmap(mem)
		return nil, fmt.Errorf("mprotect rx: %v: %w", err, ErrExecAlloc)
	}
	return &ExecPage{mem: mem, base: unsafe.Pointer(&mem[0])}, nil
}
