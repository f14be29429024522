// Completion: 100% - Platform-specific module complete
//go:build darwin && arm64

package main

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/unix"
)

// Apple silicon enforces W^X per thread: MAP_JIT pages are requested
// read+write+execute up front and pthread_jit_write_protect_np flips
// the calling thread between the writable and the executable view of
// them. The symbol lives in libSystem only, hence purego.

var (
	jitProtectOnce  sync.Once
	jitProtectErr   error
	jitWriteProtect func(enabled int32)
)

func loadJITProtect() {
	libc, err := purego.Dlopen("/usr/lib/libSystem.B.dylib", purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		jitProtectErr = fmt.Errorf("dlopen libSystem: %v: %w", err, ErrExecAlloc)
		return
	}
	purego.RegisterLibFunc(&jitWriteProtect, libc, "pthread_jit_write_protect_np")
}

// NewExecPage follows the darwin JIT protocol: flip this thread's JIT
// pages writable, map with MAP_JIT, copy the code in, flip back to the
// executable view. The write flip must precede the copy and the flip
// back must precede any call into the page. The OS thread is locked for
// the duration because the toggle is per thread, not per process.
func NewExecPage(code []byte) (*ExecPage, error) {
	jitProtectOnce.Do(loadJITProtect)
	if jitProtectErr != nil {
		return nil, jitProtectErr
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	jitWriteProtect(0)
	size := pageAlign(len(code))
	mem, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC,
		unix.MAP_PRIVATE|unix.MAP_ANON|unix.MAP_JIT)
	if err != nil {
		jitWriteProtect(1)
		return nil, fmt.Errorf("mmap %d bytes: %v: %w", size, err, ErrExecAlloc)
	}
	copy(mem, code)
	jitWriteProtect(1)
	return &ExecPage{mem: mem, base: unsafe.Pointer(&mem[0])}, nil
}
