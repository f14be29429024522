// Completion: 100% - Platform-specific module complete
//go:build !((linux || darwin) && arm64)

package main

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrExecAlloc wraps any failure to obtain or seal executable memory.
var ErrExecAlloc = errors.New("executable memory allocation failed")

// ExecPage is only functional on ARM64 linux and darwin hosts. On other
// platforms the JIT path reports an allocation failure up front and the
// interpreter remains available.
type ExecPage struct{}

func NewExecPage(code []byte) (*ExecPage, error) {
	return nil, fmt.Errorf("JIT not supported on %s/%s: %w", runtime.GOOS, runtime.GOARCH, ErrExecAlloc)
}

func (p *ExecPage) Func() func(tape uintptr) uint64 { return nil }

func (p *ExecPage) Close() error { return nil }
