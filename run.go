// Completion: 100% - Invocation boundary complete
package main

import (
	"fmt"
	"os"
	"runtime"
	"unsafe"
)

// RunJIT compiles prog for the host OS, maps the code into an
// executable page and calls it with a fresh zeroed tape. The returned
// word is whatever the generated code left in the return register; with
// the current convention that is the final data pointer address.
//
// This is the one place the program crosses from Go into memory it
// wrote itself. Correctness rests entirely on Compile having emitted a
// well-formed stream that stays inside the tape and ends in RET. A
// Brainfuck program that never terminates compiles to native code that
// never terminates; that is the program's business, not the compiler's.
func RunJIT(prog Program) (uint64, error) {
	abi := hostABI()
	code, err := Compile(prog, abi)
	if err != nil {
		return 0, err
	}
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "generated %d bytes of %s/arm64 machine code\n", len(code), abi.OS)
	}

	page, err := NewExecPage(code)
	if err != nil {
		return 0, err
	}
	defer page.Close()

	tape := make([]byte, jitTapeSize())
	fn := page.Func()
	ret := fn(uintptr(unsafe.Pointer(&tape[0])))
	runtime.KeepAlive(tape)
	return ret, nil
}
