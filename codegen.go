// Completion: 100% - ARM64 code generation complete
package main

import (
	"fmt"
	"runtime"
)

// codegen.go - Translation of a parsed Program into one flat ARM64
// machine code buffer.
//
// Calling convention of the generated function:
//   x0 - tape base address on entry, then the live data pointer;
//        whatever it holds at the end is the return value
//   x1 - scratch register for byte loads/stores
//   x9 - saves the data pointer across syscalls
// The buffer always ends with a single RET. Pointer motion outside the
// caller's tape is not guarded; the caller owns that contract.

// syscallABI describes how the target OS takes a system call on ARM64.
// The instruction set is the same on linux and darwin; only the syscall
// numbers, the number register and the SVC immediate differ.
type syscallABI struct {
	OS     string
	NumReg string // register holding the syscall number
	Write  uint64
	Read   uint64
	SvcImm uint16
}

var (
	linuxABI  = syscallABI{OS: "linux", NumReg: "x8", Write: 64, Read: 63, SvcImm: 0}
	darwinABI = syscallABI{OS: "darwin", NumReg: "x16", Write: 4, Read: 3, SvcImm: 0x80}
)

// hostABI picks the syscall ABI for the machine we are running on.
func hostABI() syscallABI {
	if runtime.GOOS == "darwin" {
		return darwinABI
	}
	return linuxABI
}

// opSize returns the number of code bytes emitted for one op. All the
// immediates used below fit in 16 bits, so every MovImm64 is a single
// MOVZ and the sizes are fixed per kind.
func opSize(k OpKind) int {
	switch k {
	case OpRight, OpLeft:
		return 4
	case OpInc, OpDec:
		return 12
	case OpOutput, OpInput:
		return 28
	case OpJumpIfZero, OpJumpIfNonZero:
		return 8
	default:
		return 0
	}
}

// Compile translates a Program into ARM64 machine code implementing the
// same semantics as the interpreter. Branch targets are translated from
// logical instruction indices to code byte offsets with a precomputed
// size table, so all displacements are known before emission and no
// patching pass is needed.
//
// Compilation cannot fail for well-formed programs of sane size; the
// only reachable error is a conditional branch displacement exceeding
// the +-1MB CBZ/CBNZ range, which takes a single loop body compiling
// to over a megabyte of code.
func Compile(prog Program, abi syscallABI) ([]byte, error) {
	// Byte offset of every op, plus the terminal RET.
	offsets := make([]int, len(prog)+1)
	pos := 0
	for i, op := range prog {
		offsets[i] = pos
		pos += opSize(op.Kind)
	}
	offsets[len(prog)] = pos

	a := &ARM64Out{}
	for i, op := range prog {
		var err error
		switch op.Kind {
		case OpRight:
			err = a.AddImm64("x0", "x0", 1)
		case OpLeft:
			err = a.SubImm64("x0", "x0", 1)
		case OpInc:
			err = emitCellAdjust(a, true)
		case OpDec:
			err = emitCellAdjust(a, false)
		case OpOutput:
			err = emitSyscall(a, abi, abi.Write, 1)
		case OpInput:
			err = emitSyscall(a, abi, abi.Read, 0)
		case OpJumpIfZero:
			if err = a.LdrbImm("x1", "x0", 0); err != nil {
				break
			}
			// Branch is the second word of this op's pair.
			err = a.CompareAndBranchZero32("x1", int32(offsets[op.Target]-(offsets[i]+4)))
		case OpJumpIfNonZero:
			if err = a.LdrbImm("x1", "x0", 0); err != nil {
				break
			}
			err = a.CompareAndBranchNonZero32("x1", int32(offsets[op.Target]-(offsets[i]+4)))
		}
		if err != nil {
			return nil, fmt.Errorf("compile op %d (%s): %w", i, op.Kind, err)
		}
	}
	if err := a.Return("x30"); err != nil {
		return nil, err
	}

	code := a.Bytes()
	if len(code) != offsets[len(prog)]+4 {
		return nil, fmt.Errorf("size table mismatch: emitted %d bytes, expected %d", len(code), offsets[len(prog)]+4)
	}
	return code, nil
}

// emitCellAdjust emits load-byte, add or subtract one, store-byte. The
// arithmetic runs on the full register; STRB truncates to the low byte,
// which is exactly the mod-256 wrap the interpreter implements.
func emitCellAdjust(a *ARM64Out, add bool) error {
	if err := a.LdrbImm("x1", "x0", 0); err != nil {
		return err
	}
	var err error
	if add {
		err = a.AddImm64("x1", "x1", 1)
	} else {
		err = a.SubImm64("x1", "x1", 1)
	}
	if err != nil {
		return err
	}
	return a.StrbImm("x1", "x0", 0)
}

// emitSyscall emits a one-byte read or write on the current cell:
//
//	mov  x9, x0        ; save the data pointer
//	mov  x1, x0        ; buf = current cell
//	mov  x0, #fd
//	mov  x2, #1        ; exactly one byte
//	mov  nr-reg, #nr
//	svc  #imm
//	mov  x0, x9        ; restore the data pointer
//
// The kernel only clobbers x0 (the result), so saving the pointer in x9
// is enough to keep the convention intact across the call.
func emitSyscall(a *ARM64Out, abi syscallABI, nr uint64, fd uint64) error {
	if err := a.MovReg64("x9", "x0"); err != nil {
		return err
	}
	if err := a.MovReg64("x1", "x0"); err != nil {
		return err
	}
	if err := a.MovImm64("x0", fd); err != nil {
		return err
	}
	if err := a.MovImm64("x2", 1); err != nil {
		return err
	}
	if err := a.MovImm64(abi.NumReg, nr); err != nil {
		return err
	}
	if err := a.Svc(abi.SvcImm); err != nil {
		return err
	}
	return a.MovReg64("x0", "x9")
}
