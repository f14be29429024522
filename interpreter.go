// Completion: 100% - Reference interpreter complete
package main

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrPointerUnderflow is returned when '<' runs at cell zero.
	ErrPointerUnderflow = errors.New("data pointer underflow")
	// ErrInputExhausted is returned when ',' finds no byte to read.
	ErrInputExhausted = errors.New("input exhausted")
)

// Interpreter executes a Program directly over an in-memory tape. It is
// the semantic oracle for the JIT: for the same program and input both
// paths must produce byte-identical output.
//
// Cell arithmetic wraps modulo 256. Moving the pointer left of cell
// zero is a fatal ErrPointerUnderflow. Moving past the last cell is not
// guarded here; the Go runtime turns it into an index-out-of-range
// panic rather than silent corruption.
type Interpreter struct {
	prog Program
	tape []byte
	in   io.Reader
	out  io.Writer
}

// NewInterpreter prepares an interpreter with a fresh zeroed tape.
func NewInterpreter(prog Program, in io.Reader, out io.Writer) *Interpreter {
	return &Interpreter{
		prog: prog,
		tape: make([]byte, interpTapeSize()),
		in:   in,
		out:  out,
	}
}

// Run executes the program to completion or to the first fatal error.
// Output is written one byte per '.' instruction, unbuffered.
func (ip *Interpreter) Run() error {
	dp := 0
	for pc := 0; pc < len(ip.prog); {
		op := ip.prog[pc]
		switch op.Kind {
		case OpRight:
			dp++
		case OpLeft:
			if dp == 0 {
				return fmt.Errorf("'<' at cell 0 (pc %d): %w", pc, ErrPointerUnderflow)
			}
			dp--
		case OpInc:
			ip.tape[dp]++
		case OpDec:
			ip.tape[dp]--
		case OpOutput:
			if _, err := ip.out.Write(ip.tape[dp : dp+1]); err != nil {
				return fmt.Errorf("write output byte: %w", err)
			}
		case OpInput:
			var b [1]byte
			if _, err := io.ReadFull(ip.in, b[:]); err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					return fmt.Errorf("',' at pc %d: %w", pc, ErrInputExhausted)
				}
				return fmt.Errorf("read input byte: %w", err)
			}
			ip.tape[dp] = b[0]
		case OpJumpIfZero:
			if ip.tape[dp] == 0 {
				pc = op.Target
				continue
			}
		case OpJumpIfNonZero:
			if ip.tape[dp] != 0 {
				pc = op.Target
				continue
			}
		}
		pc++
	}
	return nil
}
