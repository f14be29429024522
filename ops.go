// Completion: 100% - Instruction set model complete
package main

// ops.go - The instruction vocabulary shared by the interpreter and the
// ARM64 code generator. A Brainfuck program parses into a flat Program
// with branch targets already resolved, so neither execution path has to
// scan for matching brackets at run time.

// OpKind identifies one of the eight Brainfuck instructions.
type OpKind int

const (
	OpRight         OpKind = iota // > move the data pointer one cell right
	OpLeft                        // < move the data pointer one cell left
	OpInc                         // + increment the current cell (wraps at 255)
	OpDec                         // - decrement the current cell (wraps at 0)
	OpOutput                      // . write the current cell to stdout
	OpInput                       // , read one byte from stdin into the current cell
	OpJumpIfZero                  // [ jump to Target when the current cell is zero
	OpJumpIfNonZero               // ] jump to Target when the current cell is non-zero
)

func (k OpKind) String() string {
	switch k {
	case OpRight:
		return ">"
	case OpLeft:
		return "<"
	case OpInc:
		return "+"
	case OpDec:
		return "-"
	case OpOutput:
		return "."
	case OpInput:
		return ","
	case OpJumpIfZero:
		return "["
	case OpJumpIfNonZero:
		return "]"
	default:
		return "?"
	}
}

// Op is a single parsed instruction. Target is only meaningful for the
// two jump kinds and holds an absolute index into the Program: the index
// just past the matching bracket. It is back-patched exactly once, when
// the matching ']' is parsed, and immutable afterwards.
type Op struct {
	Kind   OpKind
	Target int
}

// Program is the parsed instruction sequence, index-addressable and
// read-only during execution.
type Program []Op
