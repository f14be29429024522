// Completion: 100% - Parser complete
package main

import (
	"errors"
	"fmt"
)

// ErrUnbalancedBrackets is returned when a ']' has no open '[' left to
// match, or when input ends with '[' still unmatched.
var ErrUnbalancedBrackets = errors.New("unbalanced brackets")

// Parse scans source text once, left to right, and produces a Program
// with resolved branch targets. Every character outside the eight
// instruction characters is a comment and is skipped without error.
//
// Bracket matching is done with an explicit stack of pending '[' indices
// instead of recursion: '[' emits a jump with an unresolved target and
// pushes its index; ']' pops the stack, emits the backward jump and
// back-patches the forward one. Both targets are "the index just past
// the partner bracket", so a zero-iteration loop skips its whole body
// and a repeating loop re-enters right after the '['.
func Parse(src string) (Program, error) {
	var prog Program
	var opens []int // indices of '[' ops awaiting their ']'

	for _, ch := range src {
		switch ch {
		case '>':
			prog = append(prog, Op{Kind: OpRight})
		case '<':
			prog = append(prog, Op{Kind: OpLeft})
		case '+':
			prog = append(prog, Op{Kind: OpInc})
		case '-':
			prog = append(prog, Op{Kind: OpDec})
		case '.':
			prog = append(prog, Op{Kind: OpOutput})
		case ',':
			prog = append(prog, Op{Kind: OpInput})
		case '[':
			opens = append(opens, len(prog))
			prog = append(prog, Op{Kind: OpJumpIfZero}) // Target patched at the matching ']'
		case ']':
			if len(opens) == 0 {
				return nil, fmt.Errorf("']' without matching '[': %w", ErrUnbalancedBrackets)
			}
			open := opens[len(opens)-1]
			opens = opens[:len(opens)-1]
			prog = append(prog, Op{Kind: OpJumpIfNonZero, Target: open + 1})
			prog[open].Target = len(prog)
		}
	}

	if len(opens) > 0 {
		return nil, fmt.Errorf("%d unmatched '[' at end of input: %w", len(opens), ErrUnbalancedBrackets)
	}
	return prog, nil
}
