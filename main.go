// Completion: 100% - CLI interface complete
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/xyproto/env/v2"
)

// brainphoque - a tiny Brainfuck interpreter and ARM64 JIT compiler

const versionString = "brainphoque 1.0.0"

// VerboseMode enables diagnostics on stderr (-v or BRAINPHOQUE_VERBOSE=1)
var VerboseMode = env.Bool("BRAINPHOQUE_VERBOSE")

// interpTapeSize is the interpreter's cell count, jitTapeSize the byte
// size of the buffer handed to compiled code. BRAINPHOQUE_TAPESIZE
// overrides both.
func interpTapeSize() int { return env.Int("BRAINPHOQUE_TAPESIZE", 1000) }

func jitTapeSize() int { return env.Int("BRAINPHOQUE_TAPESIZE", 1024) }

// Exit codes: 1 for usage problems, 2 for parse failures, 3 for
// runtime, compile or JIT memory failures.
const (
	exitUsage   = 1
	exitParse   = 2
	exitRuntime = 3
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: brainphoque [-i] [-d] [-v] [-V] program.bf")
	flag.PrintDefaults()
}

func main() {
	interpOnly := flag.Bool("i", false, "interpret instead of JIT compiling")
	dumpCode := flag.Bool("d", false, "dump generated machine code as hex without executing")
	verbose := flag.Bool("v", false, "verbose diagnostics on stderr")
	showVersion := flag.Bool("V", false, "print version and exit")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Println(versionString)
		return
	}
	if *verbose {
		VerboseMode = true
	}
	if flag.NArg() != 1 {
		usage()
		os.Exit(exitUsage)
	}

	src, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "brainphoque: %v\n", err)
		os.Exit(exitUsage)
	}

	prog, err := Parse(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "brainphoque: %v\n", err)
		os.Exit(exitParse)
	}
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "parsed %d instructions\n", len(prog))
	}

	switch {
	case *dumpCode:
		code, err := Compile(prog, hostABI())
		if err != nil {
			fmt.Fprintf(os.Stderr, "brainphoque: %v\n", err)
			os.Exit(exitRuntime)
		}
		dumpHex(code)
	case *interpOnly:
		if err := NewInterpreter(prog, os.Stdin, os.Stdout).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "brainphoque: %v\n", err)
			os.Exit(exitRuntime)
		}
	default:
		ret, err := RunJIT(prog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "brainphoque: %v\n", err)
			os.Exit(exitRuntime)
		}
		if VerboseMode {
			fmt.Fprintf(os.Stderr, "result: %#x\n", ret)
		}
	}
}

// dumpHex prints the code buffer one 32-bit instruction word per line.
func dumpHex(code []byte) {
	for i := 0; i+4 <= len(code); i += 4 {
		fmt.Printf("%04x: %02x %02x %02x %02x\n", i, code[i], code[i+1], code[i+2], code[i+3])
	}
}
