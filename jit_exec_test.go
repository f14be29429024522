package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"testing"
)

// The JIT writes to the real stdout through raw syscalls, so the
// differential tests re-execute this test binary as a child process in
// JIT mode and capture its output, much like running the installed
// binary would.

const (
	execSrcEnv  = "BRAINPHOQUE_EXEC_SRC"
	execModeEnv = "BRAINPHOQUE_EXEC_MODE"
)

func TestMain(m *testing.M) {
	if src, ok := os.LookupEnv(execSrcEnv); ok {
		runJITChild(src, os.Getenv(execModeEnv))
		return
	}
	os.Exit(m.Run())
}

func runJITChild(src, mode string) {
	prog, err := Parse(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitParse)
	}
	runs := 1
	if mode == "twice" {
		runs = 2
	}
	for i := 0; i < runs; i++ {
		if _, err := RunJIT(prog); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitRuntime)
		}
	}
	os.Exit(0)
}

func requireJITHost(t *testing.T) {
	t.Helper()
	if runtime.GOARCH != "arm64" || (runtime.GOOS != "linux" && runtime.GOOS != "darwin") {
		t.Skipf("JIT execution requires arm64 linux or darwin, have %s/%s", runtime.GOOS, runtime.GOARCH)
	}
}

// jitOutput runs src through the JIT in a child process and returns its
// stdout.
func jitOutput(t *testing.T, src, input, mode string) string {
	t.Helper()
	requireJITHost(t)

	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(), execSrcEnv+"="+src, execModeEnv+"="+mode)
	cmd.Stdin = strings.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("JIT child failed: %v\nstderr: %s", err, stderr.String())
	}
	return stdout.String()
}

// TestInterpreterAndJITAgree is the oracle test: both execution paths
// must produce byte-identical output for the same program and input.
func TestInterpreterAndJITAgree(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		input string
	}{
		{"empty", "", ""},
		{"count_to_eight", "++++++++.", ""},
		{"move_then_print", ">+.", ""},
		{"zeroing_loop", "+++[-].", ""},
		{"copy_loop", "++[->+<]>.", ""},
		{"nested_loops", "++[>+++[>++<-]<-]>>.", ""},
		{"wrap_down", "-.", ""},
		{"echo_plus_one", ",+.", "A"},
		{"echo_two", ",.,.", "hi"},
		{"skip_dead_loop", "[.]", ""},
		{"hello", "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := interpOutput(t, tt.src, tt.input)
			got := jitOutput(t, tt.src, tt.input, "")
			if got != want {
				t.Errorf("JIT output %q, interpreter output %q", got, want)
			}
		})
	}
}

// TestJITCompileTwice checks that compiling the same source twice
// yields two independently invocable functions with agreeing output.
func TestJITCompileTwice(t *testing.T) {
	src := "++[->+<]>."
	want := strings.Repeat(interpOutput(t, src, ""), 2)
	got := jitOutput(t, src, "", "twice")
	if got != want {
		t.Errorf("two JIT runs produced %q, want %q", got, want)
	}
}

// TestJITMoveThenPrintLeavesOriginIntact pins the ">+." case: the byte
// printed comes from tape offset 1 while offset 0 stays zero, which the
// combined ">+.<." program observes directly.
func TestJITMoveThenPrintLeavesOriginIntact(t *testing.T) {
	want := interpOutput(t, ">+.<.", "")
	if want != "\x01\x00" {
		t.Fatalf("oracle output %q, want \\x01\\x00", want)
	}
	if got := jitOutput(t, ">+.<.", "", ""); got != want {
		t.Errorf("JIT output %q, want %q", got, want)
	}
}
