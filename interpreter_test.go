package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// interpOutput parses and interprets src with the given stdin bytes and
// returns everything the program printed.
func interpOutput(t *testing.T, src, input string) string {
	t.Helper()
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	var out bytes.Buffer
	if err := NewInterpreter(prog, strings.NewReader(input), &out).Run(); err != nil {
		t.Fatalf("interpreting %q failed: %v", src, err)
	}
	return out.String()
}

func TestInterpreterPrograms(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		input string
		want  string
	}{
		{"empty", "", "", ""},
		{"count_to_eight", "++++++++.", "", "\x08"},
		{"move_then_print", ">+.", "", "\x01"},
		{"zeroing_loop", "+++[-].", "", "\x00"},
		{"copy_loop", "++[->+<]>.", "", "\x02"},
		{"nested_loops", "++[>+++[>++<-]<-]>>.", "", "\x0c"},
		{"wrap_down", "-.", "", "\xff"},
		{"wrap_up", strings.Repeat("+", 256) + ".", "", "\x00"},
		{"echo_plus_one", ",+.", "A", "B"},
		{"echo_two", ",.,.", "hi", "hi"},
		{"skip_dead_loop", "[.]", "", ""},
		{"hello", "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.", "", "Hello World!\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := interpOutput(t, tt.src, tt.input); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInterpreterPointerUnderflow(t *testing.T) {
	prog, err := Parse("<")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	err = NewInterpreter(prog, strings.NewReader(""), &bytes.Buffer{}).Run()
	if !errors.Is(err, ErrPointerUnderflow) {
		t.Errorf("Run() = %v, want ErrPointerUnderflow", err)
	}
}

func TestInterpreterInputExhausted(t *testing.T) {
	prog, err := Parse(",")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	err = NewInterpreter(prog, strings.NewReader(""), &bytes.Buffer{}).Run()
	if !errors.Is(err, ErrInputExhausted) {
		t.Errorf("Run() = %v, want ErrInputExhausted", err)
	}
}

func TestInterpreterOutputIsUnbuffered(t *testing.T) {
	// Each '.' must issue exactly one single-byte write.
	prog, err := Parse("+..")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	rec := &writeRecorder{}
	if err := NewInterpreter(prog, strings.NewReader(""), rec).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(rec.writes) != 2 {
		t.Fatalf("got %d writes, want 2", len(rec.writes))
	}
	for i, w := range rec.writes {
		if len(w) != 1 || w[0] != 1 {
			t.Errorf("write %d = %v, want [1]", i, w)
		}
	}
}

type writeRecorder struct {
	writes [][]byte
}

func (r *writeRecorder) Write(p []byte) (int, error) {
	r.writes = append(r.writes, append([]byte(nil), p...))
	return len(p), nil
}
