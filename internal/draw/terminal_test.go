package draw

import (
	"bytes"
	"strings"
	"testing"
)

type countingWriter struct {
	writes [][]byte
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, append([]byte(nil), p...))
	return len(p), nil
}

func TestChunkWriterOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 2, 3)

	cw.WriteAt(1, 1, "hi")
	cw.WriteCentered(10, 2, "abcd")
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if want := "\033[4;3Hhi\033[5;10Habcd"; out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
	if cw.Len() != 0 {
		t.Error("flush should reset the buffer")
	}
}

func TestChunkWriterFlushesEverything(t *testing.T) {
	w := &countingWriter{}
	cw := NewChunkWriter(w, 0, 0)
	payload := strings.Repeat("x", 20000)
	cw.WriteString(payload)

	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	var got []byte
	for _, p := range w.writes {
		got = append(got, p...)
	}
	if string(got) != payload {
		t.Errorf("expected %d bytes written, got %d", len(payload), len(got))
	}
}

func TestFitTerminal(t *testing.T) {
	tests := []struct {
		cols, rows                 int
		wantC, wantR, wantX, wantY int
	}{
		{80, 24, 80, 24, 0, 0},
		{200, 60, 160, 45, 20, 7},
		{161, 45, 160, 45, 0, 0},
	}
	for _, tt := range tests {
		c, r, x, y := FitTerminal(tt.cols, tt.rows, 160, 45)
		if c != tt.wantC || r != tt.wantR || x != tt.wantX || y != tt.wantY {
			t.Errorf("FitTerminal(%d, %d) = %d %d %d %d", tt.cols, tt.rows, c, r, x, y)
		}
	}
}
