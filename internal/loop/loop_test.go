package loop

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestRunQuits(t *testing.T) {
	var out bytes.Buffer
	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(context.Background(), bufio.NewReader(strings.NewReader("q")), &out, Options{
			Username:     "tester",
			TermSizeFunc: func() (int, int, error) { return 100, 30, nil },
		})
	}()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after quit")
	}
	if !strings.Contains(out.String(), "Controls") {
		t.Error("expected the title screen to be drawn")
	}
}
