// Package input turns a raw terminal byte stream into level-triggered controls.
// Terminals only report key presses, so a key counts as held for a short
// window after its last press or auto-repeat.
package input

import (
	"bufio"
	"time"
)

// DefaultHold is how long a key is considered held after its last press.
const DefaultHold = 80 * time.Millisecond

// Input is the key state for one frame.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Fire    bool
	Start   bool
	Restart bool
	Pressed []byte
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit    time.Time
	left    time.Time
	right   time.Time
	fire    time.Time
	start   time.Time
	restart time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	hold   time.Duration
	state  keyState
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The goroutine exits when r returns an error.
func StartStream(r *bufio.Reader, hold time.Duration) *Stream {
	s := newStream(hold)
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream(hold time.Duration) *Stream {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Stream{
		ch:   make(chan byte, 128),
		hold: hold,
	}
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// Read drains all available bytes without blocking and returns the key state at now.
func (s *Stream) Read(now time.Time) Input {
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	s.apply(buf, now)
	return s.snapshot(now, buf)
}

// ReadInput reads the stream at the current time.
func ReadInput(s *Stream) Input {
	return s.Read(time.Now())
}

// apply updates key timestamps from raw bytes, decoding arrow-key CSI sequences.
func (s *Stream) apply(buf []byte, now time.Time) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A': // Up arrow
				s.state.fire = now
				i += 2
				continue
			case 'C': // Right arrow
				s.state.right = now
				i += 2
				continue
			case 'D': // Left arrow
				s.state.left = now
				i += 2
				continue
			case 'B': // Down arrow, unused
				i += 2
				continue
			}
		}

		applyByteToState(&s.state, b, now)
	}
}

func (s *Stream) snapshot(now time.Time, buf []byte) Input {
	held := func(t time.Time) bool {
		return !t.IsZero() && now.Sub(t) < s.hold
	}
	return Input{
		Quit:    held(s.state.quit),
		Left:    held(s.state.left),
		Right:   held(s.state.right),
		Fire:    held(s.state.fire),
		Start:   held(s.state.start),
		Restart: held(s.state.restart),
		Pressed: buf,
	}
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03': // Ctrl-C arrives as a byte in raw mode
		state.quit = now
	case 'a', 'A', 'j', 'J':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case ' ':
		state.fire = now
		state.start = now
	case 'w', 'W', 'k', 'K':
		state.fire = now
	case '\n', '\r':
		state.start = now
	case 'r', 'R':
		state.restart = now
	}
}
