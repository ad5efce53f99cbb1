package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a direction key is considered held after its
// last byte. Terminals only send repeats, so it has to bridge the gap between
// them.
const keyHoldDuration = 150 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit  bool
	Up    bool
	Down  bool
	Left  bool
	Right bool

	// Restart and Autopilot are set only on the frame their key arrives.
	Restart   bool
	Autopilot bool

	Pressed []byte
}

// keyState tracks the last time each direction key was pressed.
type keyState struct {
	up    time.Time
	down  time.Time
	left  time.Time
	right time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
}

func newStream() *Stream {
	return &Stream{ch: make(chan byte, 128)}
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The stream reports Quit once r is exhausted.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
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

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	var buf []byte

drain:
	for !s.closed {
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

	return s.parse(buf, time.Now())
}

// parse applies buf to the key state and builds the frame's input.
// Arrow keys arrive as ESC [ A..D.
func (s *Stream) parse(buf []byte, now time.Time) Input {
	in := Input{Quit: s.closed, Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				s.state.up = now
			case 'B':
				s.state.down = now
			case 'C':
				s.state.right = now
			case 'D':
				s.state.left = now
			}
			i += 2
			continue
		}

		switch b {
		case 'q', 'Q', '\x03':
			in.Quit = true
		case 'w', 'W', 'k', 'K':
			s.state.up = now
		case 's', 'S', 'j', 'J':
			s.state.down = now
		case 'a', 'A', 'h', 'H':
			s.state.left = now
		case 'd', 'D', 'l', 'L':
			s.state.right = now
		case ' ':
			in.Restart = true
		case 'p', 'P':
			in.Autopilot = true
		}
	}

	in.Up = now.Sub(s.state.up) < keyHoldDuration
	in.Down = now.Sub(s.state.down) < keyHoldDuration
	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration

	return in
}
