package input

import (
	"bufio"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseKeys(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name string
		in   string
		want Input
	}{
		{"nothing", "", Input{}},
		{"arrow up", "\x1b[A", Input{Up: true}},
		{"arrow down", "\x1b[B", Input{Down: true}},
		{"arrow right", "\x1b[C", Input{Right: true}},
		{"arrow left", "\x1b[D", Input{Left: true}},
		{"wasd diagonal", "wd", Input{Up: true, Right: true}},
		{"vim keys", "hj", Input{Left: true, Down: true}},
		{"restart", " ", Input{Restart: true}},
		{"autopilot", "P", Input{Autopilot: true}},
		{"quit", "q", Input{Quit: true}},
		{"ctrl-c", "\x03", Input{Quit: true}},
		{"unknown csi is skipped", "\x1b[Zw", Input{Up: true}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := newStream()
			got := s.parse([]byte(c.in), now)
			got.Pressed = nil
			assert.Equal(t, c.want, got)
		})
	}
}

func TestHeldKeysExpire(t *testing.T) {
	s := newStream()
	now := time.Now()

	s.parse([]byte("a"), now)

	held := s.parse(nil, now.Add(keyHoldDuration/2))
	assert.True(t, held.Left)

	released := s.parse(nil, now.Add(keyHoldDuration))
	assert.False(t, released.Left)
}

func TestTogglesDoNotRepeat(t *testing.T) {
	s := newStream()
	now := time.Now()

	assert.True(t, s.parse([]byte("p"), now).Autopilot)
	assert.False(t, s.parse(nil, now).Autopilot)
}

func TestReadInputQuitsAtEOF(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("d")))

	assert.Eventually(t, func() bool {
		in := ReadInput(s)
		return in.Quit
	}, time.Second, 5*time.Millisecond)
}
