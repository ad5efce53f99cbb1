// Package loop assembles an air hockey match and runs it in a terminal.
package loop

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/airhockey/internal/config"
	"github.com/tomz197/airhockey/internal/draw"
	"github.com/tomz197/airhockey/internal/input"
)

// hudRows is the number of terminal rows kept free under the rink.
const hudRows = 1

// Options configures Run.
type Options struct {
	// TermSizeFunc reports the terminal size. Defaults to the size of stdout.
	TermSizeFunc draw.TermSizeFunc
	// Logger receives game events. Nil discards them.
	Logger *log.Logger
	// Tuning is the starting tuning. The zero value means config.Default().
	Tuning config.Tuning
	// Tunings delivers replacement tunings, applied between ticks.
	Tunings <-chan config.Tuning
	// Done stops the loop when closed.
	Done <-chan struct{}
	// IdleTimeout ends the loop after this long without a key press. Zero
	// disables it.
	IdleTimeout time.Duration
}

// session is the state of one running loop.
type session struct {
	game         *Game
	canvas       *draw.Canvas
	cw           *draw.ChunkWriter
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
	tunings      <-chan config.Tuning
}

// Run plays a match on w, reading keys from r, until the player quits, r is
// exhausted, opts.Done is closed or the idle timeout passes. Each frame runs
// the Input → Update → Draw cycle with a fixed timestep.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	tuning := opts.Tuning
	if tuning == (config.Tuning{}) {
		tuning = config.Default()
	}
	if err := tuning.Validate(); err != nil {
		return fmt.Errorf("loop: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	s := &session{
		game:         NewGame(tuning, logger),
		canvas:       draw.NewScaledCanvas(0, 0, 1, tuning.Height()),
		cw:           draw.NewChunkWriter(w, 0, 0),
		termSizeFunc: termSizeFunc,
		logger:       logger,
		tunings:      opts.Tunings,
	}
	stream := input.StartStream(r)

	draw.HideCursor(w)
	defer draw.ShowCursor(w)
	draw.ClearScreen(w)

	lastInput := time.Now()

	for {
		frameStart := time.Now()
		period := s.game.Tuning().TickPeriod()

		select {
		case <-opts.Done:
			draw.ClearScreen(w)
			return nil
		default:
		}

		// ===== INPUT PHASE =====
		in := input.ReadInput(stream)
		if in.Quit {
			break
		}
		if len(in.Pressed) > 0 {
			lastInput = frameStart
		} else if opts.IdleTimeout > 0 && frameStart.Sub(lastInput) > opts.IdleTimeout {
			logger.Info("idle timeout", "after", opts.IdleTimeout)
			break
		}

		// ===== UPDATE PHASE =====
		s.applyTunings()
		s.game.Tick(period.Seconds(), in)
		if err := s.updateScreen(); err != nil {
			return err
		}

		// ===== DRAW PHASE =====
		if err := s.drawFrame(); err != nil {
			return fmt.Errorf("loop: draw: %w", err)
		}

		// ===== FRAME TIMING =====
		elapsed := time.Since(frameStart)
		if elapsed < period {
			time.Sleep(period - elapsed)
		}
	}

	draw.ClearScreen(w)
	return nil
}

// applyTunings takes at most one pending tuning off the channel.
func (s *session) applyTunings() {
	select {
	case t, ok := <-s.tunings:
		if !ok {
			s.tunings = nil
			return
		}
		s.game.ApplyTuning(t)
		s.canvas.SetLogicalSize(1, t.Height())
	default:
	}
}

// updateScreen fits the canvas to the current terminal size.
func (s *session) updateScreen() error {
	termWidth, termHeight, err := s.termSizeFunc()
	if err != nil {
		return fmt.Errorf("loop: terminal size: %w", err)
	}

	width, height, offsetCol, offsetRow := draw.Fit(termWidth, termHeight, hudRows, 1, s.game.Tuning().Height())
	s.canvas.Resize(width, height)
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.cw.SetOffset(offsetCol, offsetRow)
	return nil
}

// drawFrame clears the screen and draws the rink and the HUD as one write.
func (s *session) drawFrame() error {
	s.cw.WriteString("\033[H\033[2J")

	if s.canvas.TerminalWidth() == 0 {
		s.cw.WriteAt(1, 1, "terminal too small")
		return s.cw.Flush()
	}

	s.canvas.Clear()
	drawRink(s.game, s.canvas)
	if err := s.canvas.Render(s.cw); err != nil {
		return err
	}
	drawHUD(s.game, s.canvas, s.cw)

	return s.cw.Flush()
}
