package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidTuning is wrapped by every Validate failure.
var ErrInvalidTuning = errors.New("config: invalid tuning")

// Body holds the physical properties of a round body.
type Body struct {
	Radius   float64 `yaml:"radius"`
	Friction float64 `yaml:"friction"` // Speed lost per second
	Mass     float64 `yaml:"mass"`
}

// Tuning holds the game constants that can be changed without rebuilding.
// Lengths are in rink units: the rink is 1 wide.
type Tuning struct {
	TickRate    int     `yaml:"tick_rate"`    // Simulation steps per second
	AspectRatio float64 `yaml:"aspect_ratio"` // Rink width divided by height

	WallWidth       float64 `yaml:"wall_width"`
	GateWidth       float64 `yaml:"gate_width"`
	WallConsumption float64 `yaml:"wall_consumption"` // Share of normal speed absorbed by walls

	StickMovePower float64 `yaml:"stick_move_power"` // Controller acceleration
	StickMaxSpeed  float64 `yaml:"stick_max_speed"`  // Controllers stop accelerating above this

	Stick Body `yaml:"stick"`
	Puck  Body `yaml:"puck"`

	PuckRespawnDelay time.Duration `yaml:"puck_respawn_delay"`
}

// Default returns the stock tuning.
func Default() Tuning {
	return Tuning{
		TickRate:    60,
		AspectRatio: 0.75,

		WallWidth:       0.05,
		GateWidth:       0.3,
		WallConsumption: 0.25,

		StickMovePower: 8.75,
		StickMaxSpeed:  1.15,

		Stick: Body{Radius: 0.075, Friction: 3.15, Mass: 5},
		Puck:  Body{Radius: 0.025, Friction: 0.11, Mass: 1.25},

		PuckRespawnDelay: time.Second,
	}
}

// Height returns the rink height for a rink of unit width.
func (t Tuning) Height() float64 {
	return 1 / t.AspectRatio
}

// TickPeriod returns the length of one simulation step.
func (t Tuning) TickPeriod() time.Duration {
	return time.Second / time.Duration(t.TickRate)
}

// Validate checks that the tuning describes a playable rink.
func (t Tuning) Validate() error {
	switch {
	case t.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate must be positive, got %d", ErrInvalidTuning, t.TickRate)
	case t.AspectRatio <= 0:
		return fmt.Errorf("%w: aspect_ratio must be positive, got %v", ErrInvalidTuning, t.AspectRatio)
	case t.WallWidth <= 0 || t.WallWidth >= 0.5:
		return fmt.Errorf("%w: wall_width must be in (0, 0.5), got %v", ErrInvalidTuning, t.WallWidth)
	case t.GateWidth <= 0 || t.GateWidth >= 1-2*t.WallWidth:
		return fmt.Errorf("%w: gate_width must fit between the side walls, got %v", ErrInvalidTuning, t.GateWidth)
	case t.WallConsumption < 0 || t.WallConsumption > 1:
		return fmt.Errorf("%w: wall_consumption must be in [0, 1], got %v", ErrInvalidTuning, t.WallConsumption)
	case t.StickMovePower < 0:
		return fmt.Errorf("%w: stick_move_power must not be negative, got %v", ErrInvalidTuning, t.StickMovePower)
	case t.StickMaxSpeed <= 0:
		return fmt.Errorf("%w: stick_max_speed must be positive, got %v", ErrInvalidTuning, t.StickMaxSpeed)
	case t.PuckRespawnDelay < 0:
		return fmt.Errorf("%w: puck_respawn_delay must not be negative, got %v", ErrInvalidTuning, t.PuckRespawnDelay)
	}

	if err := t.Stick.validate("stick"); err != nil {
		return err
	}
	return t.Puck.validate("puck")
}

func (b Body) validate(name string) error {
	switch {
	case b.Radius <= 0:
		return fmt.Errorf("%w: %s.radius must be positive, got %v", ErrInvalidTuning, name, b.Radius)
	case b.Mass <= 0:
		return fmt.Errorf("%w: %s.mass must be positive, got %v", ErrInvalidTuning, name, b.Mass)
	case b.Friction < 0:
		return fmt.Errorf("%w: %s.friction must not be negative, got %v", ErrInvalidTuning, name, b.Friction)
	}
	return nil
}

// ParseTuning reads YAML over the defaults. Keys missing from data keep
// their default value; unknown keys are an error.
func ParseTuning(data []byte) (Tuning, error) {
	t := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return Tuning{}, fmt.Errorf("config: unmarshal tuning: %w", err)
	}

	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// LoadTuning reads and validates a tuning file.
func LoadTuning(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("config: load %s: %w", path, err)
	}

	t, err := ParseTuning(data)
	if err != nil {
		return Tuning{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return t, nil
}
