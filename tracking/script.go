package tracking

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/crow/components"
)

// ErrUnknownGesture is returned when a script names a gesture that does not exist.
var ErrUnknownGesture = errors.New("unknown gesture")

// Gesture names.
const (
	GestureRest  = "rest"
	GestureFlap  = "flap"
	GestureGlide = "glide"
	GestureBank  = "bank"
)

// Rest pose geometry.
const (
	restHandOffsetX = 0.2
	restHandOffsetZ = 0.1
	restHandDrop    = 0.7
)

const (
	defaultHeadHeight = 1.6
	defaultSpan       = 0.8
	defaultAmplitude  = 0.8
	defaultRate       = 1.0
)

// Phase is one gesture held for a duration.
type Phase struct {
	Gesture   string   `yaml:"gesture"`
	Duration  float64  `yaml:"duration"`  // Seconds
	Rate      float64  `yaml:"rate"`      // Flaps per second
	Amplitude float64  `yaml:"amplitude"` // Peak-to-peak vertical hand travel
	Span      float64  `yaml:"span"`      // Distance of each hand from the head axis
	Bank      float64  `yaml:"bank"`      // Degrees; positive raises the left hand
	Buttons   []string `yaml:"buttons"`   // Pressed when the phase starts

	buttons []components.Button
}

// Script generates frames from a sequence of gesture phases.
type Script struct {
	Loop       bool    `yaml:"loop"`
	HeadHeight float64 `yaml:"head_height"`
	Phases     []Phase `yaml:"phases"`

	total   float64
	t       float64
	lastSeq int
}

// LoadScript reads a gesture script from a YAML file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return s, nil
}

// ParseScript decodes and validates a gesture script.
func ParseScript(data []byte) (*Script, error) {
	s := &Script{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	if err := s.prepare(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewScript builds a script from phases in code.
func NewScript(headHeight float64, loop bool, phases ...Phase) (*Script, error) {
	s := &Script{Loop: loop, HeadHeight: headHeight, Phases: phases}
	if err := s.prepare(); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultScript is the looping demo flight: climb with flaps, glide, bank left, glide.
func DefaultScript() *Script {
	s, err := NewScript(defaultHeadHeight, true,
		Phase{Gesture: GestureFlap, Duration: 3, Rate: 1.5},
		Phase{Gesture: GestureGlide, Duration: 3},
		Phase{Gesture: GestureBank, Duration: 2, Bank: 20},
		Phase{Gesture: GestureGlide, Duration: 2},
	)
	if err != nil {
		panic(fmt.Sprintf("tracking: default script is invalid: %v", err))
	}
	return s
}

// prepare fills defaults and validates every phase.
func (s *Script) prepare() error {
	if s.HeadHeight <= 0 {
		s.HeadHeight = defaultHeadHeight
	}
	if len(s.Phases) == 0 {
		return errors.New("script has no phases")
	}

	s.total = 0
	for i := range s.Phases {
		p := &s.Phases[i]
		switch p.Gesture {
		case GestureRest, GestureFlap, GestureGlide, GestureBank:
		default:
			return fmt.Errorf("phase %d: %w %q", i, ErrUnknownGesture, p.Gesture)
		}
		if p.Duration <= 0 {
			return fmt.Errorf("phase %d: duration must be positive, got %v", i, p.Duration)
		}
		if p.Span <= 0 {
			p.Span = defaultSpan
		}
		if p.Amplitude <= 0 {
			p.Amplitude = defaultAmplitude
		}
		if p.Rate <= 0 {
			p.Rate = defaultRate
		}
		p.buttons = p.buttons[:0]
		for _, name := range p.Buttons {
			b, ok := components.ParseButton(name)
			if !ok {
				return fmt.Errorf("phase %d: unknown button %q", i, name)
			}
			p.buttons = append(p.buttons, b)
		}
		s.total += p.Duration
	}
	s.t = 0
	s.lastSeq = -1
	return nil
}

// Duration returns the length of one pass through the phases.
func (s *Script) Duration() float64 { return s.total }

// Done reports whether a non-looping script has played through.
func (s *Script) Done() bool {
	return !s.Loop && s.t >= s.total
}

// Advance returns the frame at the current time, then moves time forward by dt.
func (s *Script) Advance(dt float64) Frame {
	f := s.Sample(s.t)

	seq, _ := s.locate(s.t)
	if seq != s.lastSeq {
		idx := seq % len(s.Phases)
		f.Buttons = append([]components.Button(nil), s.Phases[idx].buttons...)
		s.lastSeq = seq
	}

	s.t += dt
	return f
}

// Sample returns the frame at time t without advancing.
func (s *Script) Sample(t float64) Frame {
	seq, local := s.locate(t)
	p := &s.Phases[seq%len(s.Phases)]
	f := s.pose(p, local)
	f.Time = t
	return f
}

// locate finds the phase sequence number and phase-local time for t.
// The sequence number counts phases across loops.
func (s *Script) locate(t float64) (int, float64) {
	if t < 0 {
		t = 0
	}
	pass := 0
	if s.Loop {
		pass = int(t / s.total)
		t -= float64(pass) * s.total
	} else if t >= s.total {
		last := len(s.Phases) - 1
		return last, s.Phases[last].Duration
	}

	for i := range s.Phases {
		d := s.Phases[i].Duration
		if t < d || i == len(s.Phases)-1 {
			return pass*len(s.Phases) + i, math.Min(t, d)
		}
		t -= d
	}
	return 0, 0
}

// pose computes rig-local head and hand poses for a gesture.
func (s *Script) pose(p *Phase, local float64) Frame {
	h := s.HeadHeight
	f := Frame{Head: components.NewPose(mgl64.Vec3{0, h, 0})}

	switch p.Gesture {
	case GestureRest:
		return RestFrame(h)

	case GestureFlap:
		// Hands start raised and swing through the flap threshold, just below head height.
		y := h - 0.1 + (p.Amplitude/2)*math.Cos(2*math.Pi*p.Rate*local)
		f.LeftHand = components.NewPose(mgl64.Vec3{-p.Span, y, 0})
		f.RightHand = components.NewPose(mgl64.Vec3{p.Span, y, 0})

	case GestureGlide:
		f.LeftHand = components.NewPose(mgl64.Vec3{-p.Span, h, 0})
		f.RightHand = components.NewPose(mgl64.Vec3{p.Span, h, 0})

	case GestureBank:
		rad := mgl64.DegToRad(p.Bank)
		dx := p.Span * math.Cos(rad)
		dy := p.Span * math.Sin(rad)
		f.LeftHand = components.NewPose(mgl64.Vec3{-dx, h + dy, 0})
		f.RightHand = components.NewPose(mgl64.Vec3{dx, h - dy, 0})
	}
	return f
}
