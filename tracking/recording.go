package tracking

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/crow/components"
)

// ErrEmptyRecording is returned when a capture holds no frames.
var ErrEmptyRecording = errors.New("recording has no frames")

// poseRow is one CSV line of a pose capture.
type poseRow struct {
	Time float64 `csv:"time"`

	HeadX  float64 `csv:"head_x"`
	HeadY  float64 `csv:"head_y"`
	HeadZ  float64 `csv:"head_z"`
	HeadQW float64 `csv:"head_qw"`
	HeadQX float64 `csv:"head_qx"`
	HeadQY float64 `csv:"head_qy"`
	HeadQZ float64 `csv:"head_qz"`

	LeftX  float64 `csv:"left_x"`
	LeftY  float64 `csv:"left_y"`
	LeftZ  float64 `csv:"left_z"`
	LeftQW float64 `csv:"left_qw"`
	LeftQX float64 `csv:"left_qx"`
	LeftQY float64 `csv:"left_qy"`
	LeftQZ float64 `csv:"left_qz"`

	RightX  float64 `csv:"right_x"`
	RightY  float64 `csv:"right_y"`
	RightZ  float64 `csv:"right_z"`
	RightQW float64 `csv:"right_qw"`
	RightQX float64 `csv:"right_qx"`
	RightQY float64 `csv:"right_qy"`
	RightQZ float64 `csv:"right_qz"`

	Buttons string `csv:"buttons"` // Pipe-separated button names
}

func rowPose(x, y, z, qw, qx, qy, qz float64) components.Pose {
	q := mgl64.Quat{W: qw, V: mgl64.Vec3{qx, qy, qz}}
	if q.Len() == 0 {
		q = mgl64.QuatIdent()
	}
	return components.Pose{Position: mgl64.Vec3{x, y, z}, Rotation: q.Normalize()}
}

func (r *poseRow) frame() (Frame, error) {
	f := Frame{
		Time:      r.Time,
		Head:      rowPose(r.HeadX, r.HeadY, r.HeadZ, r.HeadQW, r.HeadQX, r.HeadQY, r.HeadQZ),
		LeftHand:  rowPose(r.LeftX, r.LeftY, r.LeftZ, r.LeftQW, r.LeftQX, r.LeftQY, r.LeftQZ),
		RightHand: rowPose(r.RightX, r.RightY, r.RightZ, r.RightQW, r.RightQX, r.RightQY, r.RightQZ),
	}
	if r.Buttons == "" {
		return f, nil
	}
	for _, name := range strings.Split(r.Buttons, "|") {
		b, ok := components.ParseButton(strings.TrimSpace(name))
		if !ok {
			return Frame{}, fmt.Errorf("time %v: unknown button %q", r.Time, name)
		}
		f.Buttons = append(f.Buttons, b)
	}
	return f, nil
}

func rowFromFrame(f Frame) poseRow {
	names := make([]string, len(f.Buttons))
	for i, b := range f.Buttons {
		names[i] = b.String()
	}
	h, l, r := f.Head, f.LeftHand, f.RightHand
	return poseRow{
		Time: f.Time,

		HeadX: h.Position[0], HeadY: h.Position[1], HeadZ: h.Position[2],
		HeadQW: h.Rotation.W, HeadQX: h.Rotation.V[0], HeadQY: h.Rotation.V[1], HeadQZ: h.Rotation.V[2],

		LeftX: l.Position[0], LeftY: l.Position[1], LeftZ: l.Position[2],
		LeftQW: l.Rotation.W, LeftQX: l.Rotation.V[0], LeftQY: l.Rotation.V[1], LeftQZ: l.Rotation.V[2],

		RightX: r.Position[0], RightY: r.Position[1], RightZ: r.Position[2],
		RightQW: r.Rotation.W, RightQX: r.Rotation.V[0], RightQY: r.Rotation.V[1], RightQZ: r.Rotation.V[2],

		Buttons: strings.Join(names, "|"),
	}
}

// Recording replays a captured pose sequence, interpolating between samples.
type Recording struct {
	frames []Frame
	t      float64
	next   int // Index of the first frame whose buttons have not been emitted
}

// LoadRecording reads a CSV pose capture from a file.
func LoadRecording(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recording: %w", err)
	}
	defer f.Close()

	rec, err := ReadRecording(f)
	if err != nil {
		return nil, fmt.Errorf("recording %s: %w", path, err)
	}
	return rec, nil
}

// ReadRecording decodes a CSV pose capture.
func ReadRecording(r io.Reader) (*Recording, error) {
	var rows []*poseRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, ErrEmptyRecording
		}
		return nil, fmt.Errorf("parsing recording: %w", err)
	}

	frames := make([]Frame, 0, len(rows))
	for _, row := range rows {
		f, err := row.frame()
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return NewRecording(frames)
}

// NewRecording creates a recording from frames, sorted by time.
func NewRecording(frames []Frame) (*Recording, error) {
	if len(frames) == 0 {
		return nil, ErrEmptyRecording
	}
	sorted := append([]Frame(nil), frames...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	// Playback starts at the first sample.
	return &Recording{frames: sorted, t: sorted[0].Time}, nil
}

// Len returns the number of captured frames.
func (r *Recording) Len() int { return len(r.frames) }

// Duration returns the time span covered by the capture.
func (r *Recording) Duration() float64 {
	return r.frames[len(r.frames)-1].Time - r.frames[0].Time
}

// Done reports whether playback has passed the last sample.
func (r *Recording) Done() bool {
	return r.t > r.frames[len(r.frames)-1].Time
}

// Advance returns the interpolated frame at the current time, then moves time
// forward by dt. Button presses of samples in [t, t+dt) are attached to the frame.
func (r *Recording) Advance(dt float64) Frame {
	f := r.Sample(r.t)

	end := r.t + dt
	for r.next < len(r.frames) && r.frames[r.next].Time < end {
		f.Buttons = append(f.Buttons, r.frames[r.next].Buttons...)
		r.next++
	}

	r.t = end
	return f
}

// Sample returns the pose at time t, holding the first and last samples
// outside the captured range. Buttons are not included.
func (r *Recording) Sample(t float64) Frame {
	frames := r.frames
	if t <= frames[0].Time {
		return poseOnly(frames[0], t)
	}
	last := len(frames) - 1
	if t >= frames[last].Time {
		return poseOnly(frames[last], t)
	}

	i := sort.Search(len(frames), func(i int) bool { return frames[i].Time > t })
	a, b := frames[i-1], frames[i]
	span := b.Time - a.Time
	if span <= 0 {
		return poseOnly(b, t)
	}
	u := (t - a.Time) / span

	return Frame{
		Time:      t,
		Head:      lerpPose(a.Head, b.Head, u),
		LeftHand:  lerpPose(a.LeftHand, b.LeftHand, u),
		RightHand: lerpPose(a.RightHand, b.RightHand, u),
	}
}

func poseOnly(f Frame, t float64) Frame {
	f.Time = t
	f.Buttons = nil
	return f
}

func lerpPose(a, b components.Pose, u float64) components.Pose {
	return components.Pose{
		Position: a.Position.Add(b.Position.Sub(a.Position).Mul(u)),
		Rotation: mgl64.QuatSlerp(a.Rotation, b.Rotation, u),
	}
}

// Recorder captures frames for later replay.
type Recorder struct {
	rows []poseRow
}

// Add appends a frame.
func (r *Recorder) Add(f Frame) {
	r.rows = append(r.rows, rowFromFrame(f))
}

// Len returns the number of captured frames.
func (r *Recorder) Len() int { return len(r.rows) }

// Write encodes the captured frames as CSV with a header line.
func (r *Recorder) Write(w io.Writer) error {
	if len(r.rows) == 0 {
		return ErrEmptyRecording
	}
	if err := gocsv.Marshal(r.rows, w); err != nil {
		return fmt.Errorf("writing recording: %w", err)
	}
	return nil
}

// WriteFile writes the captured frames to a CSV file.
func (r *Recorder) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating recording: %w", err)
	}
	if err := r.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
