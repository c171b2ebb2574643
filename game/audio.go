package game

import "log/slog"

// logAudio stands in for a sound device: cues are logged and counted.
type logAudio struct {
	counts map[string]int
}

func newLogAudio() *logAudio {
	return &logAudio{counts: make(map[string]int)}
}

func (a *logAudio) Play(cue string) {
	a.counts[cue]++
	slog.Debug("audio cue", "cue", cue, "count", a.counts[cue])
}

// Count returns how many times a cue has played.
func (a *logAudio) Count(cue string) int { return a.counts[cue] }
