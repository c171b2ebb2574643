package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkTakeoff        BookmarkType = "takeoff"
	BookmarkLanding        BookmarkType = "landing"
	BookmarkAltitudeRecord BookmarkType = "altitude_record"
	BookmarkFlapBurst      BookmarkType = "flap_burst"
	BookmarkSustainedGlide BookmarkType = "sustained_glide"
)

const (
	airborneFraction    = 0.5 // Grounded fraction below which a window counts as airborne
	altitudeRecordGain  = 5.0 // Metres above the previous record
	flapBurstFactor     = 2.0
	flapBurstMin        = 5
	sustainedGlideFrac  = 0.8
	sustainedGlideCount = 3
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `json:"type"`
	Step        int64        `json:"step"`
	Description string       `json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"step", b.Step,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments in a flight.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	altitudeRecord float64
	hasRecord      bool
	glideWindows   int // consecutive windows mostly spent gliding
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if prev, ok := bd.last(); ok {
		if b := bd.checkTransition(prev, stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkFlapBurst(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	if b := bd.checkAltitudeRecord(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSustainedGlide(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) last() (WindowStats, bool) {
	if !bd.historyFull && bd.historyIdx == 0 {
		return WindowStats{}, false
	}
	idx := (bd.historyIdx - 1 + bd.historySize) % bd.historySize
	return bd.history[idx], true
}

func (bd *BookmarkDetector) checkTransition(prev, stats WindowStats) *Bookmark {
	wasAirborne := prev.GroundedFraction < airborneFraction
	isAirborne := stats.GroundedFraction < airborneFraction

	switch {
	case !wasAirborne && isAirborne:
		return &Bookmark{
			Type:        BookmarkTakeoff,
			Step:        stats.WindowEndStep,
			Description: fmt.Sprintf("Airborne %.0f%% of window after %d flaps", (1-stats.GroundedFraction)*100, stats.Flaps),
		}
	case wasAirborne && !isAirborne:
		return &Bookmark{
			Type:        BookmarkLanding,
			Step:        stats.WindowEndStep,
			Description: fmt.Sprintf("Grounded %.0f%% of window, %.1fm from start", stats.GroundedFraction*100, stats.TotalDistance),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkAltitudeRecord(stats WindowStats) *Bookmark {
	if !bd.hasRecord {
		bd.altitudeRecord = stats.MaxAltitude
		bd.hasRecord = true
		return nil
	}
	if stats.MaxAltitude < bd.altitudeRecord+altitudeRecordGain {
		return nil
	}

	old := bd.altitudeRecord
	bd.altitudeRecord = stats.MaxAltitude
	return &Bookmark{
		Type:        BookmarkAltitudeRecord,
		Step:        stats.WindowEndStep,
		Description: fmt.Sprintf("Altitude %.1fm beats previous record %.1fm", stats.MaxAltitude, old),
	}
}

func (bd *BookmarkDetector) checkFlapBurst(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.Flaps < flapBurstMin {
		return nil
	}

	// Rolling average flap count
	var total int
	for _, h := range history {
		total += h.Flaps
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 || float64(stats.Flaps) <= avg*flapBurstFactor {
		return nil
	}

	return &Bookmark{
		Type:        BookmarkFlapBurst,
		Step:        stats.WindowEndStep,
		Description: fmt.Sprintf("%d flaps is %.1fx average (%.1f)", stats.Flaps, float64(stats.Flaps)/avg, avg),
	}
}

func (bd *BookmarkDetector) checkSustainedGlide(stats WindowStats) *Bookmark {
	if stats.GlideFraction < sustainedGlideFrac {
		bd.glideWindows = 0
		return nil
	}
	bd.glideWindows++

	if bd.glideWindows == sustainedGlideCount { // trigger once per glide run
		return &Bookmark{
			Type:        BookmarkSustainedGlide,
			Step:        stats.WindowEndStep,
			Description: fmt.Sprintf("Gliding over %d consecutive windows at %.1fm/s", sustainedGlideCount, stats.SpeedMean),
		}
	}
	return nil
}
