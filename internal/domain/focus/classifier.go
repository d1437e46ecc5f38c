package focus

import (
	"math"

	"github.com/studytrace/backend/internal/shared/types"
)

const (
	// Distraction-percentage thresholds between the three labels
	attentiveMaxPct     = 10.0
	semiAttentiveMaxPct = 25.0

	// Long-session override: ≥30 of 60+ minutes distracted forces
	// the distracted label regardless of percentage
	longSessionSeconds       = 3600
	longSessionDistractionMs = 30 * 60 * 1000

	// The live score is not meaningful before this much signal exists
	scoreWarmupSeconds = 60
)

// Input carries the accumulated counters a classification is computed from
type Input struct {
	ElapsedSeconds     int
	TotalDistractionMs int64
	TabSwitches        int
	DistractionEvents  int
	ActivityTotal      int // keystrokes + pointer moves + scroll events
}

// Outcome is the classification result: the label that gets persisted
// and the advisory display score.
type Outcome struct {
	Level types.FocusLevel
	Score int
}

// Classify maps accumulated counters into a focus label and score.
// Pure and cheap: no I/O, no state, safe to call every tick.
func Classify(in Input) Outcome {
	return Outcome{
		Level: Level(in.ElapsedSeconds, in.TotalDistractionMs),
		Score: Score(in),
	}
}

// Level computes the persisted label from elapsed time and distraction total.
// Zero elapsed time is defined as attentive: no signal, neutral default.
func Level(elapsedSeconds int, totalDistractionMs int64) types.FocusLevel {
	if elapsedSeconds <= 0 {
		return types.FocusAttentive
	}

	if elapsedSeconds >= longSessionSeconds && totalDistractionMs >= longSessionDistractionMs {
		return types.FocusDistracted
	}

	pct := distractionPct(elapsedSeconds, totalDistractionMs)
	switch {
	case pct < attentiveMaxPct:
		return types.FocusAttentive
	case pct < semiAttentiveMaxPct:
		return types.FocusSemiAttentive
	default:
		return types.FocusDistracted
	}
}

// Score computes the advisory 0-100 display score. It stays at the
// neutral 100 during the first minute of a session.
func Score(in Input) int {
	if in.ElapsedSeconds < scoreWarmupSeconds {
		return 100
	}

	elapsedMinutes := float64(in.ElapsedSeconds) / 60.0
	pct := distractionPct(in.ElapsedSeconds, in.TotalDistractionMs)

	score := 100.0
	score -= math.Min(40, pct)
	score -= math.Min(20, float64(in.TabSwitches)/elapsedMinutes*5)

	// Activity bonus is net negative-to-zero unless activity is high
	score += math.Min(20, float64(in.ActivityTotal)/10) - 20

	score = math.Max(0, math.Min(100, score))
	return int(math.Round(score))
}

func distractionPct(elapsedSeconds int, totalDistractionMs int64) float64 {
	if elapsedSeconds <= 0 {
		return 0
	}
	return float64(totalDistractionMs) / (float64(elapsedSeconds) * 1000.0) * 100.0
}
