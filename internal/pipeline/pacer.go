package pipeline

import (
	"context"
	"math/rand"
	"time"

	"github.com/csradar/csradar/internal/metrics"
)

// Pause ranges between page visits, in pace units. Ranges widen after
// failures so a struggling run backs off instead of hammering the site.
const (
	teamPauseMin = 10
	teamPauseMax = 20

	playerPauseMin = 15
	playerPauseMax = 25

	errorPauseMin = 20
	errorPauseMax = 30
)

// pacer draws randomized pauses scaled by the run's observed error rate.
type pacer struct {
	unit     time.Duration
	rng      *rand.Rand
	attempts int
	errors   int
}

func newPacer(unit time.Duration) *pacer {
	return &pacer{
		unit: unit,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *pacer) recordAttempt(ok bool) {
	p.attempts++
	if !ok {
		p.errors++
	}
}

// scale stretches pauses as the error rate climbs: a clean run pays 1x, a run
// failing every request pays 2x.
func (p *pacer) scale() float64 {
	if p.attempts == 0 {
		return 1
	}
	return 1 + float64(p.errors)/float64(p.attempts)
}

func (p *pacer) pause(ctx context.Context, stage string, min, max float64) {
	units := min + p.rng.Float64()*(max-min)
	delay := time.Duration(units * p.scale() * float64(p.unit))
	if delay <= 0 {
		return
	}
	metrics.ObservePause(stage, delay)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
