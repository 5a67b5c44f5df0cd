package input

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/vovakirdan/tui-liquid/internal/config"
)

// Tilt samples a simulated device orientation and emits gravity events,
// standing in for an accelerometer feed.
type Tilt struct {
	mode      string
	amplitude float64 // Degrees either side of straight down
	period    time.Duration
	interval  time.Duration
}

// NewTilt creates a sampler from the tilt section of the configuration.
func NewTilt(cfg config.TiltConfig) *Tilt {
	t := &Tilt{
		mode:      cfg.Mode,
		amplitude: cfg.Amplitude,
		period:    cfg.Period(),
		interval:  time.Second,
	}
	if cfg.SampleHz > 0 {
		t.interval = time.Second / time.Duration(cfg.SampleHz)
	}
	return t
}

// Mode returns the sampler mode.
func (t *Tilt) Mode() string {
	return t.mode
}

// At returns the gravity sample elapsed into the run. Fixed mode always
// points straight down; sway mode swings gravity sinusoidally by up to
// the configured amplitude.
func (t *Tilt) At(elapsed time.Duration) SetGravity {
	if t.mode != config.TiltSway || t.period <= 0 {
		return SetGravity{X: 0, Y: -1}
	}
	phase := 2 * math.Pi * elapsed.Seconds() / t.period.Seconds()
	angle := t.amplitude * math.Sin(phase) * math.Pi / 180
	// Counter-clockwise from straight down.
	return SetGravity{X: math.Sin(angle), Y: -math.Cos(angle)}
}

// Run emits samples on out until ctx is done. Fixed mode emits a single
// sample. Samples are dropped rather than queued when out is full.
func (t *Tilt) Run(ctx context.Context, out chan<- Event) {
	start := time.Now()
	emit := func() {
		select {
		case out <- t.At(time.Since(start)):
		default:
		}
	}

	emit()
	if t.mode != config.TiltSway {
		return
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			emit()
		}
	}
}

// Feed starts the sampler and an adapter loop that applies its samples.
// Both stop when ctx is done or the returned stop function is called;
// stop returns once no further sample can reach the adapter.
func Feed(ctx context.Context, t *Tilt, a *Adapter) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan Event, 1)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		t.Run(ctx, ch)
	}()
	go func() {
		defer wg.Done()
		a.Run(ctx, ch)
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}
