package bell

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// release is the fade at the end of the tone that avoids a click.
const release = 20 * time.Millisecond

// tone is a sine oscillator with a linear release.
type tone struct {
	step     float64
	phase    float64
	length   int
	release  int
	position int
}

func newTone(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &tone{
		step:    freq / float64(rate),
		length:  rate.N(d),
		release: rate.N(release),
	}
}

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if t.position >= t.length {
			return i, i > 0
		}
		v := 0.5 * math.Sin(2*math.Pi*t.phase)
		if left := t.length - t.position; left < t.release {
			v *= float64(left) / float64(t.release)
		}
		samples[i][0] = v
		samples[i][1] = v
		t.phase += t.step
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }
