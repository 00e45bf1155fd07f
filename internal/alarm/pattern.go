package alarm

import "time"

// Tone is one sine burst followed by a silent gap.
type Tone struct {
	Frequency float64
	Duration  time.Duration
	Gap       time.Duration
}

type Pattern []Tone

// DefaultPattern is three rising bursts, 1.01s in total.
var DefaultPattern = Pattern{
	{Frequency: 880, Duration: 150 * time.Millisecond, Gap: 80 * time.Millisecond},
	{Frequency: 1100, Duration: 200 * time.Millisecond, Gap: 80 * time.Millisecond},
	{Frequency: 1320, Duration: 300 * time.Millisecond, Gap: 200 * time.Millisecond},
}

// Total is the time the pattern takes to play, gaps included.
func (p Pattern) Total() time.Duration {
	var d time.Duration
	for _, t := range p {
		d += t.Duration + t.Gap
	}
	return d
}
