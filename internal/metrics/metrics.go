package metrics

import (
	"math"

	"github.com/san-kum/fixstep/internal/dynamo"
)

// Metric accumulates one summary value over the samples of a run.
// Non-finite samples are ignored.
type Metric interface {
	Name() string
	Observe(x dynamo.State, t float64)
	Value() float64
	Reset()
}

// Default returns fresh instances of the metrics recorded for every run.
func Default() []Metric {
	return []Metric{
		NewMeanNorm(),
		NewMaxNorm(),
		NewChannelMean(2),
		NewEscape(1e6),
	}
}

// Evaluate resets ms and feeds them every sample of tr, whose sample i
// is taken at t0 + i*dt.
func Evaluate(tr dynamo.Trajectory, t0, dt float64, ms ...Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	for i, x := range tr {
		if !x.IsValid() {
			continue
		}
		t := t0 + float64(i)*dt
		for _, m := range ms {
			m.Observe(x, t)
		}
	}

	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

type MeanNorm struct {
	sum     float64
	samples int
}

func NewMeanNorm() *MeanNorm { return &MeanNorm{} }

func (m *MeanNorm) Name() string { return "mean_norm" }

func (m *MeanNorm) Observe(x dynamo.State, _ float64) {
	m.sum += x.Norm()
	m.samples++
}

func (m *MeanNorm) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanNorm) Reset() {
	m.sum = 0
	m.samples = 0
}

type MaxNorm struct {
	max float64
}

func NewMaxNorm() *MaxNorm { return &MaxNorm{} }

func (m *MaxNorm) Name() string { return "max_norm" }

func (m *MaxNorm) Observe(x dynamo.State, _ float64) {
	m.max = math.Max(m.max, x.Norm())
}

func (m *MaxNorm) Value() float64 { return m.max }

func (m *MaxNorm) Reset() { m.max = 0 }

// ChannelMean is the average of one state channel. For the Lorenz field
// the mean of z sits near B-1 on the attractor.
type ChannelMean struct {
	channel int
	sum     float64
	samples int
}

func NewChannelMean(channel int) *ChannelMean {
	return &ChannelMean{channel: channel}
}

func (c *ChannelMean) Name() string {
	return "mean_" + [3]string{"x", "y", "z"}[c.channel]
}

func (c *ChannelMean) Observe(x dynamo.State, _ float64) {
	c.sum += x[c.channel]
	c.samples++
}

func (c *ChannelMean) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ChannelMean) Reset() {
	c.sum = 0
	c.samples = 0
}

// Escape records the first time the state norm exceeds a limit, or -1.
type Escape struct {
	limit float64
	at    float64
	hit   bool
}

func NewEscape(limit float64) *Escape {
	return &Escape{limit: limit}
}

func (e *Escape) Name() string { return "escape_time" }

func (e *Escape) Observe(x dynamo.State, t float64) {
	if !e.hit && x.Norm() > e.limit {
		e.at = t
		e.hit = true
	}
}

func (e *Escape) Value() float64 {
	if !e.hit {
		return -1
	}
	return e.at
}

func (e *Escape) Reset() {
	e.at = 0
	e.hit = false
}
