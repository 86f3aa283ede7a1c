package prediction

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/hearmony/backend/internal/model/emotion"
)

const (
	dirichletAlpha = 0.5
	minTopShare    = 0.4
	topN           = 3
)

// Result is the raw classifier output, confidences in [0, 1].
type Result struct {
	Emotion emotion.Label
	Shares  map[emotion.Label]float64
}

// Classifier produces one emotion estimate per call.
type Classifier interface {
	Classify(ctx context.Context) (Result, error)
}

// SimulatedClassifier stands in for the acoustic model. It picks a label
// uniformly and draws a plausible confidence spread around it.
type SimulatedClassifier struct {
	mu     sync.Mutex
	rng    *rand.Rand
	labels []emotion.Label
	delay  time.Duration
}

// NewSimulatedClassifier creates a classifier. A nil seed uses the clock.
func NewSimulatedClassifier(seed *int64, delay time.Duration) *SimulatedClassifier {
	s := time.Now().UnixNano()
	if seed != nil {
		s = *seed
	}
	return &SimulatedClassifier{
		rng:    rand.New(rand.NewSource(s)),
		labels: emotion.Known(),
		delay:  delay,
	}
}

// Classify waits for the configured processing delay and returns a draw.
func (c *SimulatedClassifier) Classify(ctx context.Context) (Result, error) {
	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	picked := c.rng.Intn(len(c.labels))
	shares := c.dirichlet(len(c.labels))

	maxIdx := 0
	for i := range shares {
		if shares[i] > shares[maxIdx] {
			maxIdx = i
		}
	}
	shares[picked], shares[maxIdx] = shares[maxIdx], shares[picked]

	if shares[picked] < minTopShare {
		boost := minTopShare - shares[picked]
		shares[picked] = minTopShare
		scale := (1 - minTopShare) / (1 - minTopShare + boost)
		for i := range shares {
			if i != picked {
				shares[i] *= scale
			}
		}
	}

	out := Result{Emotion: c.labels[picked], Shares: make(map[emotion.Label]float64, len(shares))}
	for i, label := range c.labels {
		out.Shares[label] = shares[i]
	}
	return out, nil
}

// dirichlet draws from a symmetric Dirichlet by normalising gamma variates.
func (c *SimulatedClassifier) dirichlet(n int) []float64 {
	out := make([]float64, n)
	var sum float64
	for i := range out {
		out[i] = c.gamma(dirichletAlpha)
		sum += out[i]
	}
	if sum == 0 {
		for i := range out {
			out[i] = 1 / float64(n)
		}
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// gamma samples Gamma(alpha, 1) with the Marsaglia-Tsang method.
func (c *SimulatedClassifier) gamma(alpha float64) float64 {
	if alpha < 1 {
		u := c.rng.Float64()
		return c.gamma(alpha+1) * math.Pow(u, 1/alpha)
	}

	d := alpha - 1.0/3
	k := 1 / math.Sqrt(9*d)
	for {
		x := c.rng.NormFloat64()
		v := 1 + k*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := c.rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

// TopScores returns the n highest shares as percentages, highest first.
func TopScores(shares map[emotion.Label]float64, n int) []emotion.Score {
	scores := make([]emotion.Score, 0, len(shares))
	for label, share := range shares {
		scores = append(scores, emotion.Score{Emotion: label, Confidence: share * 100})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Confidence == scores[j].Confidence {
			return scores[i].Emotion < scores[j].Emotion
		}
		return scores[i].Confidence > scores[j].Confidence
	})
	if n > 0 && len(scores) > n {
		scores = scores[:n]
	}
	return scores
}
