package nexttime

import (
	"math/rand/v2"
	"sync"
)

// Jitter returns a uniform offset in minutes within [-rangeMinutes, +rangeMinutes].
type Jitter interface {
	Offset(rangeMinutes int) int
}

type noJitter struct{}

func NoJitter() Jitter {
	return noJitter{}
}

func (noJitter) Offset(int) int {
	return 0
}

type randomJitter struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomJitter returns a seeded jitter source safe for concurrent use.
func NewRandomJitter(seed uint64) Jitter {
	return &randomJitter{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (j *randomJitter) Offset(rangeMinutes int) int {
	if rangeMinutes <= 0 {
		return 0
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	return j.rng.IntN(2*rangeMinutes+1) - rangeMinutes
}
