package skiplist

import (
	randv1 "math/rand"
	"math/rand/v2"
)

// sampleLevel counts Bernoulli(p) successes up to maxLevel, starting at 0.
// next must return a uniform draw in [0, 1).
func sampleLevel(next func() float64, p float64, maxLevel int) int {
	level := 0
	for level < maxLevel && next() < p {
		level++
	}
	return level
}

// lockedLevelGen samples tower heights for Locked. math/rand/v2's top-level
// functions draw from a per-goroutine source, so concurrent inserters never
// contend on a shared RNG the way a single *rand.Rand would.
type lockedLevelGen struct {
	p        float64
	maxLevel int
}

func (g lockedLevelGen) sample() int {
	return sampleLevel(rand.Float64, g.p, g.maxLevel)
}

// fatLevelGen samples tower heights for Fat. Fat already serializes every
// operation behind one mutex, so a single seeded *rand.Rand held by the list
// is simpler than per-goroutine state and costs nothing extra.
type fatLevelGen struct {
	p        float64
	maxLevel int
	rng      *randv1.Rand
}

func newFatLevelGen(p float64, maxLevel int) *fatLevelGen {
	return &fatLevelGen{p: p, maxLevel: maxLevel, rng: randv1.New(randv1.NewSource(rand.Int64()))}
}

func (g *fatLevelGen) sample() int {
	return sampleLevel(g.rng.Float64, g.p, g.maxLevel)
}
