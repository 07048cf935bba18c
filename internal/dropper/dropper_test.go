package dropper

import (
	"math/rand"
	"testing"
)

func TestBernoulliEdgeRates(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	zero := New(0, rng)
	for i := 0; i < 1000; i++ {
		if zero.Drop() {
			t.Fatalf("p=0 dropped a block")
		}
	}
	one := New(1, rng)
	for i := 0; i < 1000; i++ {
		if !one.Drop() {
			t.Fatalf("p=1 kept a block")
		}
	}
}

func TestBernoulliRoughlyMatchesRate(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	b := New(0.3, rng)
	drops := 0
	const trials = 20000
	for i := 0; i < trials; i++ {
		if b.Drop() {
			drops++
		}
	}
	rate := float64(drops) / trials
	if rate < 0.25 || rate > 0.35 {
		t.Fatalf("observed drop rate %.3f far from configured 0.3", rate)
	}
}
