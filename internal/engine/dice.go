package engine

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	mrand "math/rand/v2"
)

// Dice is the source of every random decision in a session.
type Dice interface {
	// Between returns a uniform integer in [lo, hi].
	Between(lo, hi int) int
	// Chance returns true with probability p.
	Chance(p float64) bool
}

// RandDice is a seeded PCG generator. It is not safe for concurrent use;
// each session owns one.
type RandDice struct {
	rng *mrand.Rand
}

// NewDice returns dice seeded deterministically from seed.
func NewDice(seed int64) *RandDice {
	// #nosec G404 -- game rolls, reproducible by seed
	return &RandDice{rng: mrand.New(mrand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))}
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%d:%s", seed, salt)
	return h.Sum64()
}

// RandomSeed draws a seed from crypto/rand.
func RandomSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1)
}

func (d *RandDice) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + d.rng.IntN(hi-lo+1)
}

func (d *RandDice) Chance(p float64) bool {
	switch {
	case p <= 0:
		return false
	case p >= 1:
		return true
	}
	return d.rng.Float64() < p
}

// ScriptedDice replays queued results, then defers to Fallback. Without a
// fallback, Between returns lo and Chance returns false.
type ScriptedDice struct {
	Rolls    []int
	Chances  []bool
	Fallback Dice
}

func (d *ScriptedDice) Between(lo, hi int) int {
	if len(d.Rolls) == 0 {
		if d.Fallback != nil {
			return d.Fallback.Between(lo, hi)
		}
		return lo
	}
	v := d.Rolls[0]
	d.Rolls = d.Rolls[1:]
	return max(lo, min(v, hi))
}

func (d *ScriptedDice) Chance(p float64) bool {
	if len(d.Chances) == 0 {
		if d.Fallback != nil {
			return d.Fallback.Chance(p)
		}
		return false
	}
	v := d.Chances[0]
	d.Chances = d.Chances[1:]
	return v
}
