package vm

import (
	"errors"
	"math/bits"

	"github.com/zenith391/rhm/internal/config"
)

var errOutOfRegisters = errors.New("out of registers")

// registerSet is the compiler's free/used bitmap over the 256 registers.
// A set bit means the register is taken.
type registerSet struct {
	words [config.NumRegisters / 64]uint64
}

// allocate claims the lowest-numbered free register.
func (s *registerSet) allocate() (uint8, error) {
	for w, word := range s.words {
		if word == ^uint64(0) {
			continue
		}
		bit := bits.TrailingZeros64(^word)
		s.words[w] |= 1 << bit
		return uint8(w*64 + bit), nil
	}
	return 0, errOutOfRegisters
}

// take claims a specific register, free or not.
func (s *registerSet) take(r uint8) {
	s.words[r/64] |= 1 << (r % 64)
}

// release marks a register free again.
func (s *registerSet) release(r uint8) {
	s.words[r/64] &^= 1 << (r % 64)
}

// inUse reports whether r is currently taken.
func (s *registerSet) inUse(r uint8) bool {
	return s.words[r/64]&(1<<(r%64)) != 0
}

// liveCount returns the number of taken registers.
func (s *registerSet) liveCount() int {
	n := 0
	for _, word := range s.words {
		n += bits.OnesCount64(word)
	}
	return n
}
