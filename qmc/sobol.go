// SPDX-License-Identifier: MIT

// sobol.go - direction-number construction and Gray-code point generation
// for the scrambled Sobol sequence.
package qmc

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/pdevine/tensor"
	"golang.org/x/exp/rand"
)

const (
	// MaxDim is the largest supported dimensionality, bounded by the
	// embedded primitive-polynomial table.
	MaxDim = 17

	// MaxBit is the bit resolution of each coordinate; one seeding of the
	// sequence yields 2^MaxBit points.
	MaxBit = 30

	// Capacity is the number of points available between reseedings.
	Capacity = 1 << MaxBit
)

// Sentinel errors for sequence preconditions.
var (
	// ErrNotPowerOfTwo rejects draw sizes that break the net structure of
	// the sequence. Raised before any sampling work occurs.
	ErrNotPowerOfTwo = errors.New("qmc: draw size must be a power of two")

	// ErrDimension rejects dimensionalities outside [1, MaxDim].
	ErrDimension = errors.New("qmc: dimension out of range")

	// ErrDrawSize rejects non-positive draw sizes.
	ErrDrawSize = errors.New("qmc: draw size must be positive")
)

// polynomial holds one row of the direction-number table: the degree s of
// a primitive polynomial over GF(2), its interior coefficient bits a, and
// the initial odd values m_i < 2^i.
type polynomial struct {
	s uint
	a uint32
	m []uint32
}

// Direction-number table for dimensions 2..MaxDim (dimension 1 is the
// van der Corput sequence and needs no polynomial). Degrees and interior
// coefficients enumerate the primitive polynomials in the usual order;
// initial values follow Joe & Kuo.
var polyTable = []polynomial{
	{1, 0, []uint32{1}},
	{2, 1, []uint32{1, 3}},
	{3, 1, []uint32{1, 3, 1}},
	{3, 2, []uint32{1, 1, 1}},
	{4, 1, []uint32{1, 1, 3, 3}},
	{4, 4, []uint32{1, 3, 5, 13}},
	{5, 2, []uint32{1, 1, 5, 5, 17}},
	{5, 4, []uint32{1, 1, 5, 5, 5}},
	{5, 7, []uint32{1, 1, 7, 11, 19}},
	{5, 11, []uint32{1, 1, 5, 1, 1}},
	{5, 13, []uint32{1, 1, 1, 3, 11}},
	{5, 14, []uint32{1, 3, 5, 5, 31}},
	{6, 1, []uint32{1, 3, 3, 9, 7, 49}},
	{6, 13, []uint32{1, 1, 5, 13, 11, 1}},
	{6, 16, []uint32{1, 1, 5, 5, 3, 15}},
	{6, 19, []uint32{1, 3, 1, 13, 9, 49}},
}

// Sobol generates scrambled Sobol points of a fixed dimensionality.
// The zero value is not usable; construct with New.
type Sobol struct {
	dim   int
	count uint32     // points generated since the last (re)seeding
	ix    []uint32   // per-dimension Gray-code accumulator
	iv    [][]uint32 // direction numbers, iv[d][bit]
	shift []uint32   // per-dimension digital-shift scrambling masks
	rng   *rand.Rand // feeds Reseed when Draw wraps transparently
}

// New constructs a Sobol sequence of the given dimension, scrambled with
// a digital shift derived from seed.
//
// Errors: ErrDimension if dim is outside [1, MaxDim].
func New(dim int, seed uint64) (*Sobol, error) {
	if dim < 1 || dim > MaxDim {
		return nil, fmt.Errorf("dim %d, supported range [1, %d]: %w", dim, MaxDim, ErrDimension)
	}
	s := &Sobol{
		dim: dim,
		iv:  directionNumbers(dim),
		rng: rand.New(rand.NewSource(seed)),
	}
	s.Reseed(seed)
	return s, nil
}

// directionNumbers builds iv[d][k] = v_k for each of the dim dimensions.
// Dimension 0 is the van der Corput radical inverse; the rest follow the
// recurrence v_k = v_{k-s} ^ (v_{k-s} >> s) ^ Σ a_l·v_{k-l}.
func directionNumbers(dim int) [][]uint32 {
	iv := make([][]uint32, dim)
	for d := 0; d < dim; d++ {
		v := make([]uint32, MaxBit)
		if d == 0 {
			for k := 0; k < MaxBit; k++ {
				v[k] = 1 << (MaxBit - 1 - uint(k))
			}
			iv[d] = v
			continue
		}
		p := polyTable[d-1]
		deg := int(p.s)
		for k := 0; k < deg; k++ {
			v[k] = p.m[k] << (MaxBit - 1 - uint(k))
		}
		for k := deg; k < MaxBit; k++ {
			v[k] = v[k-deg] ^ (v[k-deg] >> p.s)
			for l := 1; l < deg; l++ {
				if (p.a>>(uint(deg-1-l)))&1 == 1 {
					v[k] ^= v[k-l]
				}
			}
		}
		iv[d] = v
	}
	return iv
}

// Dim returns the sequence dimensionality.
func (s *Sobol) Dim() int { return s.dim }

// Remaining reports how many points can still be drawn before the next
// reseeding.
func (s *Sobol) Remaining() int { return Capacity - int(s.count) }

// Reseed resets the cursor and applies a fresh digital-shift scrambling
// derived from seed. Previously drawn points are unrelated to future ones.
func (s *Sobol) Reseed(seed uint64) {
	src := rand.New(rand.NewSource(seed))
	s.shift = make([]uint32, s.dim)
	for d := range s.shift {
		s.shift[d] = src.Uint32() & (Capacity - 1)
	}
	s.ix = make([]uint32, s.dim)
	s.count = 0
}

// Draw generates the next n points as an (n, dim) tensor with entries in
// [0, 1). n must be a power of two in [1, Capacity); if the request
// exceeds the remaining capacity the sequence transparently reseeds
// itself with a fresh random seed before drawing.
//
// Errors: ErrDrawSize, ErrNotPowerOfTwo.
func (s *Sobol) Draw(n int) (*tensor.Dense, error) {
	// Even a fresh seeding holds only Capacity points, and the cursor
	// must stay below Capacity-1 so the Gray code keeps a zero bit
	// inside the MaxBit window; a full-capacity request cannot be
	// served by one seeding.
	if n <= 0 || n >= Capacity {
		return nil, fmt.Errorf("n=%d, valid range [1, %d): %w", n, Capacity, ErrDrawSize)
	}
	if bits.OnesCount(uint(n)) != 1 {
		return nil, fmt.Errorf("n=%d: %w", n, ErrNotPowerOfTwo)
	}
	// Strict inequality keeps the cursor below Capacity-1, so the Gray
	// code always has a zero bit inside the MaxBit window.
	if n >= s.Remaining() {
		s.Reseed(s.rng.Uint64())
	}

	const scale = 1.0 / float64(Capacity)
	data := make([]float64, n*s.dim)
	for i := 0; i < n; i++ {
		// Position of the lowest zero bit of the cursor selects the
		// direction number (Gray-code ordering).
		c := bits.TrailingZeros32(^s.count)
		s.count++
		for d := 0; d < s.dim; d++ {
			s.ix[d] ^= s.iv[d][c]
			data[i*s.dim+d] = float64(s.ix[d]^s.shift[d]) * scale
		}
	}
	return tensor.New(tensor.WithShape(n, s.dim), tensor.WithBacking(data)), nil
}
