// Package qmc implements a scrambled Sobol low-discrepancy sequence used
// as a quality-improving substitute for pseudo-random uniforms in product
// samplers.
//
// A Sobol point set covers the unit hypercube far more evenly than i.i.d.
// uniforms, which lowers the variance of importance-sampling estimators —
// provided draws come in power-of-two blocks, a structural property of
// the (t,m,s)-net construction. Draw therefore rejects any other batch
// size up front.
//
// The generator is an explicitly owned resource: its cursor advances on
// every draw, Remaining reports the unconsumed capacity, and Reseed
// resets the cursor under a fresh random digital-shift scrambling. Draw
// transparently reseeds when a request would exceed the remaining
// capacity, so long-running samplers never observe exhaustion.
//
// Direction numbers follow the classical primitive-polynomial
// construction (Press et al., Numerical Recipes; initial values in the
// style of Joe & Kuo), supporting up to MaxDim dimensions with MaxBit
// bits of resolution (2^MaxBit points per seeding).
//
// A Sobol instance is not safe for concurrent use: simultaneous Draw
// calls race on the cursor and must be serialized by the caller.
package qmc
