// Package distribution provides the capability interfaces of boltzgen's
// probabilistic components — energies, samplers, normalized densities —
// together with concrete vector-valued component distributions (Normal,
// Uniform, TruncatedNormal built on gonum/stat/distuv) and their product
// composition.
//
// Capability pairs, not class hierarchies:
//
//   - Energier — an unnormalized negative log-density E(x) = -log p(x) + C,
//     returned as one value per batch row.
//   - Sampler  — draws n samples at an optional sampling temperature; the
//     temperature's numeric meaning is owned by each component and passed
//     through unmodified by all composition layers.
//   - LogProber — the exact normalized log-density; distinct from Energy
//     and never interchangeable with it.
//   - UniformSourced — accepts a pre-supplied block of uniforms in [0,1),
//     the hook through which quasi-random sampling substitutes Sobol
//     points for pseudo-randomness.
//
// Product composition combines K independent components: energies add,
// samples are drawn independently, and the batch is returned either as K
// separate tensors or as one tensor concatenated along a chosen event
// axis (all component shapes must then agree on every other axis, checked
// at construction time). SobolProductSampler additionally shares one
// scrambled Sobol sequence across the concatenated dimensions of all
// components.
//
// Product samplers hold the only mutable state in the package (the Sobol
// cursor); a SobolProductSampler must not be used from multiple
// goroutines without external serialization.
package distribution
