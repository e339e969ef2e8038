// SPDX-License-Identifier: MIT

// generator.go - the Boltzmann generator proper: sampling, density
// evaluation and the reverse-KL training estimator.
package boltzmann

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/boltzgen/core"
	"github.com/katalvlaran/boltzgen/flow"
)

// Generator ties a prior, a flow and a target energy together.
type Generator struct {
	prior  Prior
	flow   flow.Transform
	target Target
}

// New constructs a generator. All three collaborators are required.
func New(prior Prior, f flow.Transform, target Target) (*Generator, error) {
	if prior == nil {
		return nil, ErrNilPrior
	}
	if f == nil {
		return nil, ErrNilFlow
	}
	if target == nil {
		return nil, ErrNilTarget
	}
	return &Generator{prior: prior, flow: f, target: target}, nil
}

// Flow returns the wrapped transform.
func (g *Generator) Flow() flow.Transform { return g.flow }

// Prior returns the wrapped prior.
func (g *Generator) Prior() Prior { return g.prior }

// SampleResult carries the outputs of one Sample call. X is always set;
// the remaining fields are populated only when requested by the
// corresponding option.
type SampleResult struct {
	// X holds the transformed samples.
	X core.Batch

	// Z holds the latent batch (WithLatent).
	Z core.Batch

	// DLogP holds the per-row log-Jacobian column (WithDlogp).
	DLogP []float64

	// Energy holds the generator's own unnormalized negative
	// log-density of X: prior energy plus dlogp (WithEnergy).
	Energy []float64

	// LogWeights holds un-normalized importance log-weights
	// (WithLogWeights).
	LogWeights []float64

	// Weights holds the batch-softmax of LogWeights (WithWeights).
	Weights []float64
}

// Sample draws n latents from the prior, pushes them through the flow
// and derives the requested diagnostics.
func (g *Generator) Sample(n int, opts ...Option) (*SampleResult, error) {
	if n <= 0 {
		return nil, fmt.Errorf("n=%d: %w", n, ErrBadCount)
	}
	cfg := newConfig(opts...)

	z, err := g.prior.Sample(n)
	if err != nil {
		return nil, fmt.Errorf("prior sample: %w", err)
	}
	x, dlogp, err := g.flow.Forward(z, cfg.ctx)
	if err != nil {
		return nil, fmt.Errorf("flow forward: %w", err)
	}
	if err := core.CheckColumn(dlogp, n); err != nil {
		return nil, fmt.Errorf("flow forward: %w", err)
	}

	res := &SampleResult{X: x}
	if cfg.withLatent {
		res.Z = z
	}
	if cfg.withDlogp {
		res.DLogP = dlogp
	}
	if !cfg.withEnergy && !cfg.withLogWeights && !cfg.withWeights {
		return res, nil
	}

	priorE, err := g.prior.Energy(z)
	if err != nil {
		return nil, fmt.Errorf("prior energy: %w", err)
	}
	bgEnergy, err := core.AddColumns(priorE, dlogp)
	if err != nil {
		return nil, err
	}
	if cfg.withEnergy {
		// SubColumns works in place below; keep the energy column intact.
		res.Energy = append([]float64(nil), bgEnergy...)
	}
	if !cfg.withLogWeights && !cfg.withWeights {
		return res, nil
	}

	targetE, err := g.target.Energy(x, cfg.temperature)
	if err != nil {
		return nil, fmt.Errorf("target energy: %w", err)
	}
	logw, err := core.SubColumns(bgEnergy, targetE)
	if err != nil {
		return nil, err
	}
	if cfg.withLogWeights {
		res.LogWeights = logw
	}
	if cfg.withWeights {
		res.Weights = core.Softmax(logw)
	}
	return res, nil
}

// Energy evaluates the unnormalized negative log-likelihood of given
// configurations under the generator's modeled density: the flow is
// inverted and the prior energy corrected by the inverse pass's
// log-Jacobian (the change-of-variables formula).
func (g *Generator) Energy(x core.Batch, opts ...Option) ([]float64, error) {
	cfg := newConfig(opts...)

	z, negDlogp, err := g.flow.Inverse(x, cfg.ctx)
	if err != nil {
		return nil, fmt.Errorf("flow inverse: %w", err)
	}
	priorE, err := g.prior.Energy(z)
	if err != nil {
		return nil, fmt.Errorf("prior energy: %w", err)
	}
	return core.SubColumns(priorE, negDlogp)
}

// KLResult carries the per-sample reverse-KL estimate and, when
// requested, the raw target energies behind it.
type KLResult struct {
	// Values holds E(x) - dlogp per sample, with E possibly
	// regularized. A scalar training loss is the caller's reduction
	// (typically the mean) of this column.
	Values []float64

	// Energies holds the unregularized target energies
	// (WithRawEnergies).
	Energies []float64
}

// KLDiv estimates the unnormalized KL divergence between the generator's
// pushforward distribution and the target, one sample per term: draw
// z from the prior, push forward, score with the target and subtract the
// log-Jacobian. WithRegularizer reshapes the energies before the
// subtraction (heavy-tail clipping); WithRawEnergies returns the
// untouched energies alongside.
func (g *Generator) KLDiv(n int, opts ...Option) (*KLResult, error) {
	if n <= 0 {
		return nil, fmt.Errorf("n=%d: %w", n, ErrBadCount)
	}
	cfg := newConfig(opts...)

	z, err := g.prior.Sample(n)
	if err != nil {
		return nil, fmt.Errorf("prior sample: %w", err)
	}
	x, dlogp, err := g.flow.Forward(z, cfg.ctx)
	if err != nil {
		return nil, fmt.Errorf("flow forward: %w", err)
	}
	energy, err := g.target.Energy(x, cfg.temperature)
	if err != nil {
		return nil, fmt.Errorf("target energy: %w", err)
	}

	res := &KLResult{}
	if cfg.rawEnergies {
		res.Energies = append([]float64(nil), energy...)
	}
	if cfg.regularizer != nil {
		energy = cfg.regularizer(energy)
		if err := core.CheckColumn(energy, n); err != nil {
			return nil, fmt.Errorf("energy regularizer: %w", err)
		}
	}
	res.Values, err = core.SubColumns(energy, dlogp)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// LogWeights inverts the flow on given configurations and forms
// importance-sampling log-weights against the target.
func (g *Generator) LogWeights(x core.Batch, opts ...Option) ([]float64, error) {
	cfg := newConfig(opts...)

	z, negDlogp, err := g.flow.Inverse(x, cfg.ctx)
	if err != nil {
		return nil, fmt.Errorf("flow inverse: %w", err)
	}
	dlogp := make([]float64, len(negDlogp))
	for i, v := range negDlogp {
		dlogp[i] = -v
	}
	return g.LogWeightsGivenLatent(x, z, dlogp, opts...)
}

// LogWeightsGivenLatent computes the shared importance-weight formula
//
//	logw = prior.Energy(z) + dlogp - target.Energy(x, T)
//
// for triples already produced elsewhere. Unless WithoutNormalization is
// given, the batch logsumexp is subtracted so the weights sum to one in
// probability space.
func (g *Generator) LogWeightsGivenLatent(x, z core.Batch, dlogp []float64, opts ...Option) ([]float64, error) {
	cfg := newConfig(opts...)

	priorE, err := g.prior.Energy(z)
	if err != nil {
		return nil, fmt.Errorf("prior energy: %w", err)
	}
	targetE, err := g.target.Energy(x, cfg.temperature)
	if err != nil {
		return nil, fmt.Errorf("target energy: %w", err)
	}
	logw, err := core.AddColumns(priorE, dlogp)
	if err != nil {
		return nil, err
	}
	logw, err = core.SubColumns(logw, targetE)
	if err != nil {
		return nil, err
	}
	if cfg.normalize {
		core.NormalizeLogs(logw)
	}
	return logw, nil
}

// LogWeightsFromSamples amortizes importance-weight estimation over
// numSamples generator draws taken in chunks of batchSize. Latents,
// proposals and log-Jacobians accumulate across chunks and feed
// LogWeightsGivenLatent once. The trailing numSamples mod batchSize
// remainder is not drawn.
func (g *Generator) LogWeightsFromSamples(numSamples, batchSize int, opts ...Option) ([]float64, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size %d: %w", batchSize, ErrBadCount)
	}
	chunks := numSamples / batchSize
	if chunks == 0 {
		return nil, fmt.Errorf("%d samples in batches of %d: %w", numSamples, batchSize, ErrBadCount)
	}
	cfg := newConfig(opts...)

	var (
		zs    = make([]core.Batch, 0, chunks)
		xs    = make([]core.Batch, 0, chunks)
		dlogp = make([]float64, 0, chunks*batchSize)
	)
	for i := 0; i < chunks; i++ {
		z, err := g.prior.Sample(batchSize)
		if err != nil {
			return nil, fmt.Errorf("chunk %d prior sample: %w", i, err)
		}
		x, d, err := g.flow.Forward(z, cfg.ctx)
		if err != nil {
			return nil, fmt.Errorf("chunk %d flow forward: %w", i, err)
		}
		zs = append(zs, z)
		xs = append(xs, x)
		dlogp = append(dlogp, d...)
	}
	slog.Debug("boltzmann: importance-weight batches drawn",
		slog.Int("chunks", chunks), slog.Int("batch_size", batchSize))

	zCat, err := core.ConcatBatches(zs)
	if err != nil {
		return nil, fmt.Errorf("concat latents: %w", err)
	}
	xCat, err := core.ConcatBatches(xs)
	if err != nil {
		return nil, fmt.Errorf("concat samples: %w", err)
	}
	return g.LogWeightsGivenLatent(xCat, zCat, dlogp, opts...)
}

// Trigger forwards a mode-change command into the flow's sub-layers.
func (g *Generator) Trigger(cmd flow.Command) error {
	return g.flow.Trigger(cmd)
}
