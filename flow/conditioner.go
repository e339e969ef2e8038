// SPDX-License-Identifier: MIT

// conditioner.go - the simplest concrete Conditioner: a dense linear map
// W*x + b over gonum matrices. Trained neural networks replace this in
// real models; the library only sees the Conditioner contract either way.
package flow

import (
	"fmt"

	"github.com/pdevine/tensor"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/boltzgen/core"
)

// LinearConditioner produces out = W*x + b per batch row. The context
// tensor, when present, is appended to x before the multiplication, so
// W must then have inDim+ctxDim columns.
type LinearConditioner struct {
	w    *mat.Dense
	bias []float64
}

// NewLinearConditioner builds a conditioner from an (out, in) weight
// matrix and an out-length bias. A nil bias means zero.
//
// Errors: ErrBadParam on a nil weight matrix or a bias/row mismatch.
func NewLinearConditioner(w *mat.Dense, bias []float64) (*LinearConditioner, error) {
	if w == nil {
		return nil, fmt.Errorf("nil weight matrix: %w", ErrBadParam)
	}
	rows, _ := w.Dims()
	if bias == nil {
		bias = make([]float64, rows)
	}
	if len(bias) != rows {
		return nil, fmt.Errorf("bias length %d for %d output rows: %w", len(bias), rows, ErrBadParam)
	}
	return &LinearConditioner{w: w, bias: bias}, nil
}

// Conditioner adapts the linear map to the Conditioner func contract.
func (l *LinearConditioner) Conditioner() Conditioner {
	return func(x, ctx *tensor.Dense) (*tensor.Dense, error) {
		return l.Apply(x, ctx)
	}
}

// Apply evaluates W*[x; ctx] + b for every batch row.
func (l *LinearConditioner) Apply(x, ctx *tensor.Dense) (*tensor.Dense, error) {
	outDim, inDim := l.w.Dims()

	n := x.Shape()[0]
	xDim := x.Shape()[len(x.Shape())-1]
	data := x.Data().([]float64)

	var ctxData []float64
	ctxDim := 0
	if ctx != nil {
		if ctx.Shape()[0] != n {
			return nil, fmt.Errorf("context batch %d vs input batch %d: %w",
				ctx.Shape()[0], n, core.ErrBatchSize)
		}
		ctxDim = ctx.Shape()[len(ctx.Shape())-1]
		ctxData = ctx.Data().([]float64)
	}
	if xDim+ctxDim != inDim {
		return nil, fmt.Errorf("input width %d+%d vs weight columns %d: %w",
			xDim, ctxDim, inDim, core.ErrShapeMismatch)
	}

	out := make([]float64, n*outDim)
	rowBuf := make([]float64, inDim)
	var y mat.VecDense
	for r := 0; r < n; r++ {
		copy(rowBuf, data[r*xDim:(r+1)*xDim])
		if ctxDim > 0 {
			copy(rowBuf[xDim:], ctxData[r*ctxDim:(r+1)*ctxDim])
		}
		y.MulVec(l.w, mat.NewVecDense(inDim, rowBuf))
		for c := 0; c < outDim; c++ {
			out[r*outDim+c] = y.AtVec(c) + l.bias[c]
		}
	}
	return tensor.New(tensor.WithShape(n, outDim), tensor.WithBacking(out)), nil
}
