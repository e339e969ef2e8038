// SPDX-License-Identifier: MIT

package flow

import (
	"github.com/pdevine/tensor"

	"github.com/katalvlaran/boltzgen/core"
)

// Identity passes batches through unchanged with a zero log-Jacobian.
// Useful as a placeholder while assembling generators and in tests.
type Identity struct {
	nopTrigger
}

// NewIdentity returns the identity transform.
func NewIdentity() *Identity { return &Identity{} }

// Forward returns the input batch and a zero column.
func (Identity) Forward(z core.Batch, _ *tensor.Dense) (core.Batch, []float64, error) {
	n, err := core.BatchSize(z)
	if err != nil {
		return nil, nil, err
	}
	return z, make([]float64, n), nil
}

// Inverse returns the input batch and a zero column.
func (id Identity) Inverse(x core.Batch, _ *tensor.Dense) (core.Batch, []float64, error) {
	return id.Forward(x, nil)
}
