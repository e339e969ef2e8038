// SPDX-License-Identifier: MIT

package distribution_test

import (
	"fmt"

	"github.com/pdevine/tensor"

	"github.com/katalvlaran/boltzgen/core"
	"github.com/katalvlaran/boltzgen/distribution"
)

// ExampleNewProduct composes a unit box with a standard normal into one
// concatenated product space and scores a point at the normal's mode.
// The box contributes zero energy inside its bounds, so the total energy
// is the normal's alone; the normalized log-density additionally carries
// the Gaussian constant.
func ExampleNewProduct() {
	box, err := distribution.NewUniform(2)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	normal, err := distribution.NewNormal(1)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	p, err := distribution.NewProduct(
		[]distribution.Component{box, normal},
		distribution.WithConcatAxis(0),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	// One concatenated row: (box_x, box_y, normal_z).
	x := core.Single(tensor.New(
		tensor.WithShape(1, 3),
		tensor.WithBacking([]float64{0.5, 0.5, 0}),
	))

	energy, err := p.Energy(x)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	logProb, err := p.LogProb(x)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("energy=%.4f\nlog_prob=%.4f\n", energy[0], logProb[0])
	// Output:
	// energy=0.0000
	// log_prob=-0.9189
}
