package benchmarks

import (
	"math/rand"

	"github.com/oqtopus-team/oqtopus-bench/circuit"
)

// qwalkSteps is the number of coin tosses of the walk.
const qwalkSteps = 3

// qwalk walks a cycle of 2^(n-1) nodes. The node register has its least
// significant bit on qubit n-2 and the coin is the last qubit.
func qwalk(name string, vChain bool) buildFunc {
	return func(n int, _ *rand.Rand) (*circuit.Circuit, error) {
		nodes := n - 1
		coin := nodes
		width := n
		var mc multiControl
		if vChain {
			mc.ancillas = span(n, vChainAncillas(n))
			width += len(mc.ancillas)
		}
		c := circuit.New(name, width, 0)
		for s := 0; s < qwalkSteps; s++ {
			c.H(coin)
			appendIncrement(c, mc, coin, nodes)
			c.X(coin)
			for q := 1; q < nodes; q++ {
				c.X(q)
			}
			appendIncrement(c, mc, coin, nodes)
			for q := 1; q < nodes; q++ {
				c.X(q)
			}
			c.X(coin)
		}
		return c.MeasureAll(), nil
	}
}

// appendIncrement adds one to the node register if the coin is set.
func appendIncrement(c *circuit.Circuit, mc multiControl, coin, nodes int) {
	for i := 0; i < nodes-1; i++ {
		mc.x(c, append([]int{coin}, span(i+1, nodes-i-1)...), i)
	}
	c.CX(coin, nodes-1)
}
