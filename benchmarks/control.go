package benchmarks

import (
	"math"
	"math/bits"

	"github.com/oqtopus-team/oqtopus-bench/circuit"
)

// multiControl applies multi-controlled gates. Without ancillas it uses a
// Gray code of controlled phases; with ancillas it computes the conjunction
// of the controls in a Toffoli chain, which needs len(controls)-2 of them.
type multiControl struct {
	ancillas []int
}

// vChainAncillas is the number of ancillas appended to an n qubit v-chain
// benchmark, whose widest gate has n-1 controls.
func vChainAncillas(n int) int {
	return max(n-3, 0)
}

func span(from, count int) []int {
	qs := make([]int, count)
	for i := range qs {
		qs[i] = from + i
	}
	return qs
}

// phase applies p(lambda) on target if every control is set.
func (m multiControl) phase(c *circuit.Circuit, lambda float64, controls []int, target int) {
	n := len(controls)
	if n <= 2 || m.ancillas == nil {
		appendGrayPhase(c, lambda, controls, target)
		return
	}
	steps := toffoliChain(controls[:n-1], m.ancillas)
	applyChain(c, steps, false)
	appendGrayPhase(c, lambda, []int{m.ancillas[n-3], controls[n-1]}, target)
	applyChain(c, steps, true)
}

// x flips target if every control is set.
func (m multiControl) x(c *circuit.Circuit, controls []int, target int) {
	n := len(controls)
	switch {
	case n == 1:
		c.CX(controls[0], target)
	case n == 2:
		c.CCX(controls[0], controls[1], target)
	case m.ancillas == nil:
		c.H(target)
		appendGrayPhase(c, math.Pi, controls, target)
		c.H(target)
	default:
		steps := toffoliChain(controls[:n-1], m.ancillas)
		applyChain(c, steps, false)
		c.CCX(controls[n-1], m.ancillas[n-3], target)
		applyChain(c, steps, true)
	}
}

// toffoliChain leaves the conjunction of at least two controls in
// ancillas[len(controls)-2].
func toffoliChain(controls, ancillas []int) [][3]int {
	steps := [][3]int{{controls[0], controls[1], ancillas[0]}}
	for i := 2; i < len(controls); i++ {
		steps = append(steps, [3]int{controls[i], ancillas[i-2], ancillas[i-1]})
	}
	return steps
}

func applyChain(c *circuit.Circuit, steps [][3]int, reverse bool) {
	for i := range steps {
		s := steps[i]
		if reverse {
			s = steps[len(steps)-1-i]
		}
		c.CCX(s[0], s[1], s[2])
	}
}

// grayCode returns the reflected binary code of n bits.
func grayCode(n int) []int {
	code := []int{0}
	for i := 0; i < n; i++ {
		for j := len(code) - 1; j >= 0; j-- {
			code = append(code, code[j]+1<<i)
		}
	}
	return code
}

// appendGrayPhase walks the Gray code of the controls, keeping the parity of
// the current code word on its leading control and applying a controlled
// phase of lambda/2^(n-1) with the sign of that parity. The controls are
// restored at the end.
func appendGrayPhase(c *circuit.Circuit, lambda float64, controls []int, target int) {
	n := len(controls)
	if n == 0 {
		c.P(lambda, target)
		return
	}
	scaled := lambda / math.Pow(2, float64(n-1))
	// position j counts from the most significant bit
	set := func(word, j int) bool { return word>>(n-1-j)&1 == 1 }
	last := 0
	for _, word := range grayCode(n) {
		if word == 0 {
			continue
		}
		if last == 0 {
			last = word
		}
		lead := 0
		for !set(word, lead) {
			lead++
		}
		changed := -1
		for j := 0; j < n; j++ {
			if set(word, j) != set(last, j) {
				changed = j
				break
			}
		}
		if changed >= 0 {
			if changed != lead {
				c.CX(controls[changed], controls[lead])
			} else {
				for j := lead + 1; j < n; j++ {
					if set(word, j) {
						c.CX(controls[j], controls[lead])
					}
				}
			}
		}
		if bits.OnesCount(uint(word))%2 == 0 {
			c.CP(-scaled, controls[lead], target)
		} else {
			c.CP(scaled, controls[lead], target)
		}
		last = word
	}
}
