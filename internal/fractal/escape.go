package fractal

import "fmt"

// Classification is the escape-time result for one point: either escaped at
// a 0-based iteration below the depth limit, or bounded.
type Classification struct {
	Iteration uint32 `json:"iteration"`
	Escaped   bool   `json:"escaped"`
}

// Bounded is the classification of a point that never diverged.
var Bounded = Classification{}

// Escaped returns the classification of a point that diverged at iteration n.
func Escaped(n uint32) Classification {
	return Classification{Iteration: n, Escaped: true}
}

// Bucket returns the histogram key for c: 0 for bounded points and
// iteration+1 for escaped ones.
func (c Classification) Bucket() uint32 {
	if !c.Escaped {
		return 0
	}
	return c.Iteration + 1
}

func (c Classification) String() string {
	if !c.Escaped {
		return "Bounded"
	}
	return fmt.Sprintf("Escaped(%d)", c.Iteration)
}

// Evaluate iterates z = z*z + c from z = 0 and reports the first iteration n
// (0-based, n < maxDepth) after which |z| >= 2. Points that stay inside the
// radius for maxDepth iterations are Bounded.
func Evaluate(c complex128, maxDepth uint32) Classification {
	var z complex128
	for n := uint32(0); n < maxDepth; n++ {
		z = z*z + c
		if re, im := real(z), imag(z); re*re+im*im >= 4 {
			return Escaped(n)
		}
	}
	return Bounded
}
