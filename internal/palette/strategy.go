package palette

import (
	"fmt"
	"math/rand"
	"strings"
)

// Strategy selects how Build constructs a palette.
type Strategy int

const (
	Cyclic Strategy = iota
	Random
	Continuous
	ContinuousRanged
	Alternating
)

// DefaultLoopDepth is the number of cyclic entries per full trip around the
// hue wheel.
const DefaultLoopDepth = 100

var strategyNames = map[Strategy]string{
	Cyclic:           "cyclic",
	Random:           "random",
	Continuous:       "continuous",
	ContinuousRanged: "continuous_ranged",
	Alternating:      "alternating",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy maps a strategy name (as returned by String) back to its value.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown palette strategy: %q", name)
}

// Options parameterizes Build. Fields that do not apply to the chosen
// strategy are ignored.
type Options struct {
	Strategy Strategy `json:"strategy"`

	// Count is the number of colors to produce. Must be at least 1.
	Count int `json:"count"`

	// LoopDepth is used by Cyclic. Zero means DefaultLoopDepth.
	LoopDepth int `json:"loop_depth,omitempty"`

	// Period is the number of distinct colors for Alternating.
	Period int `json:"period,omitempty"`

	// StartHue, Low and High bound the Continuous walk, all in [0,1].
	StartHue float64 `json:"start_hue,omitempty"`
	Low      float64 `json:"low,omitempty"`
	High     float64 `json:"high,omitempty"`
}

// Build constructs a palette according to opts.
func Build(rng *rand.Rand, opts Options) (Palette, error) {
	if opts.Count < 1 {
		return nil, fmt.Errorf("palette count must be at least 1, got %d", opts.Count)
	}

	switch opts.Strategy {
	case Cyclic:
		loop := opts.LoopDepth
		if loop == 0 {
			loop = DefaultLoopDepth
		}
		if loop < 1 {
			return nil, fmt.Errorf("loop depth must be at least 1, got %d", loop)
		}
		return CyclicList(rng, opts.Count, loop), nil
	case Random:
		return RandomList(rng, opts.Count), nil
	case Continuous:
		if err := checkHue("low", opts.Low); err != nil {
			return nil, err
		}
		if err := checkHue("high", opts.High); err != nil {
			return nil, err
		}
		if opts.Low > opts.High {
			return nil, fmt.Errorf("hue range low %.3f exceeds high %.3f", opts.Low, opts.High)
		}
		return ContinuousList(opts.StartHue, opts.Low, opts.High, opts.Count), nil
	case ContinuousRanged:
		return ContinuousListRanged(rng, opts.Count), nil
	case Alternating:
		if opts.Period < 1 {
			return nil, fmt.Errorf("alternating period must be at least 1, got %d", opts.Period)
		}
		return RandomAlternatingList(rng, opts.Count, opts.Period), nil
	default:
		return nil, fmt.Errorf("unknown palette strategy: %v", opts.Strategy)
	}
}

func checkHue(name string, h float64) error {
	if h < 0 || h > 1 {
		return fmt.Errorf("hue %s must be in [0,1], got %.3f", name, h)
	}
	return nil
}
