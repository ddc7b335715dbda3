// Package palette builds the ordered color sequences used to paint
// escape-time buckets.
//
// Every color is derived from a hue in [0,1) converted through HSV with full
// saturation and full value. Once built, a Palette is never mutated; a new
// palette replaces the old one wholesale.
//
// # Strategies
//
// Build dispatches on Options.Strategy:
//   - Cyclic: hue advances by 1/LoopDepth per entry from a random seed hue,
//     wrapping at 1.0 (the next_bucket chain).
//   - Random: every entry is an independent random hue.
//   - Continuous: hue walks from StartHue across [Low, High] in steps of
//     (High-Low)/Count, bouncing at the bounds instead of wrapping.
//   - ContinuousRanged: a random hue band at least 0.2 wide with a random
//     start inside it, then Continuous.
//   - Alternating: Period random colors repeated cyclically, giving stripes.
//
// # Randomness
//
// All strategies that need randomness take an explicit *rand.Rand so palette
// generation is reproducible given a seed. Nothing in this package touches
// the global random source.
package palette
