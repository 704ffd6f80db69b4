// Package interp interpolates sampled sequences.
//
//   - [Complex]: piecewise-linear interpolation of complex samples at
//     arbitrary positions, held constant beyond the first and last knot
//   - [Despike]: replaces the largest-magnitude samples of a sequence by
//     interpolating their neighbours
package interp
