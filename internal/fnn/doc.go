// Package fnn implements the false nearest neighbor test for choosing an
// embedding dimension.
//
// A neighbor found in m delay coordinates is false when the (m+1)-th
// coordinate separates the pair by more than Params.Ratio times their
// distance. The fraction of false neighbors drops towards zero once m
// reaches the dimension needed to unfold the attractor.
package fnn
