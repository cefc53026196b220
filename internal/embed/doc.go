// Package embed prepares a scalar series for phase-space analysis.
//
// [Rescale] maps the series onto the unit interval and [Deviation] measures
// its spread. [Embedding] then addresses delay-coordinate vectors by anchor
// index and dimension; vectors are read straight from the series, never
// copied.
package embed
