// Package synth generates reference series with known dynamics: a sine
// (periodic, two-dimensional), the logistic and Hénon maps, and the Lorenz
// and Rössler flows integrated with [RK4]. They are used to sanity-check the
// estimators and to demonstrate the CLI.
package synth
