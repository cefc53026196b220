// Package tui draws estimator progress in the terminal with bubbletea and
// holds the lipgloss styles shared by the command line output.
package tui
