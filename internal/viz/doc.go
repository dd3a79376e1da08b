// Package viz renders derivation results in the terminal.
//
// The package provides static renderers and an interactive browser:
//
//   - [RenderBonds]: bond table with the assigned causality of every bond
//   - [RenderReport]: state equations, unresolved derivatives and diagnostics
//   - [PlotResponse]: ASCII magnitude plot of a frequency response
//   - [RunViewer]: Bubble Tea browser over bonds, equations and states
//   - Theme selection with 3 built-in color schemes
//
// # Key Bindings
//
//	Tab   - Next section
//	J/K   - Scroll
//	T     - Cycle color themes
//	Q     - Quit
package viz
