// Package ui holds the terminal styling shared by the interactive parts of
// i3-status-info: the terminal preview renderer, the config wizard with its
// connection spinner, and the profile table of 'config list'.
//
// # Color Scheme
//
// Colors are defined as ANSI codes for broad terminal compatibility and map
// onto reading severities:
//
//	ColorCritical (red)    - Critical readings and errors
//	ColorWarning  (yellow) - Warning and Info readings
//	ColorGood     (green)  - Good readings and successful operations
//	ColorMuted    (gray)   - Secondary text
//
// Use DisableColors() to switch to monochrome output (NO_COLOR).
//
// # Symbols
//
//	SymbolSuccess (checkmark) - Operation completed successfully
//	SymbolFail    (X)         - Operation failed
package ui
