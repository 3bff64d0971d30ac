// Package ui contains the terminal presentation layer: colored status lines,
// the per-file download progress bar, and terminal capability checks.
package ui
