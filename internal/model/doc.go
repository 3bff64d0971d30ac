package model

// Package model defines domain data structures shared by the CLI: download
// progress, media formats, subtitle descriptors and playlist entries. Values
// are plain structs so they can be rendered by the terminal UI directly.
