package platform

// Package platform contains OS/platform integration glue: filesystem and
// application-data paths, filename helpers, video/subtitle pairing, playlist
// listing via the native YouTube client, and OS open/reveal.
