package download

// Package download implements the downloader facade built on top of yt-dlp
// (via github.com/lrstanley/go-ytdlp). It turns the merged options into
// extractor parameters, forwards progress to a display sink, lists formats
// and subtitles, and converts downloaded subtitles when requested.
