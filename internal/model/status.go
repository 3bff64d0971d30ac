package model

// ProgressStatus represents the state reported by the extractor for a download
type ProgressStatus string

const (
	// ProgressStatusStarting means the extractor is resolving the media
	ProgressStatusStarting ProgressStatus = "starting"

	// ProgressStatusDownloading means bytes are being transferred
	ProgressStatusDownloading ProgressStatus = "downloading"

	// ProgressStatusPostProcessing means ffmpeg postprocessors are running
	ProgressStatusPostProcessing ProgressStatus = "post_processing"

	// ProgressStatusFinished means the file was written completely
	ProgressStatusFinished ProgressStatus = "finished"

	// ProgressStatusError means the extractor reported a failure
	ProgressStatusError ProgressStatus = "error"
)

// String returns the string representation of ProgressStatus
func (ps ProgressStatus) String() string {
	return string(ps)
}

// IsFinished returns true if the download is in a final state (finished or error)
func (ps ProgressStatus) IsFinished() bool {
	return ps == ProgressStatusFinished || ps == ProgressStatusError
}
