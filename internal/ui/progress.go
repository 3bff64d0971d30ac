package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"github.com/ytget/ytd/internal/model"
)

// TerminalSink draws one percentage bar per downloaded file
type TerminalSink struct {
	out      io.Writer
	width    int
	bar      *progressbar.ProgressBar
	filename string
}

// NewTerminalSink creates a sink drawing on out
func NewTerminalSink(out io.Writer) *TerminalSink {
	width := TerminalWidth(out) / BarWidthDivisor
	if width < MinBarWidth {
		width = MinBarWidth
	}
	return &TerminalSink{out: out, width: width}
}

// Report updates the bar for p. A bar is opened on the first report that
// knows the total size and closed at 100% when the file reaches a final
// state.
func (s *TerminalSink) Report(p model.Progress) {
	switch {
	case p.Status.IsFinished():
		s.finish()
	case p.Status == model.ProgressStatusDownloading:
		if p.TotalBytes <= 0 {
			return
		}
		if s.bar != nil && p.Filename != s.filename {
			s.finish()
		}
		if s.bar == nil {
			s.open(p)
		}
		_ = s.bar.Set(int(p.Percent))
		s.bar.Describe(describe(p))
	}
}

// Close completes any open bar
func (s *TerminalSink) Close() {
	s.finish()
}

func (s *TerminalSink) open(p model.Progress) {
	s.filename = p.Filename
	s.bar = progressbar.NewOptions(MaxProgressPercent,
		progressbar.OptionSetWriter(s.out),
		progressbar.OptionSetDescription(p.DisplayName(DescriptionMaxLength)),
		progressbar.OptionSetWidth(s.width),
		progressbar.OptionThrottle(ProgressThrottle),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(s.out, "\n")
		}),
	)
}

func (s *TerminalSink) finish() {
	if s.bar == nil {
		return
	}
	_ = s.bar.Set(MaxProgressPercent)
	_ = s.bar.Finish()
	s.bar = nil
	s.filename = ""
}

// describe renders "name · speed · eta", adding speed and ETA only when
// both are known
func describe(p model.Progress) string {
	name := p.DisplayName(DescriptionMaxLength)
	if p.SpeedBps <= 0 || p.ETA <= 0 {
		return name
	}
	speed := humanize.IBytes(uint64(p.SpeedBps)) + "/s"
	return strings.Join([]string{name, speed, p.ETAString()}, MiddleDotSeparator)
}
