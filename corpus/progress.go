package corpus

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const progressBarWidth = 25

// Progress renders an in-place progress line. Increment is cheap to call
// from many goroutines; rendering is throttled so the terminal is written
// at most a few times per second.
type Progress struct {
	desc  string
	total int64
	done  atomic.Int64
	start time.Time
	out   io.Writer

	render rate.Sometimes
}

// NewProgress creates a progress line for total steps writing to out.
// A nil out writes to stderr.
func NewProgress(desc string, total int, out io.Writer) *Progress {
	if out == nil {
		out = os.Stderr
	}
	return &Progress{
		desc:   desc,
		total:  int64(total),
		start:  time.Now(),
		out:    out,
		render: rate.Sometimes{First: 1, Interval: 200 * time.Millisecond},
	}
}

// Increment records one completed step and redraws the line if the
// throttle allows.
func (p *Progress) Increment() {
	p.done.Add(1)
	p.render.Do(p.draw)
}

// Finish redraws the final state and terminates the line.
func (p *Progress) Finish() {
	p.draw()
	fmt.Fprintln(p.out)
}

func (p *Progress) draw() {
	done := p.done.Load()
	total := p.total

	var percent float64
	filled := progressBarWidth
	if total > 0 {
		percent = float64(done) / float64(total) * 100
		filled = int(float64(progressBarWidth) * float64(done) / float64(total))
	}
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	bar := strings.Repeat("=", filled)
	if filled < progressBarWidth {
		bar += ">" + strings.Repeat(" ", progressBarWidth-filled-1)
	}

	elapsed := time.Since(p.start)
	eta := "?"
	switch {
	case done >= total:
		eta = "0s"
	case done > 0:
		remaining := time.Duration(float64(elapsed) / float64(done) * float64(total-done))
		eta = formatDuration(remaining)
	}

	fmt.Fprintf(p.out, "\r%s: [%s] %5.1f%% (%s/%s) | %s elapsed | ETA: %s",
		p.desc, bar, percent, shortCount(done), shortCount(total),
		formatDuration(elapsed), eta)
}

func shortCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1000:
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm %02ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh %02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
