package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// etaBar is a progress bar created on the first update, once the total is
// known. It is safe for concurrent use.
type etaBar struct {
	w     io.Writer
	label string

	mu    sync.Mutex
	bar   *progressbar.ProgressBar
	start time.Time
	done  int
}

func newETABar(w io.Writer, label string) *etaBar {
	return &etaBar{w: w, label: label}
}

// Step counts one more finished item out of total.
func (b *etaBar) Step(total int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.done++
	b.set(b.done, total)
}

func (b *etaBar) set(processed, total int) {
	if total <= 0 {
		return
	}
	if b.bar == nil {
		b.start = time.Now()
		b.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(b.w),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowBytes(false),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", b.label)),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
	}

	b.bar.Set(processed)

	if processed > 0 {
		elapsed := time.Since(b.start)
		rate := float64(processed) / elapsed.Seconds()
		remaining := total - processed
		if rate > 0 {
			eta := time.Duration(float64(remaining)/rate) * time.Second
			b.bar.Describe(fmt.Sprintf("[cyan]%s[reset] ETA: %s", b.label, formatDuration(eta)))
		}
	}
}

// Finish completes the bar if one was drawn.
func (b *etaBar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar != nil {
		b.bar.Finish()
		fmt.Fprintln(b.w)
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
