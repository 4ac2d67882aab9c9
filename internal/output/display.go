package output

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"parcel/internal/progress"
	"parcel/internal/utils"
)

// Display periodically re-renders transfer snapshots as a multi-line
// terminal status report. The snapshot source is typically
// download.(*Manager).Active.
type Display struct {
	snapshots func() []progress.Snapshot
	doneCh    chan struct{}
	stopped   chan struct{}
	numLines  int
}

func NewDisplay(snapshots func() []progress.Snapshot) *Display {
	return &Display{
		snapshots: snapshots,
		doneCh:    make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

func (d *Display) Start() {
	go func() {
		defer close(d.stopped)
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				d.render()
			case <-d.doneCh:
				return
			}
		}
	}()
}

// Stop must follow Start. It waits for the render loop to exit before
// the final render so no in-flight tick interleaves with it.
func (d *Display) Stop() {
	close(d.doneCh)
	<-d.stopped
	d.render()
}

func (d *Display) render() {
	if d.numLines != 0 {
		fmt.Printf("\033[%dA\033[J", d.numLines)
	}
	snapshots := d.snapshots()
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].URL < snapshots[j].URL
	})
	for _, snap := range snapshots {
		fmt.Println(RenderSnapshot(snap))
	}
	d.numLines = len(snapshots)
}

// RenderSnapshot formats one transfer's state as a single status line.
// Percentage is shown only when the total size is known.
func RenderSnapshot(snap progress.Snapshot) string {
	name := snap.FileName
	if name == "" {
		name = snap.URL
	}
	if runes := []rune(name); len(runes) > 40 {
		name = "..." + string(runes[len(runes)-37:])
	}
	switch snap.Status {
	case progress.StatusCompleted:
		return FSuccess(fmt.Sprintf("%s %s  %s", StyleSymbols["pass"], name, utils.FormatBytes(uint64(snap.FileSize))))
	case progress.StatusStopped:
		return warningStyle.Render(fmt.Sprintf("%s %s  stopped at %s", StyleSymbols["warning"], name, utils.FormatBytes(uint64(snap.Downloaded))))
	case progress.StatusFailed:
		return FError(fmt.Sprintf("%s %s  %s", StyleSymbols["fail"], name, snap.Failure))
	}
	if snap.FileSize > 0 {
		percent := float64(snap.Downloaded) / float64(snap.FileSize)
		return FPending(fmt.Sprintf("%s %s  %s %.1f%% (%s/%s)", StyleSymbols["pending"], name,
			progressBar(percent), percent*100,
			utils.FormatBytes(uint64(snap.Downloaded)), utils.FormatBytes(uint64(snap.FileSize))))
	}
	return FPending(fmt.Sprintf("%s %s  %s", StyleSymbols["pending"], name, utils.FormatBytes(uint64(snap.Downloaded))))
}

func progressBar(percent float64) string {
	const width = 30
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	bar := "[" + strings.Repeat("=", filled)
	if filled < width {
		bar += ">" + strings.Repeat(" ", width-filled-1)
	}
	return bar + "]"
}
