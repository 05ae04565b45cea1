package main

import (
	"github.com/schollz/progressbar/v3"
)

// beliefProgress returns a belief.Tracker.Progress-shaped callback
// driving a terminal progress bar over the Tracker's from-scratch candidate
// enumeration (spec.md §4.2), grounded on the teacher's tuner, which
// wraps its epoch loop in the same progressbar.Options set
// (pkg/search/eval/classical/tuner/tuner.go: OptionSetElapsedTime,
// OptionSetPredictTime, OptionShowCount, OptionShowIts).
func beliefProgress(total int) (tick func(done, total int), finish func()) {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription("belief enumeration"),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionSetItsString("candidate"),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
	)

	last := 0
	return func(done, total int) {
			if done > last {
				bar.Add(done - last)
				last = done
			}
		}, func() {
			bar.Finish()
		}
}
