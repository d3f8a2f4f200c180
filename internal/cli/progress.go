package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/covpilot/covpilot/internal/loop"
)

// loopReporter renders per-round progress for the coverage loop.
type loopReporter struct {
	bar *progressbar.ProgressBar
}

// newLoopReporter returns a progress reporter, or nil when output is
// suppressed. The loop engine treats a nil reporter as a no-op.
func newLoopReporter(quiet bool) loop.Reporter {
	if quiet {
		return nil
	}
	return &loopReporter{}
}

func (r *loopReporter) RoundStarted(round, total int) {
	if r.bar == nil {
		r.bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription("Coverage rounds"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionOnCompletion(func() {
				fmt.Println()
			}),
		)
	}
	r.bar.Describe(fmt.Sprintf("Round %d/%d", round, total))
}

func (r *loopReporter) RoundFinished(outcome loop.RoundOutcome) {
	r.bar.Add(1)

	status := styles.Pass.Render("ok")
	if !outcome.BuildSuccess {
		status = styles.Fail.Render("build failed")
	}
	line := fmt.Sprintf("\n  round %d: line %.1f%% (%s, %d below threshold)",
		outcome.Round, outcome.OverallLine, status, outcome.FilesBelow)
	if len(outcome.Scaffolded) > 0 {
		line += styles.Muted.Render(fmt.Sprintf(", %d skeleton(s) written", len(outcome.Scaffolded)))
	}
	fmt.Println(line)
}

func (r *loopReporter) Done(result *loop.Result) {
	if r.bar != nil {
		// Exit rather than Finish: the loop usually stops before the
		// round budget is spent, and Finish would jump the bar to 100%.
		r.bar.Exit()
	}
	fmt.Print(renderLoopResult(result))
}
