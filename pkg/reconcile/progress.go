package reconcile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/merakisync/merakisync/pkg/cli"
	"github.com/merakisync/merakisync/pkg/model"
)

// ProgressReporter receives lifecycle callbacks during a batch.
type ProgressReporter interface {
	BatchStart(total int, dryRun bool)
	RowStart(row model.UpdateRow, index, total int)
	RowEnd(result *Result, index, total int)
	BatchEnd(summary *Summary)
}

type nopProgress struct{}

func (nopProgress) BatchStart(int, bool)               {}
func (nopProgress) RowStart(model.UpdateRow, int, int) {}
func (nopProgress) RowEnd(*Result, int, int)           {}
func (nopProgress) BatchEnd(*Summary)                  {}

// ConsoleProgress prints one line per row, followed by the reason for any
// row that was not updated. Output is append-only and safe for pipes.
type ConsoleProgress struct {
	W io.Writer

	dryRun bool
}

// NewConsoleProgress creates a ConsoleProgress writing to stdout.
func NewConsoleProgress() *ConsoleProgress {
	return &ConsoleProgress{W: os.Stdout}
}

func (p *ConsoleProgress) BatchStart(total int, dryRun bool) {
	p.dryRun = dryRun
	if dryRun {
		fmt.Fprintln(p.W, cli.Yellow(fmt.Sprintf("DRY-RUN: %d rows will be checked, no changes are sent.", total)))
	}
}

func (p *ConsoleProgress) RowStart(row model.UpdateRow, index, total int) {
	fmt.Fprintf(p.W, "Updating %s from file...", row.Serial)
}

func (p *ConsoleProgress) RowEnd(res *Result, index, total int) {
	switch res.Status {
	case StatusUpdated:
		fmt.Fprintln(p.W, " "+cli.Green("Success!"))
	case StatusPreview:
		fmt.Fprintln(p.W, " "+cli.Yellow("Preview"))
		if data, err := json.Marshal(res.Payload); err == nil {
			fmt.Fprintf(p.W, "  PUT networks/%s/devices/%s %s\n", res.NetworkID, res.Row.Serial, data)
		}
	case StatusSkipped:
		fmt.Fprintln(p.W, " "+cli.Red("Failed!"))
		fmt.Fprintf(p.W, "  %s, continuing...\n", res.Reason)
	case StatusFailed:
		fmt.Fprintln(p.W, " "+cli.Red("Failed!"))
		fmt.Fprintf(p.W, "  %s\n", res.Reason)
		if res.Body != "" {
			fmt.Fprintf(p.W, "  %s\n", res.Body)
		}
	}
}

func (p *ConsoleProgress) BatchEnd(s *Summary) {
	fmt.Fprintln(p.W)
	line := fmt.Sprintf("%d rows: %d updated, %d skipped, %d failed", s.Total(), s.Updated, s.Skipped, s.Failed)
	if p.dryRun {
		line = fmt.Sprintf("%d rows: %d previewed, %d skipped", s.Total(), s.Previewed, s.Skipped)
	}
	if s.Skipped+s.Failed > 0 {
		fmt.Fprintln(p.W, cli.Yellow(line))
	} else {
		fmt.Fprintln(p.W, cli.Green(line))
	}
}
