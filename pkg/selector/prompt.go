package selector

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/merakisync/merakisync/pkg/util"
)

// PromptChooser lists candidates on Out and reads a display key from In,
// re-prompting until a valid key is entered. End of input is an error.
type PromptChooser struct {
	In  io.Reader
	Out io.Writer

	once  sync.Once
	lines chan string
}

// NewPromptChooser creates a chooser reading from in and writing to out.
func NewPromptChooser(in io.Reader, out io.Writer) *PromptChooser {
	return &PromptChooser{In: in, Out: out}
}

// Choose implements Chooser. Candidates are expected sorted by key.
func (p *PromptChooser) Choose(ctx context.Context, title string, candidates []Candidate) (Candidate, error) {
	p.once.Do(p.startReader)

	byKey := make(map[string]Candidate, len(candidates))
	for _, c := range candidates {
		byKey[strconv.Itoa(c.Key)] = c
	}

	fmt.Fprintln(p.Out)
	for {
		for _, c := range candidates {
			fmt.Fprintf(p.Out, "  %d: [%s] %s\n", c.Key, c.ID, c.Name)
		}
		fmt.Fprintln(p.Out)
		fmt.Fprintf(p.Out, "%s: ", title)

		var line string
		select {
		case <-ctx.Done():
			return Candidate{}, ctx.Err()
		case l, ok := <-p.lines:
			if !ok {
				fmt.Fprintln(p.Out)
				return Candidate{}, fmt.Errorf("no selection made: input closed: %w", util.ErrCancelled)
			}
			line = l
		}
		fmt.Fprintln(p.Out)

		// Keys match exactly as displayed: "02", "+2" and " 2" are rejected.
		if c, ok := byKey[line]; ok {
			return c, nil
		}
		fmt.Fprintln(p.Out, "Incorrect choice, try again.")
	}
}

// startReader feeds input lines to the chooser so a blocked read never
// prevents Choose from observing cancellation.
func (p *PromptChooser) startReader() {
	p.lines = make(chan string)
	go func() {
		defer close(p.lines)
		scanner := bufio.NewScanner(p.In)
		for scanner.Scan() {
			p.lines <- scanner.Text()
		}
	}()
}
