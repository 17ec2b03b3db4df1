// Package selector decides which organization or network a run operates on.
// A single candidate is taken without asking; several candidates are handed
// to a Chooser, which is interactive in the CLI and scripted in tests.
package selector

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/merakisync/merakisync/pkg/model"
	"github.com/merakisync/merakisync/pkg/util"
)

// Candidate is one selectable item. Key is its 1-based display key.
type Candidate struct {
	Key  int    `json:"key"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c Candidate) String() string {
	return fmt.Sprintf("%d: [%s] %s", c.Key, c.ID, c.Name)
}

// Chooser picks one of several candidates.
type Chooser interface {
	Choose(ctx context.Context, title string, candidates []Candidate) (Candidate, error)
}

// ChooserFunc adapts a function to the Chooser interface.
type ChooserFunc func(ctx context.Context, title string, candidates []Candidate) (Candidate, error)

func (f ChooserFunc) Choose(ctx context.Context, title string, candidates []Candidate) (Candidate, error) {
	return f(ctx, title, candidates)
}

// FromOrganizations numbers organizations in API order starting at 1.
func FromOrganizations(orgs []model.Organization) []Candidate {
	out := make([]Candidate, len(orgs))
	for i, o := range orgs {
		out[i] = Candidate{Key: i + 1, ID: o.ID.String(), Name: o.Name}
	}
	return out
}

// FromNetworks numbers networks in API order starting at 1.
func FromNetworks(nets []model.Network) []Candidate {
	out := make([]Candidate, len(nets))
	for i, n := range nets {
		out[i] = Candidate{Key: i + 1, ID: n.ID.String(), Name: n.Name}
	}
	return out
}

// Resolver resolves a candidate set to exactly one candidate.
type Resolver struct {
	Chooser Chooser
}

// Resolve returns the candidate to operate on. kind names the resource
// ("organization", "network") in prompts and errors.
//
// A non-empty preference selects by ID, or by case-insensitive name when
// no ID matches; a preference that matches nothing is an error. Otherwise an
// empty set is an error, one candidate is returned as is, and several go to
// the Chooser.
func (r *Resolver) Resolve(ctx context.Context, kind string, candidates []Candidate, preference string) (Candidate, error) {
	if len(candidates) == 0 {
		return Candidate{}, fmt.Errorf("no %ss available: %w", kind, util.ErrNoCandidates)
	}

	if preference != "" {
		return matchPreference(kind, candidates, preference)
	}

	if len(candidates) == 1 {
		util.WithField(kind, candidates[0].ID).Debug("single candidate, selected without prompting")
		return candidates[0], nil
	}

	if r.Chooser == nil {
		return Candidate{}, fmt.Errorf("%d %ss available and no way to choose: use --%s", len(candidates), kind, flagName(kind))
	}

	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	c, err := r.Chooser.Choose(ctx, "Select a"+article(kind)+" "+kind, sorted)
	if err != nil {
		return Candidate{}, err
	}
	for _, s := range sorted {
		if s.Key == c.Key {
			return s, nil
		}
	}
	return Candidate{}, fmt.Errorf("chooser returned unknown %s key %d: %w", kind, c.Key, util.ErrInvalidInput)
}

func matchPreference(kind string, candidates []Candidate, preference string) (Candidate, error) {
	for _, c := range candidates {
		if c.ID == preference {
			return c, nil
		}
	}

	var matches []Candidate
	for _, c := range candidates {
		if strings.EqualFold(c.Name, preference) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return Candidate{}, fmt.Errorf("%s %q not found: %w", kind, preference, util.ErrNotFound)
	default:
		return Candidate{}, fmt.Errorf("%s name %q is ambiguous (%d matches), use the id: %w",
			kind, preference, len(matches), util.ErrInvalidInput)
	}
}

func article(kind string) string {
	if kind != "" && strings.ContainsRune("aeiou", rune(kind[0])) {
		return "n"
	}
	return ""
}

func flagName(kind string) string {
	if kind == "organization" {
		return "org"
	}
	return kind
}
