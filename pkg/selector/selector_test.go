package selector

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merakisync/merakisync/pkg/model"
	"github.com/merakisync/merakisync/pkg/util"
)

func threeNetworks() []Candidate {
	return FromNetworks([]model.Network{
		{ID: "N_1", Name: "HQ"},
		{ID: "N_2", Name: "Branch"},
		{ID: "N_3", Name: "Lab"},
	})
}

// countingChooser fails the test if called when it should not be.
type countingChooser struct {
	calls int
	key   int
}

func (c *countingChooser) Choose(_ context.Context, _ string, cands []Candidate) (Candidate, error) {
	c.calls++
	return Candidate{Key: c.key}, nil
}

func TestResolve_SingleCandidateNeverPrompts(t *testing.T) {
	ch := &countingChooser{key: 1}
	r := &Resolver{Chooser: ch}

	got, err := r.Resolve(context.Background(), "organization",
		FromOrganizations([]model.Organization{{ID: "549236", Name: "Acme"}}), "")
	require.NoError(t, err)
	assert.Equal(t, "549236", got.ID)
	assert.Equal(t, 0, ch.calls)
}

func TestResolve_EmptyIsFatal(t *testing.T) {
	r := &Resolver{Chooser: &countingChooser{}}
	_, err := r.Resolve(context.Background(), "network", nil, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrNoCandidates))
	assert.Contains(t, err.Error(), "no networks available")
}

func TestResolve_ManyUsesChooser(t *testing.T) {
	var gotTitle string
	r := &Resolver{Chooser: ChooserFunc(func(_ context.Context, title string, cands []Candidate) (Candidate, error) {
		gotTitle = title
		return cands[1], nil
	})}

	got, err := r.Resolve(context.Background(), "network", threeNetworks(), "")
	require.NoError(t, err)
	assert.Equal(t, "N_2", got.ID)
	assert.Equal(t, "Select a network", gotTitle)
}

func TestResolve_OrganizationTitle(t *testing.T) {
	var gotTitle string
	r := &Resolver{Chooser: ChooserFunc(func(_ context.Context, title string, cands []Candidate) (Candidate, error) {
		gotTitle = title
		return cands[0], nil
	})}
	orgs := FromOrganizations([]model.Organization{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}})

	_, err := r.Resolve(context.Background(), "organization", orgs, "")
	require.NoError(t, err)
	assert.Equal(t, "Select an organization", gotTitle)
}

func TestResolve_UnknownKeyFromChooser(t *testing.T) {
	r := &Resolver{Chooser: &countingChooser{key: 9}}
	_, err := r.Resolve(context.Background(), "network", threeNetworks(), "")
	assert.True(t, errors.Is(err, util.ErrInvalidInput))
}

func TestResolve_NoChooser(t *testing.T) {
	r := &Resolver{}
	_, err := r.Resolve(context.Background(), "organization",
		FromOrganizations([]model.Organization{{ID: "1"}, {ID: "2"}}), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--org")
}

func TestResolve_Preference(t *testing.T) {
	ch := &countingChooser{}
	r := &Resolver{Chooser: ch}

	byID, err := r.Resolve(context.Background(), "network", threeNetworks(), "N_3")
	require.NoError(t, err)
	assert.Equal(t, "Lab", byID.Name)

	byName, err := r.Resolve(context.Background(), "network", threeNetworks(), "branch")
	require.NoError(t, err)
	assert.Equal(t, "N_2", byName.ID)

	_, err = r.Resolve(context.Background(), "network", threeNetworks(), "Nowhere")
	assert.True(t, errors.Is(err, util.ErrNotFound))

	dup := FromNetworks([]model.Network{{ID: "N_1", Name: "Lab"}, {ID: "N_2", Name: "lab"}})
	_, err = r.Resolve(context.Background(), "network", dup, "LAB")
	assert.True(t, errors.Is(err, util.ErrInvalidInput))

	assert.Equal(t, 0, ch.calls)
}

func TestPromptChooser_RepromptsUntilValid(t *testing.T) {
	in := strings.NewReader("0\nfoo\n4\n\n2\n")
	var out bytes.Buffer
	p := NewPromptChooser(in, &out)

	got, err := p.Choose(context.Background(), "Select a network", threeNetworks())
	require.NoError(t, err)
	assert.Equal(t, "N_2", got.ID)

	text := out.String()
	assert.Equal(t, 4, strings.Count(text, "Incorrect choice, try again."))
	assert.Equal(t, 5, strings.Count(text, "Select a network: "))
	assert.Contains(t, text, "  1: [N_1] HQ\n  2: [N_2] Branch\n  3: [N_3] Lab\n")
}

func TestPromptChooser_KeyMustMatchExactly(t *testing.T) {
	in := strings.NewReader("02\n+2\n 2\n2 \n3\n")
	var out bytes.Buffer
	p := NewPromptChooser(in, &out)

	got, err := p.Choose(context.Background(), "Select a network", threeNetworks())
	require.NoError(t, err)
	assert.Equal(t, "N_3", got.ID)
	assert.Equal(t, 4, strings.Count(out.String(), "Incorrect choice, try again."))
}

func TestPromptChooser_EOF(t *testing.T) {
	p := NewPromptChooser(strings.NewReader("7\n"), io.Discard)
	_, err := p.Choose(context.Background(), "Select a network", threeNetworks())
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrCancelled))
}

func TestPromptChooser_Cancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	p := NewPromptChooser(pr, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Choose(ctx, "Select a network", threeNetworks())
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestPromptChooser_ReusedAcrossSelections(t *testing.T) {
	p := NewPromptChooser(strings.NewReader("2\n3\n"), io.Discard)
	orgs := FromOrganizations([]model.Organization{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}})

	org, err := p.Choose(context.Background(), "Select an organization", orgs)
	require.NoError(t, err)
	assert.Equal(t, "2", org.ID)

	net, err := p.Choose(context.Background(), "Select a network", threeNetworks())
	require.NoError(t, err)
	assert.Equal(t, "N_3", net.ID)
}
