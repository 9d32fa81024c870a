package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lipidflow/domain/core"
	"lipidflow/domain/lipid"
)

func makeSamples(ids ...string) []lipid.Sample {
	samples := make([]lipid.Sample, len(ids))
	for i, id := range ids {
		samples[i] = lipid.Sample{ID: core.SampleID(id), ColumnIndex: i + 1}
	}
	return samples
}

func TestTrailingReplicateLabel(t *testing.T) {
	cases := map[string]string{
		"Control_1": "Control",
		"Control-2": "Control",
		"Control.3": "Control",
		"Control 4": "Control",
		"WT3":       "WT",
		"S1":        "S",
		"Control":   "",
		"42":        "",
	}
	for id, want := range cases {
		assert.Equal(t, want, TrailingReplicateLabel(core.SampleID(id)), "id %q", id)
	}
}

func TestAssignExplicitMapping(t *testing.T) {
	samples := makeSamples("S1", "S2", "S3", "S4")
	mapping := map[string][]string{
		"Control":   {"S1", "S2"},
		"Treatment": {"S3"},
	}

	groups, err := NewMapper().Assign(samples, mapping)
	require.NoError(t, err)

	require.Len(t, groups, 3)
	// First-seen order of the samples' columns, not mapping order.
	assert.Equal(t, "Control", groups[0].Label)
	assert.Equal(t, []core.SampleID{"S1", "S2"}, groups[0].SampleIDs)
	assert.Equal(t, "Treatment", groups[1].Label)
	assert.Equal(t, UngroupedLabel, groups[2].Label)
	assert.Equal(t, []core.SampleID{"S4"}, groups[2].SampleIDs)

	assert.Equal(t, "Control", samples[0].Group)
	assert.Equal(t, UngroupedLabel, samples[3].Group)
}

func TestAssignExplicitUnknownSample(t *testing.T) {
	samples := makeSamples("S1", "S2")
	mapping := map[string][]string{"Control": {"S1", "Nope"}}

	_, err := NewMapper().Assign(samples, mapping)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownSample)
	assert.Contains(t, err.Error(), "Nope")
	assert.Contains(t, err.Error(), "S1")
	assert.Contains(t, err.Error(), "S2")
}

func TestAssignExplicitDuplicateAssignment(t *testing.T) {
	samples := makeSamples("S1", "S2")
	mapping := map[string][]string{
		"A": {"S1"},
		"B": {"S1"},
	}

	_, err := NewMapper().Assign(samples, mapping)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDuplicateGroupAssignment)
	assert.Contains(t, err.Error(), "S1")
}

func TestAssignInferredGroupsByLabel(t *testing.T) {
	samples := makeSamples("Control_1", "Control_2", "Treated_1", "Treated_2")

	groups, err := NewMapper().Assign(samples, nil)
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Equal(t, "Control", groups[0].Label)
	assert.Equal(t, []core.SampleID{"Control_1", "Control_2"}, groups[0].SampleIDs)
	assert.Equal(t, "Treated", groups[1].Label)
}

func TestAssignInferredUninformativeFallsBackToUngrouped(t *testing.T) {
	// A single shared label across every sample discriminates nothing.
	samples := makeSamples("S1", "S2")

	groups, err := NewMapper().Assign(samples, nil)
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Equal(t, UngroupedLabel, groups[0].Label)
	assert.Equal(t, 2, groups[0].Size())
}

func TestAssignInferredUngroupableNamesBecomeSingletons(t *testing.T) {
	samples := makeSamples("Control", "Plasma", "Liver")

	groups, err := NewMapper().Assign(samples, nil)
	require.NoError(t, err)

	require.Len(t, groups, 3)
	for i, want := range []string{"Control", "Plasma", "Liver"} {
		assert.Equal(t, want, groups[i].Label)
		assert.Equal(t, 1, groups[i].Size())
	}
}

func TestAssignInferredIsDeterministic(t *testing.T) {
	ids := []string{"WT_1", "WT_2", "KO_1", "KO_2", "Blank"}

	var first []lipid.Group
	for i := 0; i < 10; i++ {
		groups, err := NewMapper().Assign(makeSamples(ids...), nil)
		require.NoError(t, err)
		if first == nil {
			first = groups
			continue
		}
		assert.Equal(t, first, groups)
	}
}

func TestAssignCustomStrategy(t *testing.T) {
	samples := makeSamples("plasma-a", "plasma-b", "liver-a")
	mapper := NewMapperWithStrategy(func(id core.SampleID) string {
		s := string(id)
		if i := len(s) - 2; i > 0 {
			return s[:i]
		}
		return ""
	})

	groups, err := mapper.Assign(samples, nil)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "plasma", groups[0].Label)
	assert.Equal(t, 2, groups[0].Size())
	assert.Equal(t, "liver", groups[1].Label)
}

func TestEverySampleBelongsToExactlyOneGroup(t *testing.T) {
	samples := makeSamples("Control_1", "Control_2", "Treated_1", "Blank")

	groups, err := NewMapper().Assign(samples, nil)
	require.NoError(t, err)

	seen := make(map[core.SampleID]int)
	for _, g := range groups {
		for _, id := range g.SampleIDs {
			seen[id]++
		}
	}
	for _, s := range samples {
		assert.Equal(t, 1, seen[s.ID], "sample %s", s.ID)
	}
}
