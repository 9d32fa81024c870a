// Package grouping assigns samples to experimental groups, either from an
// explicit group-to-samples mapping or by inferring a condition label from
// each sample identifier.
package grouping

import (
	"regexp"
	"sort"

	"lipidflow/domain/core"
	"lipidflow/domain/lipid"
)

// UngroupedLabel is the implicit group for samples that cannot be assigned
// anywhere else.
const UngroupedLabel = "Ungrouped"

// LabelFunc derives a group label from a sample identifier. An empty return
// means the identifier carries no recognizable condition label.
type LabelFunc func(id core.SampleID) string

// replicate suffix: optional separator followed by trailing digits
var replicateSuffix = regexp.MustCompile(`^(.*?)[_\-. ]?\d+$`)

// TrailingReplicateLabel strips a trailing replicate suffix (optional
// separator plus digits) from the identifier, e.g. "Control_1" -> "Control",
// "WT3" -> "WT". Identifiers without such a suffix yield no label.
func TrailingReplicateLabel(id core.SampleID) string {
	m := replicateSuffix.FindStringSubmatch(string(id))
	if m == nil {
		return ""
	}
	return m[1]
}

// Mapper assigns each sample to exactly one group
type Mapper struct {
	labelFn LabelFunc
}

// NewMapper creates a mapper using the default trailing-replicate strategy
func NewMapper() *Mapper {
	return &Mapper{labelFn: TrailingReplicateLabel}
}

// NewMapperWithStrategy creates a mapper using a custom label strategy
func NewMapperWithStrategy(fn LabelFunc) *Mapper {
	return &Mapper{labelFn: fn}
}

// Assign sets the group label on every sample and returns the groups in
// first-seen order of their constituent samples' column order.
//
// When mapping is non-nil it is authoritative: every referenced sample must
// exist, no sample may appear in two groups, and unmentioned samples land in
// "Ungrouped". When mapping is nil, group labels are inferred from sample
// identifiers; inference never fails.
func (m *Mapper) Assign(samples []lipid.Sample, mapping map[string][]string) ([]lipid.Group, error) {
	if mapping != nil {
		return m.assignExplicit(samples, mapping)
	}
	return m.assignInferred(samples), nil
}

func (m *Mapper) assignExplicit(samples []lipid.Sample, mapping map[string][]string) ([]lipid.Group, error) {
	known := make(map[core.SampleID]bool, len(samples))
	knownOrder := make([]string, 0, len(samples))
	for _, s := range samples {
		known[s.ID] = true
		knownOrder = append(knownOrder, string(s.ID))
	}

	// Walk group labels in sorted order so validation failures are reported
	// deterministically regardless of map iteration.
	labels := make([]string, 0, len(mapping))
	for label := range mapping {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	sampleToGroup := make(map[core.SampleID]string)
	for _, label := range labels {
		for _, id := range mapping[label] {
			sid := core.SampleID(id)
			if !known[sid] {
				return nil, core.NewUnknownSampleError(label, id, knownOrder)
			}
			if prev, dup := sampleToGroup[sid]; dup {
				return nil, core.NewDuplicateGroupAssignmentError(id, prev, label)
			}
			sampleToGroup[sid] = label
		}
	}

	return buildGroups(samples, func(s *lipid.Sample) string {
		if label, ok := sampleToGroup[s.ID]; ok {
			return label
		}
		return UngroupedLabel
	}), nil
}

func (m *Mapper) assignInferred(samples []lipid.Sample) []lipid.Group {
	derived := make(map[core.SampleID]string, len(samples))
	distinct := make(map[string]bool)
	for _, s := range samples {
		label := m.labelFn(s.ID)
		derived[s.ID] = label
		if label != "" {
			distinct[label] = true
		}
	}

	// A single shared label across every sample discriminates nothing, so
	// the whole set falls back to the implicit group.
	uninformative := len(distinct) <= 1 && !hasUnlabeled(derived)

	return buildGroups(samples, func(s *lipid.Sample) string {
		label := derived[s.ID]
		switch {
		case uninformative:
			return UngroupedLabel
		case label == "":
			// Ungroupable name: singleton group named by the full identifier.
			return string(s.ID)
		default:
			return label
		}
	})
}

func hasUnlabeled(derived map[core.SampleID]string) bool {
	for _, label := range derived {
		if label == "" {
			return true
		}
	}
	return false
}

// buildGroups applies assign to each sample in column order and collects
// groups in first-seen order
func buildGroups(samples []lipid.Sample, assign func(*lipid.Sample) string) []lipid.Group {
	var groups []lipid.Group
	index := make(map[string]int)
	for i := range samples {
		label := assign(&samples[i])
		samples[i].Group = label
		pos, ok := index[label]
		if !ok {
			pos = len(groups)
			index[label] = pos
			groups = append(groups, lipid.Group{Label: label})
		}
		groups[pos].SampleIDs = append(groups[pos].SampleIDs, samples[i].ID)
	}
	return groups
}
