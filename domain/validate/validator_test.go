package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lipidflow/domain/core"
	"lipidflow/domain/lipid"
)

func cleanDataset() *lipid.Dataset {
	return &lipid.Dataset{
		Samples: []lipid.Sample{
			{ID: "S1", ColumnIndex: 1, Group: "Ungrouped"},
			{ID: "S2", ColumnIndex: 2, Group: "Ungrouped"},
		},
		Groups: []lipid.Group{
			{Label: "Ungrouped", SampleIDs: []core.SampleID{"S1", "S2"}},
		},
		Records: []lipid.Record{
			{
				Row:              1,
				InputName:        "PC(16:0/18:1)",
				StandardizedName: "PC(16:0/18:1)",
				ReferenceID:      "RM0100532",
				Abundances: map[core.SampleID]lipid.Abundance{
					"S1": lipid.NewAbundance(100),
					"S2": lipid.NewAbundance(110),
				},
			},
			{
				Row:              2,
				InputName:        "TAG(54:3)",
				StandardizedName: "TAG(54:3)",
				ReferenceID:      "RM0201941",
				Abundances: map[core.SampleID]lipid.Abundance{
					"S1": lipid.NewAbundance(200),
					"S2": lipid.NewAbundance(210),
				},
			},
		},
	}
}

func TestValidateCleanDatasetPasses(t *testing.T) {
	report, err := NewValidator().Validate(cleanDataset())
	require.NoError(t, err)
	assert.True(t, report.Passed())
	assert.Empty(t, report.Issues)
}

func TestValidatePreconditions(t *testing.T) {
	_, err := NewValidator().Validate(&lipid.Dataset{})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrPrecondition)

	noRows := cleanDataset()
	noRows.Records = nil
	_, err = NewValidator().Validate(noRows)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrPrecondition)
}

func TestMissingValueRule(t *testing.T) {
	ds := cleanDataset()
	ds.Records[0].Abundances["S1"] = lipid.MissingAbundance()

	report, err := NewValidator().Validate(ds)
	require.NoError(t, err)

	issues := report.ByCategory(CategoryMissingData)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Equal(t, 1, issues[0].Location.Row)
	assert.Equal(t, core.SampleID("S1"), issues[0].Location.Sample)
	// Missing values warn but never block.
	assert.True(t, report.Passed())
}

func TestNonNumericRuleFailsReport(t *testing.T) {
	ds := cleanDataset()
	ds.Records[1].Abundances["S2"] = lipid.ParseAbundance("N/A")

	report, err := NewValidator().Validate(ds)
	require.NoError(t, err)

	assert.False(t, report.Passed())
	issues := report.BySeverity(SeverityError)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "N/A")
	assert.Equal(t, 2, issues[0].Location.Row)
	assert.Equal(t, core.SampleID("S2"), issues[0].Location.Sample)
}

func TestNegativeValueRule(t *testing.T) {
	ds := cleanDataset()
	ds.Records[0].Abundances["S2"] = lipid.NewAbundance(-5)

	report, err := NewValidator().Validate(ds)
	require.NoError(t, err)

	assert.True(t, report.Passed())
	require.True(t, report.HasWarnings())
	issues := report.BySeverity(SeverityWarning)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "-5")
}

func TestDuplicateLipidRuleReferencesBothRows(t *testing.T) {
	ds := cleanDataset()
	dup := ds.Records[0]
	dup.Row = 3
	ds.Records = append(ds.Records, dup)

	report, err := NewValidator().Validate(ds)
	require.NoError(t, err)

	issues := report.ByCategory(CategoryDataConsistency)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Equal(t, []int{1, 3}, issues[0].Location.Rows)
}

func TestDuplicateInputNamesWithoutStandardizationAreNotFlagged(t *testing.T) {
	ds := cleanDataset()
	for i := range ds.Records {
		ds.Records[i].StandardizedName = ""
		ds.Records[i].ReferenceID = ""
		ds.Records[i].InputName = "same"
	}

	report, err := NewValidator().Validate(ds)
	require.NoError(t, err)
	assert.Empty(t, report.ByCategory(CategoryDataConsistency))
}

func TestEmptySampleRule(t *testing.T) {
	ds := cleanDataset()
	for i := range ds.Records {
		ds.Records[i].Abundances["S2"] = lipid.MissingAbundance()
	}

	report, err := NewValidator().Validate(ds)
	require.NoError(t, err)

	found := false
	for _, issue := range report.BySeverity(SeverityWarning) {
		if issue.Location != nil && issue.Location.Sample == "S2" && issue.Location.Row == 0 {
			found = true
		}
	}
	assert.True(t, found, "expected an empty-sample warning for S2")
	assert.True(t, report.Passed())
}

func TestUnresolvedNameRule(t *testing.T) {
	ds := cleanDataset()
	ds.Records[0].StandardizedName = ""
	ds.Records[0].ReferenceID = ""

	report, err := NewValidator().Validate(ds)
	require.NoError(t, err)

	issues := report.BySeverity(SeverityInfo)
	require.Len(t, issues, 1)
	assert.Equal(t, CategoryStandardization, issues[0].Category)
	assert.Contains(t, issues[0].Message, "PC(16:0/18:1)")
	assert.True(t, report.Passed())
}

func TestRulesAreIndependent(t *testing.T) {
	// Pile every kind of problem into one dataset; every rule still reports.
	ds := cleanDataset()
	ds.Records[0].Abundances["S1"] = lipid.MissingAbundance()
	ds.Records[0].Abundances["S2"] = lipid.ParseAbundance("oops")
	ds.Records[1].Abundances["S1"] = lipid.NewAbundance(-1)
	ds.Records[1].StandardizedName = ""

	report, err := NewValidator().Validate(ds)
	require.NoError(t, err)

	assert.False(t, report.Passed())
	counts := report.Counts()
	assert.Equal(t, 1, counts[SeverityError])
	assert.GreaterOrEqual(t, counts[SeverityWarning], 2)
	assert.Equal(t, 1, counts[SeverityInfo])
}

func TestReportMarkdown(t *testing.T) {
	ds := cleanDataset()
	ds.Records[0].Abundances["S1"] = lipid.MissingAbundance()

	report, err := NewValidator().Validate(ds)
	require.NoError(t, err)

	md := report.Markdown()
	assert.Contains(t, md, "# Validation Report")
	assert.Contains(t, md, "PASSED")
	assert.Contains(t, md, "WARNING")
	assert.Contains(t, md, "missing_data")
}
