package lipid

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"lipidflow/domain/core"
)

// GroupStats holds per-group summary statistics across all records
type GroupStats struct {
	SampleCount   int                `json:"sample_count"`
	LipidCoverage int                `json:"lipid_coverage"`
	MeanValues    map[string]float64 `json:"mean_values"`
	StdValues     map[string]float64 `json:"std_values"`
}

// GroupStatistics calculates statistics for each group across all records.
// Missing values are skipped, not imputed; a record contributes to a group
// only when at least one of the group's samples carries a value.
func (d *Dataset) GroupStatistics() map[string]GroupStats {
	result := make(map[string]GroupStats, len(d.Groups))

	for _, g := range d.Groups {
		gs := GroupStats{
			SampleCount: g.Size(),
			MeanValues:  make(map[string]float64),
			StdValues:   make(map[string]float64),
		}

		for i := range d.Records {
			rec := &d.Records[i]
			var values []float64
			for _, sid := range g.SampleIDs {
				if v, ok := rec.Abundances[sid].Float64(); ok {
					values = append(values, v)
				}
			}
			if len(values) == 0 {
				continue
			}
			gs.LipidCoverage++
			mean, _ := stats.Mean(values)
			sd, _ := stats.StandardDeviation(values)
			gs.MeanValues[rec.InputName] = mean
			gs.StdValues[rec.InputName] = sd
		}

		result[g.Label] = gs
	}

	return result
}

// ZScores standardizes the record's available values to zero mean and unit
// population standard deviation. A zero-variance record maps every value to 0.
func (r *Record) ZScores() map[core.SampleID]float64 {
	var values []float64
	var order []core.SampleID
	for sid, a := range r.Abundances {
		if v, ok := a.Float64(); ok {
			values = append(values, v)
			order = append(order, sid)
		}
	}
	if len(values) == 0 {
		return nil
	}

	mean := stat.Mean(values, nil)
	sd := stat.PopStdDev(values, nil)

	scores := make(map[core.SampleID]float64, len(values))
	for i, sid := range order {
		if sd == 0 {
			scores[sid] = 0
			continue
		}
		scores[sid] = (values[i] - mean) / sd
	}
	return scores
}
