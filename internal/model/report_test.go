package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeEmptyReport(t *testing.T) {
	var r Report
	s := r.Summarize()

	assert.Zero(t, s.TotalZips)
	assert.Zero(t, s.RejectionRate)
	assert.Zero(t, s.AvgPopulation)
	assert.Zero(t, s.ProjectedUpliftPc)
}

func TestSummarizeMetrics(t *testing.T) {
	r := Report{
		Qualified: []ZipResult{
			{EnrichedZip: EnrichedZip{Population: 54000, Density: 5000}},
		},
		Rejected: []ZipResult{
			{EnrichedZip: EnrichedZip{Population: 9000, Density: 300}},
			{EnrichedZip: EnrichedZip{Population: 21000, Density: 700}},
		},
		WithContact:    []BusinessRecord{{Name: "Quick Stop"}},
		WithoutContact: []BusinessRecord{{Name: "Corner Fuel"}, {Name: "City Pharmacy"}},
		BrandMatches:   2,
		Degradations:   []Degradation{{ZipCode: "00501", Stage: "population"}},
	}

	s := r.Summarize()

	assert.Equal(t, 3, s.TotalZips)
	assert.Equal(t, 1, s.QualifiedZips)
	// 1 of 3 qualified: 33.33% qualified, 66.67% rejected, 66.67% uplift.
	assert.Equal(t, 66.67, s.RejectionRate)
	assert.Equal(t, 66.67, s.ProjectedUpliftPc)
	assert.Equal(t, 28000.0, s.AvgPopulation)
	assert.Equal(t, 2000.0, s.AvgDensity)
	assert.Equal(t, 3, s.Businesses)
	assert.Equal(t, 1, s.WithContact)
	assert.Equal(t, 2, s.WithoutContact)
	assert.Equal(t, 2, s.BrandMatches)
	assert.Equal(t, 1, s.Degradations)
}

func TestSummarizeAllQualified(t *testing.T) {
	r := Report{
		Qualified: []ZipResult{
			{EnrichedZip: EnrichedZip{Population: 10000, Density: 500}},
			{EnrichedZip: EnrichedZip{Population: 30000, Density: 1500}},
		},
	}

	s := r.Summarize()

	assert.Equal(t, 0.0, s.RejectionRate)
	assert.Equal(t, 200.0, s.ProjectedUpliftPc)
	assert.Equal(t, 20000.0, s.AvgPopulation)
	assert.Equal(t, 1000.0, s.AvgDensity)
}
