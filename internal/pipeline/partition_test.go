package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kioskworks/sitescout/internal/model"
)

func TestPartition(t *testing.T) {
	records := []model.BusinessRecord{
		{PlaceID: "a", Phone: "512-555-0100"},
		{PlaceID: "b"},
		{PlaceID: "c", Contact: model.OwnerContact{Phones: []string{"512-555-0101"}}},
		{PlaceID: "d", Contact: model.OwnerContact{Emails: []string{"owner@example.com"}}},
		{PlaceID: "e", Phone: "512-555-0102", Contact: model.OwnerContact{Emails: []string{"x@example.com"}}},
	}

	with, without := Partition(records)

	// Exhaustive and disjoint; an email alone is not contact.
	assert.Equal(t, []string{"a", "c", "e"}, placeIDs(with))
	assert.Equal(t, []string{"b", "d"}, placeIDs(without))
	assert.Equal(t, len(records), len(with)+len(without))
}

func TestPartitionEmpty(t *testing.T) {
	with, without := Partition(nil)
	assert.Empty(t, with)
	assert.Empty(t, without)
}

func placeIDs(records []model.BusinessRecord) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.PlaceID)
	}
	return ids
}
