package discover

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kioskworks/sitescout/internal/model"
)

func TestDailyHours(t *testing.T) {
	tests := []struct {
		name    string
		periods []model.Period
		want    float64
	}{
		{"no periods", nil, 0},
		{"single nine to five", []model.Period{{Open: "0900", Close: "1700"}}, 8},
		{"crosses midnight", []model.Period{{Open: "2200", Close: "0200"}}, 4},
		{"open ended never closes", []model.Period{{Open: "0000"}}, 24},
		{
			"mean across a week",
			[]model.Period{
				{Open: "0900", Close: "1700"},
				{Open: "0900", Close: "1700"},
				{Open: "1000", Close: "1400"},
			},
			6.67,
		},
		{"half hours", []model.Period{{Open: "0830", Close: "1715"}}, 8.75},
		{"malformed open contributes zero", []model.Period{{Open: "9am", Close: "1700"}}, 0},
		{
			"malformed period averaged with valid",
			[]model.Period{
				{Open: "abcd", Close: "1700"},
				{Open: "0900", Close: "1700"},
			},
			4,
		},
		{"malformed close contributes zero", []model.Period{{Open: "0900", Close: "25xx"}}, 0},
		{"out of range close", []model.Period{{Open: "0900", Close: "2575"}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DailyHours(tt.periods))
		})
	}
}
