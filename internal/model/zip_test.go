package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeZip(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"plain five digits", "90210", "90210", false},
		{"surrounding whitespace", " 90210 ", "90210", false},
		{"pads short zip", "1001", "01001", false},
		{"pads very short zip", "501", "00501", false},
		{"spreadsheet float", "90210.0", "90210", false},
		{"spreadsheet float with padding", "1001.0", "01001", false},
		{"trailing zeros fraction", "90210.000", "90210", false},
		{"bare trailing dot", "90210.", "90210", false},
		{"non-integer float", "90210.5", "", true},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"letters", "ABCDE", "", true},
		{"mixed digits and letters", "9021O", "", true},
		{"negative number", "-1001", "", true},
		{"six digits", "902101", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeZip(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
