package zcta

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestShapefile creates a minimal ZCTA-style shapefile with one square
// polygon per entry.
func writeTestShapefile(t *testing.T, entries map[string]float64) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "zcta.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	fields := []shp.Field{
		shp.StringField("GEOID20", 5),
		shp.StringField("ALAND20", 20),
	}
	w.SetFields(fields)

	row := 0
	offset := 0.0
	for geoid, aland := range entries {
		square := [][]shp.Point{{
			{X: offset, Y: 0}, {X: offset, Y: 1}, {X: offset + 1, Y: 1}, {X: offset + 1, Y: 0}, {X: offset, Y: 0},
		}}
		w.Write((*shp.Polygon)(shp.NewPolyLine(square)))
		w.WriteAttribute(row, 0, geoid)
		// DBF numeric attributes round-trip as strings.
		w.WriteAttribute(row, 1, strconv.FormatFloat(aland, 'f', 0, 64))
		row++
		offset += 10
	}

	w.Close()
	return path
}

func TestLoad_AreaAndCentroid(t *testing.T) {
	// 2,589,988.110336 m² == exactly 1 square mile.
	path := writeTestShapefile(t, map[string]float64{
		"90210": 2 * sqMetersPerSqMile,
	})

	idx, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())

	e, ok := idx.Lookup("90210")
	require.True(t, ok)
	assert.InDelta(t, 2.0, e.LandSqMi, 0.001)
	assert.True(t, e.HasCentroid)
	assert.InDelta(t, 0.5, e.Latitude, 0.001)
	assert.InDelta(t, 0.5, e.Longitude, 0.001)
}

func TestLoad_UnknownZipMisses(t *testing.T) {
	path := writeTestShapefile(t, map[string]float64{"10001": sqMetersPerSqMile})

	idx, err := Load(path)
	require.NoError(t, err)

	_, ok := idx.Lookup("99999")
	assert.False(t, ok)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.shp"))
	require.Error(t, err)
}
