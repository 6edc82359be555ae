package geo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// square returns a closed unit-square polygon offset by (dx, dy).
func square(dx, dy float64) *shp.Polygon {
	points := []shp.Point{
		{X: dx, Y: dy},
		{X: dx, Y: dy + 1},
		{X: dx + 1, Y: dy + 1},
		{X: dx + 1, Y: dy},
		{X: dx, Y: dy},
	}
	return &shp.Polygon{
		Box:       shp.Box{MinX: dx, MinY: dy, MaxX: dx + 1, MaxY: dy + 1},
		NumParts:  1,
		NumPoints: int32(len(points)),
		Parts:     []int32{0},
		Points:    points,
	}
}

func createTestShapefile(t *testing.T, field string, regions map[string]*shp.Polygon) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regions.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField(field, 50)}))

	i := 0
	for name, poly := range regions {
		w.Write(poly)
		require.NoError(t, w.WriteAttribute(i, 0, name))
		i++
	}
	w.Close()
	// go-shp's Writer drops the dot when naming the dbf ("regionsdbf") while
	// its Reader opens "regions.dbf"; rename so the reader can find it.
	base := strings.TrimSuffix(path, ".shp")
	require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
	return path
}

func TestLoadShapes(t *testing.T) {
	path := createTestShapefile(t, "ST_NM", map[string]*shp.Polygon{
		"Kerala": square(76, 9),
		"Bihar":  square(85, 25),
	})

	shapes, err := LoadShapes(path, "")
	require.NoError(t, err)
	require.Len(t, shapes, 2)

	byRegion := map[string]RegionShape{}
	for _, s := range shapes {
		byRegion[s.Region] = s
	}

	kerala, ok := byRegion["Kerala"]
	require.True(t, ok)
	// Unit square from (76,9): centroid at its middle, bbox at its corners.
	assert.InDelta(t, 76.5, kerala.Centroid.Lon, 1e-9)
	assert.InDelta(t, 9.5, kerala.Centroid.Lat, 1e-9)
	assert.InDelta(t, 76, kerala.BBox.MinLon, 1e-9)
	assert.InDelta(t, 10, kerala.BBox.MaxLat, 1e-9)
}

func TestLoadShapes_ExplicitField(t *testing.T) {
	path := createTestShapefile(t, "REGION", map[string]*shp.Polygon{
		"Kerala": square(76, 9),
	})

	shapes, err := LoadShapes(path, "REGION")
	require.NoError(t, err)
	require.Len(t, shapes, 1)
	assert.Equal(t, "Kerala", shapes[0].Region)
}

func TestLoadShapes_MissingField(t *testing.T) {
	path := createTestShapefile(t, "ST_NM", map[string]*shp.Polygon{
		"Kerala": square(76, 9),
	})

	_, err := LoadShapes(path, "DISTRICT")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in shapefile")
}

func TestLoadShapes_BadPath(t *testing.T) {
	_, err := LoadShapes(filepath.Join(t.TempDir(), "missing.shp"), "")
	require.Error(t, err)
}
