// Package geo loads region boundary shapefiles and derives the centroid and
// bounding box each region needs for choropleth rendering by external UIs.
// No rendering happens here.
package geo

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// nameFieldCandidates are DBF attribute names used for the region name in
// the boundary files commonly circulated for Indian states.
var nameFieldCandidates = []string{"st_nm", "state", "state_name", "name", "region"}

// Point is a lon/lat pair.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Bounds is a lon/lat bounding box.
type Bounds struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// RegionShape is the derived geometry summary for one region.
type RegionShape struct {
	Region   string `json:"region"`
	Centroid Point  `json:"centroid"`
	BBox     Bounds `json:"bbox"`
}

// LoadShapes reads a region boundary shapefile. nameField selects the DBF
// attribute holding the region name; empty tries common candidates. Records
// without a usable polygon or name are skipped and counted in the log.
func LoadShapes(shpPath, nameField string) ([]RegionShape, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "geo: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	nameIdx, err := findNameField(reader.Fields(), nameField)
	if err != nil {
		return nil, err
	}

	var shapes []RegionShape
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		poly := toMultiPolygon(shape)
		if name == "" || poly == nil {
			skipped++
			continue
		}

		b := poly.Bounds()
		shapes = append(shapes, RegionShape{
			Region:   name,
			Centroid: centroid(poly),
			BBox: Bounds{
				MinLon: b.Min(0), MinLat: b.Min(1),
				MaxLon: b.Max(0), MaxLat: b.Max(1),
			},
		})
	}

	if skipped > 0 {
		zap.L().Debug("geo: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}
	if len(shapes) == 0 {
		return nil, eris.Errorf("geo: no usable records in %s", shpPath)
	}
	return shapes, nil
}

func findNameField(fields []shp.Field, nameField string) (int, error) {
	byName := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.ToLower(strings.TrimRight(f.String(), "\x00"))
		byName[name] = i
	}

	if nameField != "" {
		idx, ok := byName[strings.ToLower(nameField)]
		if !ok {
			return 0, eris.Errorf("geo: name field %q not in shapefile", nameField)
		}
		return idx, nil
	}
	for _, cand := range nameFieldCandidates {
		if idx, ok := byName[cand]; ok {
			return idx, nil
		}
	}
	return 0, eris.New("geo: no region name field found; pass one explicitly")
}

// toMultiPolygon converts a shapefile polygon to a geom.MultiPolygon with
// one polygon per part ring. Non-polygon shapes yield nil.
func toMultiPolygon(shape shp.Shape) *geom.MultiPolygon {
	p, ok := shape.(*shp.Polygon)
	if !ok || p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		ring := geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
		if err := mp.Push(ring); err != nil {
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// centroid computes the area-weighted centroid over all rings, falling back
// to the bounding-box center for degenerate geometry.
func centroid(mp *geom.MultiPolygon) Point {
	var areaSum, cxSum, cySum float64
	for i := 0; i < mp.NumPolygons(); i++ {
		coords := mp.Polygon(i).FlatCoords()
		n := len(coords) / 2
		if n < 3 {
			continue
		}
		var a, cx, cy float64
		for j := 0; j < n; j++ {
			k := (j + 1) % n
			x0, y0 := coords[2*j], coords[2*j+1]
			x1, y1 := coords[2*k], coords[2*k+1]
			cross := x0*y1 - x1*y0
			a += cross
			cx += (x0 + x1) * cross
			cy += (y0 + y1) * cross
		}
		if a == 0 {
			continue
		}
		areaSum += a / 2
		cxSum += cx / 6
		cySum += cy / 6
	}

	if areaSum == 0 {
		b := mp.Bounds()
		return Point{Lon: (b.Min(0) + b.Max(0)) / 2, Lat: (b.Min(1) + b.Max(1)) / 2}
	}
	return Point{Lon: cxSum / areaSum, Lat: cySum / areaSum}
}
