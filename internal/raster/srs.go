package raster

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lukeroth/gdal"

	"github.com/raspy-go/raspy/internal/model"
)

// proj4FromWKT exports a WKT (OGC or ESRI flavour) CRS definition as a
// proj4 string with trailing whitespace removed. A dataset without a CRS
// yields an empty string.
func proj4FromWKT(wkt string) (string, error) {
	if strings.TrimSpace(wkt) == "" {
		return "", nil
	}
	sr := gdal.CreateSpatialReference(wkt)
	defer sr.Destroy()

	p4, err := sr.ToProj4()
	if err != nil {
		return "", fmt.Errorf("export CRS to proj4: %w", err)
	}
	return strings.TrimRight(p4, " \t\r\n"), nil
}

// PrjPath returns the .prj sidecar path of a shapefile: "roads.shp" →
// "roads.prj".
func PrjPath(shpPath string) string {
	return strings.TrimSuffix(shpPath, filepath.Ext(shpPath)) + ".prj"
}

// ShapefileProj4 reads the .prj sidecar of a shapefile and returns its CRS as
// a proj4 string. A missing .prj is an argument error, like a source of the
// wrong kind.
func ShapefileProj4(shpPath string) (string, error) {
	if err := checkInput(shpPath); err != nil {
		return "", err
	}
	prj := PrjPath(shpPath)
	data, err := os.ReadFile(prj)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: .prj file for %s does not exist", model.ErrInvalidArgument, filepath.Base(shpPath))
		}
		return "", fmt.Errorf("%w: read %s: %v", model.ErrIO, prj, err)
	}
	return proj4FromWKT(string(data))
}

// DatasetKind classifies a path by extension for tools that accept either
// vector (shapefile) or raster (GeoTIFF) input.
type DatasetKind string

const (
	// KindShapefile is an ESRI shapefile with a .prj sidecar.
	KindShapefile DatasetKind = "shapefile"

	// KindGeoTIFF is a GeoTIFF raster.
	KindGeoTIFF DatasetKind = "geotiff"
)

// DetectKind returns the dataset kind for path based on its extension.
// Anything other than .shp, .tif or .tiff is an argument error.
func DetectKind(path string) (DatasetKind, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "shp":
		return KindShapefile, nil
	case "tif", "tiff":
		return KindGeoTIFF, nil
	default:
		return "", fmt.Errorf("%w: %s must be a Shapefile or GeoTIFF", model.ErrInvalidArgument, path)
	}
}

// DatasetProj4 returns the proj4 string of a shapefile or GeoTIFF,
// dispatching on the file extension.
func DatasetProj4(path string) (string, error) {
	if err := checkInput(path); err != nil {
		return "", err
	}
	kind, err := DetectKind(path)
	if err != nil {
		return "", err
	}
	if kind == KindShapefile {
		return ShapefileProj4(path)
	}
	return Proj4(path)
}
