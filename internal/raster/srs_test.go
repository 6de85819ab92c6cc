package raster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lukeroth/gdal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raspy-go/raspy/internal/grid"
	"github.com/raspy-go/raspy/internal/logging"
	"github.com/raspy-go/raspy/internal/model"
)

// esriUTM10N is an ESRI-flavoured .prj for WGS 84 / UTM zone 10N.
const esriUTM10N = `PROJCS["WGS_1984_UTM_Zone_10N",GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]],PROJECTION["Transverse_Mercator"],PARAMETER["False_Easting",500000.0],PARAMETER["False_Northing",0.0],PARAMETER["Central_Meridian",-123.0],PARAMETER["Scale_Factor",0.9996],PARAMETER["Latitude_Of_Origin",0.0],UNIT["Meter",1.0]]`

func TestPrjPath(t *testing.T) {
	assert.Equal(t, "/data/roads.prj", PrjPath("/data/roads.shp"))
	assert.Equal(t, "roads.prj", PrjPath("roads.SHP"))
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		path     string
		want     DatasetKind
		hasError bool
	}{
		{"a.shp", KindShapefile, false},
		{"a.tif", KindGeoTIFF, false},
		{"a.TIFF", KindGeoTIFF, false},
		{"a.img", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectKind(tt.path)
			if tt.hasError {
				assert.ErrorIs(t, err, model.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestShapefileProj4 reads an ESRI .prj sidecar.
func TestShapefileProj4(t *testing.T) {
	dir := t.TempDir()
	shp := filepath.Join(dir, "roads.shp")
	require.NoError(t, os.WriteFile(shp, []byte{}, 0644))
	require.NoError(t, os.WriteFile(PrjPath(shp), []byte(esriUTM10N), 0644))

	p4, err := DatasetProj4(shp)
	require.NoError(t, err)
	assert.Contains(t, p4, "+units=m")
	assert.Contains(t, p4, "+proj=")
}

func TestShapefileProj4_MissingPrj(t *testing.T) {
	dir := t.TempDir()
	shp := filepath.Join(dir, "roads.shp")
	require.NoError(t, os.WriteFile(shp, []byte{}, 0644))

	_, err := ShapefileProj4(shp)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	assert.Contains(t, err.Error(), ".prj file for roads.shp does not exist")
}

func TestDatasetProj4_GeoTIFF(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "in.tif", 2, 2, 1, gdal.Byte, nil)
	p4, err := DatasetProj4(path)
	require.NoError(t, err)
	assert.Contains(t, p4, "+zone=10")
}

// TestDatasetProj4_NoCRS returns an empty string for a raster without a
// coordinate reference system.
func TestDatasetProj4_NoCRS(t *testing.T) {
	g, err := grid.FromSlice(1, 2, []float64{1, 2})
	require.NoError(t, err)
	stack, err := grid.NewStack(g)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "bare.tif")
	require.NoError(t, WriteGTiff(path, stack, WriteOptions{DataType: model.TypeByte}, logging.NewNop()))

	p4, err := DatasetProj4(path)
	require.NoError(t, err)
	assert.Empty(t, p4)

	_, err = ProjUnits(path)
	assert.ErrorIs(t, err, model.ErrUnsupportedUnits)
}

func TestDatasetProj4_MissingInput(t *testing.T) {
	_, err := DatasetProj4(filepath.Join(t.TempDir(), "gone.tif"))
	assert.ErrorIs(t, err, model.ErrNotFound)
}
