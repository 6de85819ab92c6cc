package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/raspy-go/raspy/internal/model"
	"github.com/raspy-go/raspy/internal/raster"
)

// Extensions lists the file extensions Scan indexes (lower case).
var Extensions = []string{".tif", ".tiff", ".img", ".vrt"}

// Entry is one indexed raster.
type Entry struct {
	Path             string         `json:"path"`
	Driver           string         `json:"driver"`
	Cols             int            `json:"cols"`
	Rows             int            `json:"rows"`
	Bands            int            `json:"bands"`
	DataType         model.DataType `json:"dataType"`
	NoData           *float64       `json:"nodata,omitempty"`
	XRes             float64        `json:"xRes"`
	YRes             float64        `json:"yRes"`
	Extent           model.Extent   `json:"extent"`
	Proj4            string         `json:"proj4,omitempty"`
	FileSize         int64          `json:"fileSize"`
	UncompressedSize float64        `json:"uncompressedSize"`
	ScanID           string         `json:"scanId"`
	ScannedAt        time.Time      `json:"scannedAt"`
}

// MarshalJSON encodes the entry with a JSON-safe nodata value.
func (e Entry) MarshalJSON() ([]byte, error) {
	type plain Entry
	return json.Marshal(struct {
		plain
		NoData *model.JSONFloat `json:"nodata,omitempty"`
	}{plain(e), model.NoDataJSON(e.NoData)})
}

// ScanResult summarises one Scan call.
type ScanResult struct {
	ScanID  string `json:"scanId"`
	Root    string `json:"root"`
	Indexed int    `json:"indexed"`
	Skipped int    `json:"skipped"`
}

// Catalog is a SQLite-backed index of raster metadata.
type Catalog struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (creating if needed) the catalog database at path and brings
// its schema up to date.
func Open(ctx context.Context, path string, log *slog.Logger) (*Catalog, error) {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return nil, fmt.Errorf("%w: catalog %s is a directory", model.ErrInvalidArgument, path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("%w: catalog directory %s does not exist", model.ErrNotFound, dir)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open catalog %s: %v", model.ErrIO, path, err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: configure catalog %s: %v", model.ErrIO, path, err)
	}
	if err := migrateUp(db, log); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: catalog %s: %v", model.ErrIO, path, err)
	}

	log.Debug("catalog opened", "path", path)
	return &Catalog{db: db, log: log}, nil
}

// Close releases the database handle.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// SchemaVersion returns the applied migration version.
func (c *Catalog) SchemaVersion() (uint, error) {
	v, dirty, err := schemaVersion(c.db, c.log)
	if err != nil {
		return 0, err
	}
	if dirty {
		return v, fmt.Errorf("%w: catalog schema version %d is dirty", model.ErrIO, v)
	}
	return v, nil
}

// isRaster reports whether name has one of the indexed extensions.
func isRaster(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Scan indexes every raster under root. Files GDAL cannot open are logged
// and counted as skipped; they do not stop the scan. Subdirectories are
// visited only when recursive is set.
func (c *Catalog) Scan(ctx context.Context, root string, recursive bool) (ScanResult, error) {
	// Step 1: Validate the root directory
	if err := ctx.Err(); err != nil {
		return ScanResult{}, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return ScanResult{}, fmt.Errorf("%w: %s: %v", model.ErrInvalidArgument, root, err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return ScanResult{}, fmt.Errorf("%w: %s does not exist", model.ErrNotFound, root)
	}
	if !fi.IsDir() {
		return ScanResult{}, fmt.Errorf("%w: %s is not a directory", model.ErrInvalidArgument, root)
	}

	// Step 2: Register the scan
	res := ScanResult{ScanID: uuid.NewString(), Root: abs}
	started := time.Now().UTC()
	if _, err := c.db.ExecContext(ctx,
		`INSERT INTO scans (scan_id, root, recursive, started_at) VALUES (?, ?, ?, ?)`,
		res.ScanID, abs, recursive, started.Format(time.RFC3339Nano)); err != nil {
		return res, fmt.Errorf("%w: record scan: %v", model.ErrIO, err)
	}
	c.log.Debug("scan started", "scanID", res.ScanID, "root", abs, "recursive", recursive)

	// Step 3: Walk the tree and index each raster
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			c.log.Warn("skipping unreadable path", "path", path, "error", walkErr)
			res.Skipped++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != abs && !recursive {
				return fs.SkipDir
			}
			return nil
		}
		if !isRaster(d.Name()) {
			return nil
		}

		entry, err := describe(path, res.ScanID, started)
		if err != nil {
			c.log.Warn("skipping raster", "path", path, "error", err)
			res.Skipped++
			return nil
		}
		if err := c.Upsert(ctx, entry); err != nil {
			return err
		}
		res.Indexed++
		c.log.Debug("indexed raster", "path", path)
		return nil
	})
	if err != nil {
		return res, err
	}

	// Step 4: Close out the scan record
	if _, err := c.db.ExecContext(ctx,
		`UPDATE scans SET indexed = ?, skipped = ?, finished_at = ? WHERE scan_id = ?`,
		res.Indexed, res.Skipped, time.Now().UTC().Format(time.RFC3339Nano), res.ScanID); err != nil {
		return res, fmt.Errorf("%w: finish scan: %v", model.ErrIO, err)
	}
	return res, nil
}

// describe builds an Entry from the raster's metadata.
func describe(path, scanID string, at time.Time) (Entry, error) {
	info, err := raster.Info(path)
	if err != nil {
		return Entry{}, err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: stat %s: %v", model.ErrIO, path, err)
	}

	e := Entry{
		Path:             path,
		Driver:           info.Driver,
		Cols:             info.Cols,
		Rows:             info.Rows,
		Bands:            info.BandCount(),
		XRes:             info.GeoTransform.XRes(),
		YRes:             info.GeoTransform.YRes(),
		Extent:           info.Extent(),
		Proj4:            info.Proj4,
		FileSize:         fi.Size(),
		UncompressedSize: info.UncompressedSize(),
		ScanID:           scanID,
		ScannedAt:        at,
	}
	if b, err := info.Band(1); err == nil {
		e.DataType = b.DataType
		e.NoData = b.NoData
	}
	return e, nil
}

// Upsert inserts e or replaces the entry with the same path.
func (c *Catalog) Upsert(ctx context.Context, e Entry) error {
	var nodata sql.NullFloat64
	if e.NoData != nil {
		nodata = sql.NullFloat64{Float64: *e.NoData, Valid: true}
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO rasters (
			path, driver, cols, rows, bands, data_type, nodata,
			x_res, y_res, min_x, min_y, max_x, max_y, proj4,
			file_size, uncompressed_size, scan_id, scanned_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			driver = excluded.driver,
			cols = excluded.cols,
			rows = excluded.rows,
			bands = excluded.bands,
			data_type = excluded.data_type,
			nodata = excluded.nodata,
			x_res = excluded.x_res,
			y_res = excluded.y_res,
			min_x = excluded.min_x,
			min_y = excluded.min_y,
			max_x = excluded.max_x,
			max_y = excluded.max_y,
			proj4 = excluded.proj4,
			file_size = excluded.file_size,
			uncompressed_size = excluded.uncompressed_size,
			scan_id = excluded.scan_id,
			scanned_at = excluded.scanned_at`,
		e.Path, e.Driver, e.Cols, e.Rows, e.Bands, string(e.DataType), nodata,
		e.XRes, e.YRes, e.Extent.MinX, e.Extent.MinY, e.Extent.MaxX, e.Extent.MaxY, e.Proj4,
		e.FileSize, e.UncompressedSize, e.ScanID, e.ScannedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("%w: upsert %s: %v", model.ErrIO, e.Path, err)
	}
	return nil
}

// List returns every indexed raster sorted by path.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT path, driver, cols, rows, bands, data_type, nodata,
			x_res, y_res, min_x, min_y, max_x, max_y, proj4,
			file_size, uncompressed_size, scan_id, scanned_at
		FROM rasters ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("%w: list catalog: %v", model.ErrIO, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			dataType  string
			nodata    sql.NullFloat64
			scannedAt string
		)
		if err := rows.Scan(
			&e.Path, &e.Driver, &e.Cols, &e.Rows, &e.Bands, &dataType, &nodata,
			&e.XRes, &e.YRes, &e.Extent.MinX, &e.Extent.MinY, &e.Extent.MaxX, &e.Extent.MaxY, &e.Proj4,
			&e.FileSize, &e.UncompressedSize, &e.ScanID, &scannedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: read catalog row: %v", model.ErrIO, err)
		}
		e.DataType = model.DataType(dataType)
		if nodata.Valid {
			v := nodata.Float64
			e.NoData = &v
		}
		if t, err := time.Parse(time.RFC3339Nano, scannedAt); err == nil {
			e.ScannedAt = t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list catalog: %v", model.ErrIO, err)
	}
	return entries, nil
}
