// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	// DuckDB driver - scans and joins the CSV files in-process
	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/marquee/internal/recommend"
)

var maxMemoryPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?\s*(B|KB|MB|GB|TB|KiB|MiB|GiB|TiB)$`)

// DuckDBSource joins the ratings and movies files inside an in-memory DuckDB
// database. The join happens in SQL; only (userId, title, rating) rows cross
// into Go.
type DuckDBSource struct {
	db          *sql.DB
	ratingsPath string
	moviesPath  string
}

// NewDuckDBSource opens an in-memory DuckDB instance for the given files.
// maxMemory ("1GB", "512MB") and threads are optional.
func NewDuckDBSource(ratingsPath, moviesPath, maxMemory string, threads int) (*DuckDBSource, error) {
	connStr, err := duckDBConnString(maxMemory, threads)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	// One connection keeps settings and temp state in a single session.
	db.SetMaxOpenConns(1)

	return &DuckDBSource{db: db, ratingsPath: ratingsPath, moviesPath: moviesPath}, nil
}

func duckDBConnString(maxMemory string, threads int) (string, error) {
	params := url.Values{}
	params.Set("autoinstall_known_extensions", "false")
	params.Set("autoload_known_extensions", "false")
	// Row positions in joinQuery come from scan order.
	params.Set("preserve_insertion_order", "true")
	if maxMemory != "" {
		if !maxMemoryPattern.MatchString(maxMemory) {
			return "", fmt.Errorf("invalid duckdb max_memory %q", maxMemory)
		}
		params.Set("max_memory", strings.ReplaceAll(maxMemory, " ", ""))
	}
	if threads < 0 {
		return "", fmt.Errorf("duckdb threads must not be negative, got %d", threads)
	}
	if threads > 0 {
		params.Set("threads", strconv.Itoa(threads))
	}
	return ":memory:?" + params.Encode(), nil
}

// Close releases the DuckDB instance.
func (s *DuckDBSource) Close() error {
	return s.db.Close()
}

// LoadJoined implements recommend.DataSource. Rows are ordered by their
// position in the ratings file, then in the movies file.
func (s *DuckDBSource) LoadJoined(ctx context.Context) (*recommend.JoinedTable, error) {
	if err := checkColumns(ctx, s.db, s.ratingsPath, colUserID, colMovieID, colRating); err != nil {
		return nil, err
	}
	if err := checkColumns(ctx, s.db, s.moviesPath, colMovieID, colTitle); err != nil {
		return nil, err
	}

	var expected, nonFinite int
	countQuery := fmt.Sprintf(
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE NOT isfinite("%s")) FROM %s`,
		colRating, scanCSV(s.ratingsPath),
	)
	if err := s.db.QueryRowContext(ctx, countQuery).Scan(&expected, &nonFinite); err != nil {
		return nil, s.wrap(ctx, s.ratingsPath, fmt.Errorf("count ratings: %w", err))
	}
	if nonFinite > 0 {
		return nil, s.wrap(ctx, s.ratingsPath, fmt.Errorf("%d %s value(s): %w", nonFinite, colRating, errNonFinite))
	}

	rows, err := s.db.QueryContext(ctx, joinQuery(s.ratingsPath, s.moviesPath))
	if err != nil {
		return nil, s.wrap(ctx, s.ratingsPath, fmt.Errorf("join ratings with movies: %w", err))
	}
	defer rows.Close() //nolint:errcheck // read-only query

	out := make([]recommend.JoinedRow, 0, expected)
	for rows.Next() {
		var row recommend.JoinedRow
		if err := rows.Scan(&row.UserID, &row.Title, &row.Rating); err != nil {
			return nil, s.wrap(ctx, s.ratingsPath, fmt.Errorf("scan joined row %d: %w", len(out), err))
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap(ctx, s.ratingsPath, fmt.Errorf("iterate joined rows: %w", err))
	}
	return &recommend.JoinedTable{Rows: out}, nil
}

func (s *DuckDBSource) wrap(ctx context.Context, source string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return &recommend.DataSourceError{Source: source, Err: err}
}

// checkColumns verifies that the header of path contains every column in want.
func checkColumns(ctx context.Context, db *sql.DB, path string, want ...string) error {
	rows, err := db.QueryContext(ctx, "DESCRIBE SELECT * FROM "+scanCSVUntyped(path))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &recommend.DataSourceError{Source: path, Err: fmt.Errorf("read header: %w", err)}
	}
	defer rows.Close() //nolint:errcheck // read-only query

	cols, err := rows.Columns()
	if err != nil {
		return &recommend.DataSourceError{Source: path, Err: err}
	}
	var header []string
	dest := make([]any, len(cols))
	for rows.Next() {
		var name string
		for i := range dest {
			dest[i] = new(any)
		}
		dest[0] = &name
		if err := rows.Scan(dest...); err != nil {
			return &recommend.DataSourceError{Source: path, Err: fmt.Errorf("read header: %w", err)}
		}
		header = append(header, name)
	}
	if err := rows.Err(); err != nil {
		return &recommend.DataSourceError{Source: path, Err: fmt.Errorf("read header: %w", err)}
	}
	if _, err := resolveColumns(header, want); err != nil {
		return &recommend.DataSourceError{Source: path, Err: err}
	}
	return nil
}

// scanCSV reads path with MovieLens column types pinned so malformed numbers
// fail the scan instead of degrading the column to VARCHAR.
func scanCSV(path string) string {
	return fmt.Sprintf(
		"read_csv_auto(%s, header = true, types = {'%s': 'BIGINT', '%s': 'BIGINT', '%s': 'DOUBLE'})",
		quoteLiteral(path), colUserID, colMovieID, colRating,
	)
}

func scanMovies(path string) string {
	return fmt.Sprintf(
		"read_csv_auto(%s, header = true, types = {'%s': 'BIGINT', '%s': 'VARCHAR'})",
		quoteLiteral(path), colMovieID, colTitle,
	)
}

func scanCSVUntyped(path string) string {
	return fmt.Sprintf("read_csv_auto(%s, header = true)", quoteLiteral(path))
}

func joinQuery(ratingsPath, moviesPath string) string {
	return fmt.Sprintf(`
		WITH r AS (
			SELECT "%[1]s" AS user_id, "%[2]s" AS movie_id, "%[3]s" AS rating, row_number() OVER () AS pos
			FROM %[5]s
		), m AS (
			SELECT "%[2]s" AS movie_id, "%[4]s" AS title, row_number() OVER () AS pos
			FROM %[6]s
		)
		SELECT r.user_id, m.title, r.rating
		FROM r
		INNER JOIN m ON r.movie_id = m.movie_id
		ORDER BY r.pos, m.pos`,
		colUserID, colMovieID, colRating, colTitle,
		scanCSV(ratingsPath), scanMovies(moviesPath),
	)
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

var _ Source = (*DuckDBSource)(nil)
