// Package persistence stores generated start layouts in SQLite.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/startlayout/internal/regions"
	"github.com/talgya/startlayout/internal/world"
)

// DB wraps a SQLite connection for layout storage.
type DB struct {
	conn *sqlx.DB
}

// Run is one stored generation.
type Run struct {
	ID          string `db:"id" json:"id"`
	CreatedAt   string `db:"created_at" json:"created_at"`
	Seed        int64  `db:"seed" json:"seed"`
	Ruleset     string `db:"ruleset" json:"ruleset"`
	Width       int    `db:"width" json:"width"`
	Height      int    `db:"height" json:"height"`
	Archipelago bool   `db:"archipelago" json:"archipelago"`
	Regions     int    `db:"regions" json:"regions"`
	Luxuries    int    `db:"luxuries" json:"luxuries"`
	Strategics  int    `db:"strategics" json:"strategics"`
	Bonuses     int    `db:"bonuses" json:"bonuses"`
}

// StartRecord is a stored faction start. Region is -1 for city-states
// placed outside every region.
type StartRecord struct {
	Nation    string `db:"nation"`
	X         int    `db:"x"`
	Y         int    `db:"y"`
	CityState bool   `db:"city_state"`
	Region    int    `db:"region_idx"`
}

// Coord returns the start tile.
func (s StartRecord) Coord() world.Coord {
	return world.Coord{X: s.X, Y: s.Y}
}

// TileRecord is a stored tile carrying a resource.
type TileRecord struct {
	X            int    `db:"x"`
	Y            int    `db:"y"`
	Terrain      string `db:"terrain"`
	FeaturesJSON string `db:"features_json"`
	Resource     string `db:"resource"`
	Amount       int    `db:"amount"`
}

// Features decodes the stored feature list.
func (t TileRecord) Features() []string {
	var out []string
	_ = json.Unmarshal([]byte(t.FeaturesJSON), &out)
	return out
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		seed INTEGER NOT NULL,
		ruleset TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		archipelago INTEGER NOT NULL,
		regions INTEGER NOT NULL,
		luxuries INTEGER NOT NULL,
		strategics INTEGER NOT NULL,
		bonuses INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS regions (
		run_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		continent INTEGER NOT NULL,
		type TEXT NOT NULL,
		luxury TEXT NOT NULL,
		fertility INTEGER NOT NULL,
		PRIMARY KEY (run_id, idx)
	);

	CREATE TABLE IF NOT EXISTS starts (
		run_id TEXT NOT NULL,
		nation TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		city_state INTEGER NOT NULL,
		region_idx INTEGER NOT NULL,
		PRIMARY KEY (run_id, nation)
	);

	CREATE TABLE IF NOT EXISTS tiles (
		run_id TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		terrain TEXT NOT NULL,
		features_json TEXT NOT NULL,
		resource TEXT NOT NULL,
		amount INTEGER NOT NULL,
		PRIMARY KEY (run_id, x, y)
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_starts_run ON starts(run_id);
	CREATE INDEX IF NOT EXISTS idx_tiles_resource ON tiles(run_id, resource);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveLayout writes a finished layout under a fresh run id and returns it.
// Only tiles carrying a resource or a start are stored.
func (db *DB) SaveLayout(m *world.Map, res *regions.Result, seed int64) (string, error) {
	id := uuid.NewString()
	slog.Info("saving layout", "run", id, "regions", len(res.Regions), "starts", len(m.Starts))

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	rulesName := ""
	if m.Rules != nil {
		rulesName = m.Rules.Name
	}
	archipelago := 0
	if res.Archipelago {
		archipelago = 1
	}
	_, err = tx.Exec(`INSERT INTO runs
		(id, created_at, seed, ruleset, width, height, archipelago, regions, luxuries, strategics, bonuses)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339), seed, rulesName, m.Width, m.Height,
		archipelago, len(res.Regions), res.Stats.Luxuries, res.Stats.Strategics, res.Stats.Bonuses,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	index := make(map[*regions.Region]int, len(res.Regions))
	for i, r := range res.Regions {
		index[r] = i
		_, err := tx.Exec(`INSERT INTO regions
			(run_id, idx, x, y, width, height, continent, type, luxury, fertility)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, r.Rect.X, r.Rect.Y, r.Rect.Width, r.Rect.Height,
			r.Continent, r.Type, r.Luxury, r.TotalFertility,
		)
		if err != nil {
			return "", fmt.Errorf("insert region %d: %w", i, err)
		}
	}

	for _, list := range [][]regions.Assignment{res.Majors, res.Minors} {
		for _, a := range list {
			region := -1
			if a.Region != nil {
				region = index[a.Region]
			}
			cityState := 0
			if a.Nation.CityState {
				cityState = 1
			}
			_, err := tx.Exec(`INSERT INTO starts (run_id, nation, x, y, city_state, region_idx)
				VALUES (?, ?, ?, ?, ?, ?)`,
				id, a.Nation.Name, a.Start.X, a.Start.Y, cityState, region,
			)
			if err != nil {
				return "", fmt.Errorf("insert start %s: %w", a.Nation.Name, err)
			}
		}
	}

	stmt, err := tx.Preparex(`INSERT INTO tiles
		(run_id, x, y, terrain, features_json, resource, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, t := range m.Tiles {
		if t.Resource == "" && !m.IsStart(t.Coord) {
			continue
		}
		featuresJSON, _ := json.Marshal(t.Features)
		if _, err := stmt.Exec(id, t.Coord.X, t.Coord.Y, t.Terrain, string(featuresJSON), t.Resource, t.ResourceAmount); err != nil {
			return "", fmt.Errorf("insert tile %v: %w", t.Coord, err)
		}
	}

	if _, err := tx.Exec("INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)", "last_run", id); err != nil {
		return "", fmt.Errorf("save meta: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}

	slog.Info("layout saved", "run", id)
	return id, nil
}

// SaveMeta stores a key-value pair in the metadata table.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// LoadRun returns the stored run with the given id.
func (db *DB) LoadRun(id string) (*Run, error) {
	var run Run
	if err := db.conn.Get(&run, "SELECT * FROM runs WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	return &run, nil
}

// RecentRuns returns the most recent N runs.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs,
		"SELECT * FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	return runs, err
}

// LoadStarts returns the starts of a run, majors first.
func (db *DB) LoadStarts(runID string) ([]StartRecord, error) {
	var starts []StartRecord
	err := db.conn.Select(&starts,
		"SELECT nation, x, y, city_state, region_idx FROM starts WHERE run_id = ? ORDER BY city_state, nation",
		runID,
	)
	return starts, err
}

// LoadResources returns the run's tiles carrying the named resource, or
// every resource tile when name is empty.
func (db *DB) LoadResources(runID, name string) ([]TileRecord, error) {
	var tiles []TileRecord
	err := db.conn.Select(&tiles,
		`SELECT x, y, terrain, features_json, resource, amount FROM tiles
		 WHERE run_id = ? AND resource != '' AND (? = '' OR resource = ?)
		 ORDER BY y, x`,
		runID, name, name,
	)
	return tiles, err
}
