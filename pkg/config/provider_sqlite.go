package config

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/chrissnell/panchanga/pkg/migrate"
)

//go:embed migrations/*.sql
var migrations embed.FS

const defaultConfigName = "default"

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Path returns the database file path.
func (s *SQLiteProvider) Path() string {
	return s.dbPath
}

// Migrate brings the schema up to date.
func (s *SQLiteProvider) Migrate(logger *zap.SugaredLogger) error {
	m := migrate.NewMigrator(s.db, migrate.NewFSProvider(migrations, "migrations", ""), logger)
	if err := m.MigrateUp(); err != nil {
		return fmt.Errorf("failed to migrate config database: %w", err)
	}
	return nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	engine, err := s.GetEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to load engine config: %w", err)
	}
	config.Engine = *engine

	locations, err := s.GetLocations()
	if err != nil {
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}
	config.Locations = locations

	rules, err := s.GetRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load rules config: %w", err)
	}
	config.Rules = *rules

	if err := Finalize(config); err != nil {
		return nil, err
	}
	return config, nil
}

// GetEngine returns engine settings. Unset columns are left zero for
// defaults to fill.
func (s *SQLiteProvider) GetEngine() (*EngineData, error) {
	query := `
		SELECT ayanamsa, ephemeris, nakshatra_scheme, reference,
		       step_minutes, tolerance_seconds, horizon_days, max_iterations,
		       concurrency
		FROM engine_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = ?)
	`

	var ayanamsa, ephemeris, reference sql.NullString
	var scheme, step, tolerance, horizon, iterations, concurrency sql.NullInt64

	err := s.db.QueryRow(query, defaultConfigName).Scan(
		&ayanamsa, &ephemeris, &scheme, &reference,
		&step, &tolerance, &horizon, &iterations,
		&concurrency,
	)
	engine := &EngineData{}
	if errors.Is(err, sql.ErrNoRows) {
		return engine, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query engine config: %w", err)
	}

	engine.Ayanamsa = ayanamsa.String
	engine.Ephemeris = ephemeris.String
	engine.Reference = reference.String
	engine.NakshatraScheme = int(scheme.Int64)
	engine.Boundary = BoundaryData{
		StepMinutes:      int(step.Int64),
		ToleranceSeconds: int(tolerance.Int64),
		HorizonDays:      int(horizon.Int64),
		MaxIterations:    int(iterations.Int64),
	}
	engine.Concurrency = int(concurrency.Int64)
	return engine, nil
}

// GetLocations returns locations ordered by name
func (s *SQLiteProvider) GetLocations() ([]LocationData, error) {
	query := `
		SELECT name, latitude, longitude, altitude, timezone
		FROM locations
		WHERE config_id = (SELECT id FROM configs WHERE name = ?)
		ORDER BY name
	`

	rows, err := s.db.Query(query, defaultConfigName)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	var locations []LocationData
	for rows.Next() {
		var l LocationData
		var altitude sql.NullFloat64
		if err := rows.Scan(&l.Name, &l.Latitude, &l.Longitude, &altitude, &l.TimeZone); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		if altitude.Valid {
			l.Altitude = altitude.Float64
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// GetRules returns the yoga rule source
func (s *SQLiteProvider) GetRules() (*RulesData, error) {
	query := `
		SELECT source, path
		FROM rules_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = ?)
	`

	var source, path sql.NullString
	err := s.db.QueryRow(query, defaultConfigName).Scan(&source, &path)
	if errors.Is(err, sql.ErrNoRows) {
		return &RulesData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query rules config: %w", err)
	}
	return &RulesData{Source: source.String, Path: path.String}, nil
}

// IsReadOnly returns false; the database can be written with SaveConfig
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveConfig replaces the stored configuration
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	configID, err := s.getOrCreateConfigID(tx)
	if err != nil {
		return fmt.Errorf("failed to insert config: %w", err)
	}

	if err := s.clearExistingConfig(tx, configID); err != nil {
		return fmt.Errorf("failed to clear existing config: %w", err)
	}

	if err := s.insertEngine(tx, configID, &configData.Engine); err != nil {
		return fmt.Errorf("failed to insert engine config: %w", err)
	}

	for _, location := range configData.Locations {
		if err := s.insertLocation(tx, configID, &location); err != nil {
			return fmt.Errorf("failed to insert location %s: %w", location.Name, err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO rules_configs (config_id, source, path) VALUES (?, ?, ?)`,
		configID, nullString(configData.Rules.Source), nullString(configData.Rules.Path)); err != nil {
		return fmt.Errorf("failed to insert rules config: %w", err)
	}

	return tx.Commit()
}

// AddLocation stores one location
func (s *SQLiteProvider) AddLocation(location *LocationData) error {
	if err := validate.Struct(location); err != nil {
		return validationError(err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	configID, err := s.getOrCreateConfigID(tx)
	if err != nil {
		return err
	}
	if err := s.insertLocation(tx, configID, location); err != nil {
		return fmt.Errorf("failed to insert location %s: %w", location.Name, err)
	}
	return tx.Commit()
}

// DeleteLocation removes a location by name
func (s *SQLiteProvider) DeleteLocation(name string) error {
	result, err := s.db.Exec(`
		DELETE FROM locations
		WHERE name = ? AND config_id = (SELECT id FROM configs WHERE name = ?)
	`, name, defaultConfigName)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("location not found: %s", name)
	}
	return nil
}

func (s *SQLiteProvider) getOrCreateConfigID(tx *sql.Tx) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM configs WHERE name = ?`, defaultConfigName).Scan(&id)
	if err == nil {
		if _, err := tx.Exec(`UPDATE configs SET updated_at = datetime('now') WHERE id = ?`, id); err != nil {
			return 0, err
		}
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	result, err := tx.Exec(`INSERT INTO configs (name) VALUES (?)`, defaultConfigName)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteProvider) clearExistingConfig(tx *sql.Tx, configID int64) error {
	queries := []string{
		"DELETE FROM engine_configs WHERE config_id = ?",
		"DELETE FROM locations WHERE config_id = ?",
		"DELETE FROM rules_configs WHERE config_id = ?",
	}

	for _, query := range queries {
		if _, err := tx.Exec(query, configID); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteProvider) insertEngine(tx *sql.Tx, configID int64, engine *EngineData) error {
	query := `
		INSERT INTO engine_configs (
			config_id, ayanamsa, ephemeris, nakshatra_scheme, reference,
			step_minutes, tolerance_seconds, horizon_days, max_iterations,
			concurrency
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.Exec(query,
		configID,
		nullString(engine.Ayanamsa),
		nullString(engine.Ephemeris),
		nullInt(engine.NakshatraScheme),
		nullString(engine.Reference),
		nullInt(engine.Boundary.StepMinutes),
		nullInt(engine.Boundary.ToleranceSeconds),
		nullInt(engine.Boundary.HorizonDays),
		nullInt(engine.Boundary.MaxIterations),
		nullInt(engine.Concurrency),
	)
	return err
}

func (s *SQLiteProvider) insertLocation(tx *sql.Tx, configID int64, location *LocationData) error {
	query := `
		INSERT INTO locations (config_id, name, latitude, longitude, altitude, timezone)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := tx.Exec(query, configID, location.Name, location.Latitude, location.Longitude,
		location.Altitude, location.TimeZone)
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(i), Valid: i != 0}
}
