package config

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

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
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	island, err := s.GetIsland()
	if err != nil {
		return nil, fmt.Errorf("failed to load island config: %w", err)
	}
	config.Island = *island

	oracle, err := s.GetOracle()
	if err != nil {
		return nil, fmt.Errorf("failed to load oracle config: %w", err)
	}
	config.Oracle = *oracle

	captures, err := s.GetCaptures()
	if err != nil {
		return nil, fmt.Errorf("failed to load capture configs: %w", err)
	}
	config.Captures = captures

	storage, err := s.GetStorageConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}
	config.Storage = *storage

	controllers, err := s.GetControllers()
	if err != nil {
		return nil, fmt.Errorf("failed to load controllers: %w", err)
	}
	config.Controllers = controllers

	return config, nil
}

// GetIsland returns the island configuration from the database
func (s *SQLiteProvider) GetIsland() (*IslandData, error) {
	query := `
		SELECT name, hemisphere, seed
		FROM island_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`

	var island IslandData
	var name sql.NullString
	err := s.db.QueryRow(query).Scan(&name, &island.Hemisphere, &island.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to query island config: %w", err)
	}
	if name.Valid {
		island.Name = name.String
	}

	return &island, nil
}

// GetOracle returns the oracle connection configuration from the database
func (s *SQLiteProvider) GetOracle() (*OracleData, error) {
	query := `
		SELECT endpoint, timeout_seconds, disable_cache
		FROM oracle_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
	`

	var oracle OracleData
	var timeoutSeconds sql.NullInt64
	var disableCache sql.NullBool
	err := s.db.QueryRow(query).Scan(&oracle.Endpoint, &timeoutSeconds, &disableCache)
	if err != nil {
		return nil, fmt.Errorf("failed to query oracle config: %w", err)
	}
	if timeoutSeconds.Valid {
		oracle.TimeoutSeconds = int(timeoutSeconds.Int64)
	}
	if disableCache.Valid {
		oracle.DisableCache = disableCache.Bool
	}

	return &oracle, nil
}

// GetCaptures returns capture listener configurations from the database
func (s *SQLiteProvider) GetCaptures() ([]CaptureData, error) {
	query := `
		SELECT name, listen_addr, port
		FROM capture_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default')
		ORDER BY name
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query capture configs: %w", err)
	}
	defer rows.Close()

	var captures []CaptureData
	for rows.Next() {
		var capture CaptureData
		var listenAddr sql.NullString

		if err := rows.Scan(&capture.Name, &listenAddr, &capture.Port); err != nil {
			return nil, fmt.Errorf("failed to scan capture config row: %w", err)
		}
		if listenAddr.Valid {
			capture.ListenAddr = listenAddr.String
		}

		captures = append(captures, capture)
	}

	return captures, rows.Err()
}

// GetStorageConfig returns storage configuration from the database
func (s *SQLiteProvider) GetStorageConfig() (*StorageData, error) {
	query := `
		SELECT backend_type, enabled, timescale_connection_string
		FROM storage_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default') AND enabled = 1
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query storage configs: %w", err)
	}
	defer rows.Close()

	storage := &StorageData{}

	for rows.Next() {
		var backendType string
		var enabled bool
		var timescaleConnectionString sql.NullString

		err := rows.Scan(&backendType, &enabled, &timescaleConnectionString)
		if err != nil {
			return nil, fmt.Errorf("failed to scan storage config row: %w", err)
		}

		switch backendType {
		case "timescaledb":
			if timescaleConnectionString.Valid {
				storage.TimescaleDB = &TimescaleDBData{
					ConnectionString: timescaleConnectionString.String,
				}
			}
		}
	}

	return storage, rows.Err()
}

// GetControllers returns controller configurations from the database
func (s *SQLiteProvider) GetControllers() ([]ControllerData, error) {
	query := `
		SELECT controller_type, enabled,
		       rest_cert, rest_key, rest_port, rest_listen_addr,
		       rest_rate_limit, rest_rate_burst, rest_enable_cors
		FROM controller_configs
		WHERE config_id = (SELECT id FROM configs WHERE name = 'default') AND enabled = 1
		ORDER BY controller_type
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query controller configs: %w", err)
	}
	defer rows.Close()

	var controllers []ControllerData

	for rows.Next() {
		var controllerType string
		var enabled bool
		var restCert, restKey, restListenAddr sql.NullString
		var restPort, restRateBurst sql.NullInt64
		var restRateLimit sql.NullFloat64
		var restEnableCORS sql.NullBool

		err := rows.Scan(
			&controllerType, &enabled,
			&restCert, &restKey, &restPort, &restListenAddr,
			&restRateLimit, &restRateBurst, &restEnableCORS,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan controller config row: %w", err)
		}

		controller := ControllerData{Type: controllerType}

		switch controllerType {
		case "rest":
			controller.RESTServer = &RESTServerData{
				Cert:       restCert.String,
				Key:        restKey.String,
				Port:       int(restPort.Int64),
				ListenAddr: restListenAddr.String,
				RateLimit:  restRateLimit.Float64,
				RateBurst:  int(restRateBurst.Int64),
				EnableCORS: restEnableCORS.Bool,
			}
		}

		controllers = append(controllers, controller)
	}

	return controllers, rows.Err()
}

// SaveConfig replaces the default configuration with configData. The
// write is transactional, so a failed save leaves the previous
// configuration intact.
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	configID, err := s.insertConfig(tx, "default")
	if err != nil {
		return fmt.Errorf("failed to insert config: %w", err)
	}

	if err := s.clearExistingConfig(tx, configID); err != nil {
		return fmt.Errorf("failed to clear existing config: %w", err)
	}

	if err := s.insertIsland(tx, configID, &configData.Island); err != nil {
		return fmt.Errorf("failed to insert island config: %w", err)
	}

	if err := s.insertOracle(tx, configID, &configData.Oracle); err != nil {
		return fmt.Errorf("failed to insert oracle config: %w", err)
	}

	for _, capture := range configData.Captures {
		if err := s.insertCapture(tx, configID, &capture); err != nil {
			return fmt.Errorf("failed to insert capture %s: %w", capture.Name, err)
		}
	}

	if err := s.insertStorageConfigs(tx, configID, &configData.Storage); err != nil {
		return fmt.Errorf("failed to insert storage configs: %w", err)
	}

	for _, controller := range configData.Controllers {
		if err := s.insertController(tx, configID, &controller); err != nil {
			return fmt.Errorf("failed to insert controller %s: %w", controller.Type, err)
		}
	}

	return tx.Commit()
}

// insertConfig returns the id of the named config row, creating it on
// first save. The id stays stable across saves so section rows never
// orphan.
func (s *SQLiteProvider) insertConfig(tx *sql.Tx, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM configs WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	result, err := tx.Exec(`INSERT INTO configs (name, created_at) VALUES (?, datetime('now'))`, name)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteProvider) clearExistingConfig(tx *sql.Tx, configID int64) error {
	queries := []string{
		"DELETE FROM island_configs WHERE config_id = ?",
		"DELETE FROM oracle_configs WHERE config_id = ?",
		"DELETE FROM capture_configs WHERE config_id = ?",
		"DELETE FROM storage_configs WHERE config_id = ?",
		"DELETE FROM controller_configs WHERE config_id = ?",
	}

	for _, query := range queries {
		if _, err := tx.Exec(query, configID); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteProvider) insertIsland(tx *sql.Tx, configID int64, island *IslandData) error {
	query := `INSERT INTO island_configs (config_id, name, hemisphere, seed) VALUES (?, ?, ?, ?)`

	var name sql.NullString
	if island.Name != "" {
		name = sql.NullString{String: island.Name, Valid: true}
	}

	_, err := tx.Exec(query, configID, name, island.Hemisphere, island.Seed)
	return err
}

func (s *SQLiteProvider) insertOracle(tx *sql.Tx, configID int64, oracle *OracleData) error {
	query := `INSERT INTO oracle_configs (config_id, endpoint, timeout_seconds, disable_cache) VALUES (?, ?, ?, ?)`

	var timeoutSeconds sql.NullInt64
	if oracle.TimeoutSeconds != 0 {
		timeoutSeconds = sql.NullInt64{Int64: int64(oracle.TimeoutSeconds), Valid: true}
	}

	_, err := tx.Exec(query, configID, oracle.Endpoint, timeoutSeconds, oracle.DisableCache)
	return err
}

func (s *SQLiteProvider) insertCapture(tx *sql.Tx, configID int64, capture *CaptureData) error {
	query := `INSERT INTO capture_configs (config_id, name, listen_addr, port) VALUES (?, ?, ?, ?)`

	var listenAddr sql.NullString
	if capture.ListenAddr != "" {
		listenAddr = sql.NullString{String: capture.ListenAddr, Valid: true}
	}

	_, err := tx.Exec(query, configID, capture.Name, listenAddr, capture.Port)
	return err
}

func (s *SQLiteProvider) insertStorageConfigs(tx *sql.Tx, configID int64, storage *StorageData) error {
	if storage.TimescaleDB == nil || storage.TimescaleDB.ConnectionString == "" {
		return nil
	}

	query := `
		INSERT INTO storage_configs (config_id, backend_type, enabled, timescale_connection_string)
		VALUES (?, 'timescaledb', 1, ?)
	`
	_, err := tx.Exec(query, configID, storage.TimescaleDB.ConnectionString)
	return err
}

func (s *SQLiteProvider) insertController(tx *sql.Tx, configID int64, controller *ControllerData) error {
	switch controller.Type {
	case "rest", "restserver":
		if controller.RESTServer == nil {
			return fmt.Errorf("rest controller has no rest section")
		}
		rest := controller.RESTServer
		query := `
			INSERT INTO controller_configs (
				config_id, controller_type, enabled,
				rest_cert, rest_key, rest_port, rest_listen_addr,
				rest_rate_limit, rest_rate_burst, rest_enable_cors
			) VALUES (?, 'rest', 1, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.Exec(query, configID,
			nullString(rest.Cert), nullString(rest.Key),
			nullInt(rest.Port), nullString(rest.ListenAddr),
			nullFloat(rest.RateLimit), nullInt(rest.RateBurst), rest.EnableCORS)
		return err
	default:
		return fmt.Errorf("unknown controller type: %s", controller.Type)
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(i), Valid: i != 0}
}

func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: f != 0}
}

// IsReadOnly returns false since SQLite configurations can be modified
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
