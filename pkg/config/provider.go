package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetIsland() (*IslandData, error)
	GetOracle() (*OracleData, error)
	GetCaptures() ([]CaptureData, error)
	GetStorageConfig() (*StorageData, error)
	GetControllers() ([]ControllerData, error)

	// Configuration management (for SQLite-specific operations)
	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Island      IslandData       `json:"island"`
	Oracle      OracleData       `json:"oracle"`
	Captures    []CaptureData    `json:"captures,omitempty"`
	Storage     StorageData      `json:"storage,omitempty"`
	Controllers []ControllerData `json:"controllers,omitempty"`
}

// IslandData identifies the island whose sky is being solved. Hemisphere
// is parsed with weather.ParseHemisphere at the point of use.
type IslandData struct {
	Name       string `json:"name,omitempty"`
	Hemisphere string `json:"hemisphere"`
	Seed       uint32 `json:"seed"`
}

// OracleData configures the connection to the weather simulator service.
type OracleData struct {
	Endpoint       string `json:"endpoint"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	DisableCache   bool   `json:"disable_cache,omitempty"`
}

// CaptureData configures one TCP ingest listener for capture agents.
type CaptureData struct {
	Name       string `json:"name"`
	ListenAddr string `json:"listen_addr,omitempty"`
	Port       int    `json:"port"`
}

// StorageData holds the configuration for various storage backends
type StorageData struct {
	TimescaleDB *TimescaleDBData `json:"timescaledb,omitempty"`
}

type TimescaleDBData struct {
	ConnectionString string `json:"connection_string"`
}

// ControllerData holds the configuration for various controller backends
type ControllerData struct {
	Type       string          `json:"type,omitempty"`
	RESTServer *RESTServerData `json:"rest,omitempty"`
}

type RESTServerData struct {
	Cert       string  `json:"cert,omitempty"`
	Key        string  `json:"key,omitempty"`
	Port       int     `json:"port,omitempty"`
	ListenAddr string  `json:"listen_addr,omitempty"`
	RateLimit  float64 `json:"rate_limit,omitempty"`
	RateBurst  int     `json:"rate_burst,omitempty"`
	EnableCORS bool    `json:"enable_cors,omitempty"`
}
