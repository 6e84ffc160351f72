package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Island      IslandYAML       `yaml:"island"`
		Oracle      OracleYAML       `yaml:"oracle"`
		Captures    []CaptureYAML    `yaml:"captures,omitempty"`
		Storage     StorageYAML      `yaml:"storage,omitempty"`
		Controllers []ControllerYAML `yaml:"controllers,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	// Convert to our internal format
	config := &ConfigData{
		Island: IslandData{
			Name:       yamlConfig.Island.Name,
			Hemisphere: yamlConfig.Island.Hemisphere,
			Seed:       yamlConfig.Island.Seed,
		},
		Oracle: OracleData{
			Endpoint:       yamlConfig.Oracle.Endpoint,
			TimeoutSeconds: yamlConfig.Oracle.TimeoutSeconds,
			DisableCache:   yamlConfig.Oracle.DisableCache,
		},
		Captures:    make([]CaptureData, len(yamlConfig.Captures)),
		Controllers: make([]ControllerData, len(yamlConfig.Controllers)),
	}

	for i, capture := range yamlConfig.Captures {
		config.Captures[i] = CaptureData{
			Name:       capture.Name,
			ListenAddr: capture.ListenAddr,
			Port:       capture.Port,
		}
	}

	config.Storage = StorageData{}
	if yamlConfig.Storage.TimescaleDB != nil {
		config.Storage.TimescaleDB = &TimescaleDBData{
			ConnectionString: yamlConfig.Storage.TimescaleDB.ConnectionString,
		}
	}

	for i, controller := range yamlConfig.Controllers {
		config.Controllers[i] = ControllerData{
			Type: controller.Type,
		}

		if controller.RESTServer != nil {
			config.Controllers[i].RESTServer = &RESTServerData{
				Cert:       controller.RESTServer.Cert,
				Key:        controller.RESTServer.Key,
				Port:       controller.RESTServer.Port,
				ListenAddr: controller.RESTServer.ListenAddr,
				RateLimit:  controller.RESTServer.RateLimit,
				RateBurst:  controller.RESTServer.RateBurst,
				EnableCORS: controller.RESTServer.EnableCORS,
			}
		}
	}

	y.config = config
	return config, nil
}

// GetIsland returns the island configuration
func (y *YAMLProvider) GetIsland() (*IslandData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Island, nil
}

// GetOracle returns the oracle connection configuration
func (y *YAMLProvider) GetOracle() (*OracleData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Oracle, nil
}

// GetCaptures returns capture listener configurations
func (y *YAMLProvider) GetCaptures() ([]CaptureData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return y.config.Captures, nil
}

// GetStorageConfig returns storage configuration
func (y *YAMLProvider) GetStorageConfig() (*StorageData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return &y.config.Storage, nil
}

// GetControllers returns controller configurations
func (y *YAMLProvider) GetControllers() ([]ControllerData, error) {
	if y.config == nil {
		_, err := y.LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	return y.config.Controllers, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs with proper YAML tags for parsing the on-disk format
type IslandYAML struct {
	Name       string `yaml:"name,omitempty"`
	Hemisphere string `yaml:"hemisphere"`
	Seed       uint32 `yaml:"seed"`
}

type OracleYAML struct {
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout-seconds,omitempty"`
	DisableCache   bool   `yaml:"disable-cache,omitempty"`
}

type CaptureYAML struct {
	Name       string `yaml:"name"`
	ListenAddr string `yaml:"listen-addr,omitempty"`
	Port       int    `yaml:"port"`
}

type StorageYAML struct {
	TimescaleDB *TimescaleDBYAML `yaml:"timescaledb,omitempty"`
}

type TimescaleDBYAML struct {
	ConnectionString string `yaml:"connection-string"`
}

type ControllerYAML struct {
	Type       string          `yaml:"type,omitempty"`
	RESTServer *RESTServerYAML `yaml:"rest,omitempty"`
}

type RESTServerYAML struct {
	Cert       string  `yaml:"cert,omitempty"`
	Key        string  `yaml:"key,omitempty"`
	Port       int     `yaml:"port,omitempty"`
	ListenAddr string  `yaml:"listen-addr,omitempty"`
	RateLimit  float64 `yaml:"rate-limit,omitempty"`
	RateBurst  int     `yaml:"rate-burst,omitempty"`
	EnableCORS bool    `yaml:"enable-cors,omitempty"`
}
