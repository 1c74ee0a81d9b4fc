package config

import (
	"fmt"
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

	config, err := ParseYAML(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", y.filename, err)
	}

	y.config = config
	return config, nil
}

// ParseYAML decodes and finalizes a YAML document. Unknown keys are
// rejected.
func ParseYAML(data []byte) (*ConfigData, error) {
	config := &ConfigData{}
	if err := yaml.UnmarshalStrict(data, config); err != nil {
		return nil, err
	}
	if err := Finalize(config); err != nil {
		return nil, err
	}
	return config, nil
}

func (y *YAMLProvider) loaded() (*ConfigData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return y.config, nil
}

// GetEngine returns engine settings
func (y *YAMLProvider) GetEngine() (*EngineData, error) {
	config, err := y.loaded()
	if err != nil {
		return nil, err
	}
	return &config.Engine, nil
}

// GetLocations returns the configured locations
func (y *YAMLProvider) GetLocations() ([]LocationData, error) {
	config, err := y.loaded()
	if err != nil {
		return nil, err
	}
	return config.Locations, nil
}

// GetRules returns the yoga rule source
func (y *YAMLProvider) GetRules() (*RulesData, error) {
	config, err := y.loaded()
	if err != nil {
		return nil, err
	}
	return &config.Rules, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}
