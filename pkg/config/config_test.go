package config

import (
	"os"
	"path/filepath"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
engine:
  ayanamsa: raman
  nakshatra_scheme: 28
  boundary:
    step_minutes: 30
locations:
  - name: Ujjain
    latitude: 23.18
    longitude: 75.78
    altitude: 490
    timezone: Asia/Kolkata
  - name: Varanasi
    latitude: 25.32
    longitude: 83.01
    timezone: Asia/Kolkata
rules:
  source: yaml
  path: /etc/panchanga/yogas.yaml
`

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "lahiri", cfg.Engine.Ayanamsa)
	assert.Equal(t, "meeus", cfg.Engine.Ephemeris)
	assert.Equal(t, 27, cfg.Engine.NakshatraScheme)
	assert.Equal(t, "sunrise", cfg.Engine.Reference)
	assert.Equal(t, 60, cfg.Engine.Boundary.StepMinutes)
	assert.Equal(t, 30, cfg.Engine.Boundary.ToleranceSeconds)
	assert.Equal(t, 5, cfg.Engine.Boundary.HorizonDays)
	assert.Equal(t, 4000, cfg.Engine.Boundary.MaxIterations)
	assert.Equal(t, 4, cfg.Engine.Concurrency)
	assert.Equal(t, "builtin", cfg.Rules.Source)
	assert.NoError(t, Finalize(cfg))
}

func TestYAMLProvider(t *testing.T) {
	p := NewYAMLProvider(writeFile(t, "panchanga.yaml", sampleYAML))
	defer p.Close()
	assert.True(t, p.IsReadOnly())

	engine, err := p.GetEngine()
	require.NoError(t, err)
	assert.Equal(t, "raman", engine.Ayanamsa)
	assert.Equal(t, 28, engine.NakshatraScheme)
	assert.Equal(t, 30, engine.Boundary.StepMinutes)
	assert.Equal(t, 30, engine.Boundary.ToleranceSeconds, "unset fields take defaults")
	assert.Equal(t, "meeus", engine.Ephemeris)

	locations, err := p.GetLocations()
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, 490.0, locations[0].Altitude)

	rules, err := p.GetRules()
	require.NoError(t, err)
	assert.Equal(t, "yaml", rules.Source)

	cfg, err := p.LoadConfig()
	require.NoError(t, err)
	l, ok := cfg.Location("varanasi")
	require.True(t, ok)
	assert.Equal(t, 83.01, l.Longitude)
	_, ok = cfg.Location("Kashi")
	assert.False(t, ok)
}

func TestYAMLProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad scheme", "engine:\n  nakshatra_scheme: 30\n", "NakshatraScheme"},
		{"bad latitude", "locations:\n  - {name: x, latitude: 91, longitude: 0, timezone: UTC}\n", "Latitude"},
		{"bad zone", "locations:\n  - {name: x, latitude: 1, longitude: 0, timezone: Mars/Olympus}\n", "IANA"},
		{"missing rules path", "rules:\n  source: sqlite\n", "Path"},
		{"unknown key", "engine:\n  ayanamsha: lahiri\n", "ayanamsha"},
		{"duplicate location", "locations:\n  - {name: x, latitude: 1, longitude: 0, timezone: UTC}\n  - {name: x, latitude: 2, longitude: 0, timezone: UTC}\n", "duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml")).LoadConfig()
	assert.True(t, os.IsNotExist(err))
}

func TestSQLiteProvider(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "config.db")
	p, err := NewSQLiteProvider(dbPath)
	require.NoError(t, err)
	defer p.Close()
	require.NoError(t, p.Migrate(nil))
	assert.False(t, p.IsReadOnly())
	assert.Equal(t, dbPath, p.Path())

	// An empty database yields defaults.
	cfg, err := p.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	src, err := ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)
	require.NoError(t, p.SaveConfig(src))

	got, err := p.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, src, got)

	// Saving twice replaces rather than appends.
	require.NoError(t, p.SaveConfig(src))
	locations, err := p.GetLocations()
	require.NoError(t, err)
	assert.Len(t, locations, 2)

	require.NoError(t, p.AddLocation(&LocationData{Name: "Puri", Latitude: 19.8, Longitude: 85.83, TimeZone: "Asia/Kolkata"}))
	assert.Error(t, p.AddLocation(&LocationData{Name: "Nowhere", Latitude: 100, TimeZone: "UTC"}))

	locations, err = p.GetLocations()
	require.NoError(t, err)
	require.Len(t, locations, 3)
	assert.Equal(t, "Puri", locations[0].Name)

	require.NoError(t, p.DeleteLocation("Puri"))
	assert.Error(t, p.DeleteLocation("Puri"))

	// Migrating again is a no-op.
	require.NoError(t, p.Migrate(nil))
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider("yaml", "x.yaml")
	require.NoError(t, err)
	assert.IsType(t, &YAMLProvider{}, p)

	p, err = NewProvider("sqlite", filepath.Join(t.TempDir(), "c.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteProvider{}, p)
	p.Close()

	_, err = NewProvider("etcd", "")
	assert.Error(t, err)
}
