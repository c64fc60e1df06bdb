package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arwiki/internal/arwiki"
)

const validYAML = `default_network: mainnet
preferences_path: prefs.yaml
networks:
  - name: mainnet
    host: arweave.net
    port: 443
    protocol: https
    use_gateway: true
    contract_address: token-contract
    contracts:
      languages: langs-contract
      admins: admins-contract
      categories: cats-contract
  - name: localhost
    host: 127.0.0.1
    port: 1984
    protocol: http
    use_gateway: false
    contract_address: arwiki-token
    dev_database: dev.db
    contracts:
      languages: arwiki-languages
      admins: arwiki-admins
      categories: arwiki-categories
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeFile(t, "arwiki.yaml", validYAML)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mainnet", cfg.DefaultNetwork)
	require.Len(t, cfg.Networks, 2)

	main, ok := cfg.Network("mainnet")
	require.True(t, ok)
	assert.Equal(t, "https://arweave.net:443", main.BaseURL())
	assert.False(t, main.IsLoopback())
	assert.Equal(t, "langs-contract", main.Contracts.Languages)

	local, ok := cfg.Network("localhost")
	require.True(t, ok)
	assert.True(t, local.IsLoopback())
	assert.Equal(t, filepath.Join(filepath.Dir(path), "dev.db"), local.DevDatabase)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "prefs.yaml"), cfg.PreferencesPath)
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Validate(Default()))
}

func TestLoad_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantMsg string
	}{
		{"bad protocol", func(c *Config) { c.Networks[0].Protocol = "ftp" }, "protocol"},
		{"port out of range", func(c *Config) { c.Networks[0].Port = 70000 }, "port"},
		{"empty host", func(c *Config) { c.Networks[0].Host = "" }, "host"},
		{"missing contract", func(c *Config) { c.Networks[0].Contracts.Admins = "" }, "admins"},
		{"unknown default", func(c *Config) { c.DefaultNetwork = "testnet" }, "testnet"},
		{"duplicate name", func(c *Config) { c.Networks = append(c.Networks, c.Networks[0]) }, "duplicate"},
		{"loopback without db", func(c *Config) { c.Networks[0].DevDatabase = "" }, "dev_database"},
		{"no networks", func(c *Config) { c.Networks = nil }, "networks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, arwiki.IsKind(err, arwiki.KindInvalidInput))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	path := writeFile(t, "arwiki.yaml", "default_network: x\nnetwork: []\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, arwiki.IsKind(err, arwiki.KindInvalidInput))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

type stubPrefs string

func (s stubPrefs) DefaultNetwork() string { return string(s) }

func TestSelectNetwork(t *testing.T) {
	cfg, err := Load(writeFile(t, "arwiki.yaml", validYAML))
	require.NoError(t, err)

	n, err := SelectNetwork(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "mainnet", n.Name)

	n, err = SelectNetwork(cfg, stubPrefs(""))
	require.NoError(t, err)
	assert.Equal(t, "mainnet", n.Name)

	n, err = SelectNetwork(cfg, stubPrefs("localhost"))
	require.NoError(t, err)
	assert.Equal(t, "localhost", n.Name)

	_, err = SelectNetwork(cfg, stubPrefs("testnet"))
	assert.True(t, arwiki.IsKind(err, arwiki.KindInvalidInput))
}

func TestPreferencesFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")

	p, err := LoadPreferences(path)
	require.NoError(t, err)
	assert.Equal(t, "", p.DefaultLanguage())
	assert.Equal(t, "", p.DefaultNetwork())

	require.NoError(t, p.SetDefaultLanguage(arwiki.LanguageEntry{
		Code: "es", Active: true, WritingSystem: arwiki.LTR, NativeName: "Espanol",
	}))
	require.NoError(t, p.SetDefaultNetwork("localhost"))

	reloaded, err := LoadPreferences(path)
	require.NoError(t, err)
	assert.Equal(t, "es", reloaded.DefaultLanguage())
	assert.Equal(t, "localhost", reloaded.DefaultNetwork())
}

func TestPreferencesFile_Malformed(t *testing.T) {
	path := writeFile(t, "prefs.yaml", "default_language: [")
	_, err := LoadPreferences(path)
	assert.Error(t, err)
}
