// Package daemon holds the server configuration: where to listen, where the
// database lives, the default dropdown registries, the user directory, and
// the per-role column layout.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/lucky0011198/AVR-GARMENT/internal/domain"
)

// Config is the full daemon configuration, loaded from a TOML file.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Registry RegistryConfig `toml:"registry"`
	Users    []UserConfig   `toml:"users"`
	Roles    RolesConfig    `toml:"roles"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig controls where the SQLite file is created.
type DatabaseConfig struct {
	Dir string `toml:"dir"`
}

// RegistryConfig seeds the dropdown registries on first run. Once saved
// state exists the registries live in the store, not here.
type RegistryConfig struct {
	PartyNames []string `toml:"party_names"`
	ItemNames  []string `toml:"item_names"`
	ItemIDs    []string `toml:"item_ids"`
}

// UserConfig is one entry of the user directory.
type UserConfig struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// RolesConfig maps each role to the table columns it may see.
type RolesConfig struct {
	Admin       []string `toml:"admin"`
	Cutting     []string `toml:"cutting"`
	Distributor []string `toml:"distributor"`
}

// Columns returns the column list for a role, or nil for unknown roles.
func (r RolesConfig) Columns(role domain.Role) []string {
	switch role {
	case domain.RoleAdmin:
		return r.Admin
	case domain.RoleCutting:
		return r.Cutting
	case domain.RoleDistributor:
		return r.Distributor
	}
	return nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8990,
		},
		Database: DatabaseConfig{
			Dir: defaultDataDir(),
		},
		Registry: RegistryConfig{
			PartyNames: []string{"Sharma Textiles", "Patel Garments", "Kumar Fabrics"},
			ItemNames:  []string{"Kurti", "Palazzo", "Shirt", "Pant"},
			ItemIDs:    []string{"AVR-101", "AVR-102", "AVR-201"},
		},
		Users: []UserConfig{
			{ID: "1", Name: "user1"},
			{ID: "2", Name: "user2"},
			{ID: "3", Name: "user3"},
		},
		Roles: RolesConfig{
			Admin:       []string{"party_name", "item_id", "item_name", "description", "received", "given_date"},
			Cutting:     []string{"item_id", "item_name", "description", "received", "cutting", "cutting_date", "sizes"},
			Distributor: []string{"item_id", "item_name", "description", "cutting", "sizes", "users"},
		},
	}
}

// LoadConfig reads a TOML config file. A missing file is not an error; the
// defaults are returned so first run needs no setup. Present-but-broken
// files fail loudly instead of silently falling back.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to a TOML file, creating parent
// directories as needed.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".avr-garment"
	}
	return filepath.Join(home, ".avr-garment")
}
