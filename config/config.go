package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/tranvictor/ensgraph/ens"
	"github.com/tranvictor/ensgraph/util/cache"
)

const (
	ETHEREUM_MAINNET_NODE_VAR string = "ETHEREUM_MAINNET_NODE"
	SUPABASE_URL_VAR          string = "SUPABASE_URL"
	SUPABASE_ANON_KEY_VAR     string = "SUPABASE_ANON_KEY"
	POSTGRES_DSN_VAR          string = "ENSGRAPH_POSTGRES_DSN"
)

// Values bound to the root command's persistent flags.
var (
	ConfigPath string
	Endpoint   string
	LogLevel   string
)

func DefaultConfigPath() string {
	return cache.DefaultPath("config.yaml")
}

type Lookups struct {
	Owner         bool `yaml:"owner"`
	ContentHash   bool `yaml:"content_hash"`
	TextRecords   bool `yaml:"text_records"`
	CoinAddresses bool `yaml:"coin_addresses"`
	Expiry        bool `yaml:"expiry"`
}

type Storage struct {
	Backend string `yaml:"backend" validate:"oneof=file sqlite"`
	Path    string `yaml:"path" validate:"required"`
}

type Remote struct {
	Backend     string `yaml:"backend" validate:"oneof=none supabase postgres"`
	SupabaseURL string `yaml:"supabase_url" validate:"required_if=Backend supabase"`
	SupabaseKey string `yaml:"supabase_key" validate:"required_if=Backend supabase"`
	PostgresDSN string `yaml:"postgres_dsn" validate:"required_if=Backend postgres"`
}

type Log struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

type Server struct {
	Addr        string   `yaml:"addr" validate:"required"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type Config struct {
	// EndpointURL is the JSON-RPC node to query. When set, Nodes are
	// ignored. A nodes key in a file replaces the default nodes.
	EndpointURL string            `yaml:"endpoint_url" validate:"omitempty,url"`
	Nodes       map[string]string `yaml:"nodes" validate:"dive,url"`
	Registry    string            `yaml:"registry" validate:"eth_addr"`
	Registrar   string            `yaml:"registrar" validate:"eth_addr"`
	Timeout     time.Duration     `yaml:"timeout"`
	Concurrency int               `yaml:"concurrency" validate:"min=1,max=64"`
	GatedSuffix string            `yaml:"gated_suffix"`
	TextKeys    []string          `yaml:"text_keys" validate:"dive,required"`
	Lookups     Lookups           `yaml:"lookups"`
	Storage     Storage           `yaml:"storage"`
	Remote      Remote            `yaml:"remote"`
	Log         Log               `yaml:"log"`
	Server      Server            `yaml:"server"`

	// AddressLabels names addresses shown in profiles, keyed by hex
	// address.
	AddressLabels map[string]string `yaml:"address_labels,omitempty"`
}

func Default() Config {
	return Config{
		Nodes: map[string]string{
			"mainnet-publicnode": "https://ethereum-rpc.publicnode.com",
			"mainnet-llamarpc":   "https://eth.llamarpc.com",
		},
		Registry:    ens.RegistryAddress.Hex(),
		Registrar:   ens.RegistrarAddress.Hex(),
		Timeout:     4 * time.Second,
		Concurrency: 8,
		GatedSuffix: ens.GatedSuffix,
		TextKeys:    append([]string{}, ens.TextKeys...),
		Lookups: Lookups{
			Owner:         true,
			ContentHash:   true,
			TextRecords:   true,
			CoinAddresses: true,
			Expiry:        true,
		},
		Storage: Storage{
			Backend: "file",
			Path:    cache.DefaultPath("edges.json"),
		},
		Remote: Remote{Backend: "none"},
		Log:    Log{Level: "warn"},
		Server: Server{Addr: ":8080"},
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
// Environment variables are applied afterwards.
func Load(path string) (Config, error) {
	cfg := Default()
	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	default:
		var keys map[string]yaml.Node
		if err := yaml.Unmarshal(content, &keys); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
		if _, ok := keys["nodes"]; ok {
			cfg.Nodes = nil
		}
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// ApplyEnv overrides values with non empty environment variables. Setting
// Supabase or Postgres credentials selects that remote backend when none is
// configured.
func (c *Config) ApplyEnv(getenv func(string) string) {
	env := func(name string) string {
		return strings.TrimSpace(getenv(name))
	}
	if v := env(ETHEREUM_MAINNET_NODE_VAR); v != "" {
		c.EndpointURL = v
	}
	if v := env(SUPABASE_URL_VAR); v != "" {
		c.Remote.SupabaseURL = v
	}
	if v := env(SUPABASE_ANON_KEY_VAR); v != "" {
		c.Remote.SupabaseKey = v
	}
	if v := env(POSTGRES_DSN_VAR); v != "" {
		c.Remote.PostgresDSN = v
	}
	if c.Remote.Backend == "none" || c.Remote.Backend == "" {
		switch {
		case c.Remote.SupabaseURL != "" && c.Remote.SupabaseKey != "":
			c.Remote.Backend = "supabase"
		case c.Remote.PostgresDSN != "":
			c.Remote.Backend = "postgres"
		}
	}
}

// ApplyFlags copies explicitly set flag values over the config.
func (c *Config) ApplyFlags() {
	if Endpoint != "" {
		c.EndpointURL = Endpoint
	}
	if LogLevel != "" {
		c.Log.Level = LogLevel
	}
}

// NodeURLs returns the nodes to query: only "custom-node" when EndpointURL
// is set, Nodes otherwise.
func (c Config) NodeURLs() map[string]string {
	if c.EndpointURL != "" {
		return map[string]string{"custom-node": c.EndpointURL}
	}
	nodes := map[string]string{}
	for name, url := range c.Nodes {
		nodes[name] = url
	}
	return nodes
}

func (c Config) EngineOptions() ens.Options {
	return ens.Options{
		Owner:         c.Lookups.Owner,
		ContentHash:   c.Lookups.ContentHash,
		TextRecords:   c.Lookups.TextRecords,
		CoinAddresses: c.Lookups.CoinAddresses,
		Expiry:        c.Lookups.Expiry,
		TextKeys:      c.TextKeys,
		Coins:         ens.Coins,
		GatedSuffix:   c.GatedSuffix,
		Concurrency:   c.Concurrency,
	}
}

// ProviderFactory dials the configured nodes against the configured ENS
// deployment.
func (c Config) ProviderFactory() ens.ProviderFactory {
	return ens.DialRPC(
		c.NodeURLs(),
		c.Timeout,
		common.HexToAddress(c.Registry),
		common.HexToAddress(c.Registrar),
	)
}

// Write saves the config as YAML, creating parent directories.
func (c Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
