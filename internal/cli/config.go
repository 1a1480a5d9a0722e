package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type Config struct {
	PolicyURI   string `yaml:"policy_uri"     mapstructure:"policy_uri"`
	BatchURI    string `yaml:"batch_policy_uri" mapstructure:"batch_policy_uri"`
	FGAEndpoint string `yaml:"fga_endpoint"   mapstructure:"fga_endpoint"`
	FGAStoreID  string `yaml:"fga_store_id"   mapstructure:"fga_store_id"`
}

func ensureDir(p string) error { return os.MkdirAll(p, 0o755) }

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".opabridge"), nil
}

func loadConfig(path string) (*Config, error) {
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.yaml")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("policy_uri", "http://localhost:8181/v1/data/trino/allow")
	v.SetDefault("batch_policy_uri", "http://localhost:8181/v1/data/trino/batch")
	v.SetDefault("fga_endpoint", "")
	v.SetDefault("fga_store_id", "")

	// Env overrides: OPABRIDGE_POLICY_URI, OPABRIDGE_FGA_ENDPOINT, etc.
	v.SetEnvPrefix("OPABRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Read file if it exists, otherwise return defaults without error
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// resolveEndpoints merges the config file with explicit flag overrides.
// A flag set on the command line always wins over the file.
func resolveEndpoints(cmd *cobra.Command) (policy, batch string, err error) {
	c, err := loadConfig(cfgPath)
	if err != nil {
		return "", "", err
	}
	policy, batch = c.PolicyURI, c.BatchURI
	if cmd.Flags().Changed("policy-uri") {
		policy = policyURI
	}
	if cmd.Flags().Changed("batch-uri") {
		batch = batchURI
	}
	return policy, batch, nil
}

func saveConfig(path string, c *Config) error {
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("policy_uri", c.PolicyURI)
	v.Set("batch_policy_uri", c.BatchURI)
	v.Set("fga_endpoint", c.FGAEndpoint)
	v.Set("fga_store_id", c.FGAStoreID)

	if err := v.WriteConfigAs(path); err != nil {
		return err
	}

	// Restrict perms to owner
	_ = os.Chmod(path, 0o600)
	return nil
}
