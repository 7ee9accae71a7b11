package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	survey "github.com/AlecAivazis/survey/v2"
	"github.com/opsforge/vcadmin/pkg/vcenter"
	"gopkg.in/yaml.v3"
)

// connectionConfig holds the vCenter connection settings loaded from the
// --config YAML file, overridable via VCADMIN_* environment variables.
type connectionConfig struct {
	Host       string `yaml:"host"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	Port       int    `yaml:"port"`
	Insecure   bool   `yaml:"insecure"`
	Datacenter string `yaml:"datacenter"`
}

func loadConnectionConfig(path string) (*connectionConfig, error) {
	var cfg connectionConfig

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, &userError{
				msg:  fmt.Sprintf("invalid connection config %s: %v", path, err),
				hint: "The file must be YAML with host/username/password keys",
			}
		}
	case os.IsNotExist(err):
		// Environment variables alone may be enough.
	default:
		return nil, fmt.Errorf("failed to read connection config: %w", err)
	}

	cfg.applyEnv()

	if cfg.Host == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, &userError{
			msg:  "vCenter connection is not configured",
			hint: "Set host/username/password in " + path + " or via VCADMIN_HOST, VCADMIN_USERNAME, VCADMIN_PASSWORD",
		}
	}
	return &cfg, nil
}

func (c *connectionConfig) applyEnv() {
	if v := os.Getenv("VCADMIN_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("VCADMIN_USERNAME"); v != "" {
		c.Username = v
	}
	if v := os.Getenv("VCADMIN_PASSWORD"); v != "" {
		c.Password = v
	}
	if v := os.Getenv("VCADMIN_DATACENTER"); v != "" {
		c.Datacenter = v
	}
	if v := os.Getenv("VCADMIN_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("VCADMIN_INSECURE"); v != "" {
		if insecure, err := strconv.ParseBool(v); err == nil {
			c.Insecure = insecure
		}
	}
}

// datacenterName resolves the effective datacenter: the --datacenter flag
// wins over the config file; empty means the connection's only datacenter.
func (c *connectionConfig) datacenterName() string {
	if flagDatacenter != "" {
		return flagDatacenter
	}
	return c.Datacenter
}

// connect loads the connection config and opens a vCenter session.
// Callers must Disconnect the returned client.
func connect(ctx context.Context) (*vcenter.Client, *connectionConfig, error) {
	cfg, err := loadConnectionConfig(connectionConfigFile)
	if err != nil {
		return nil, nil, err
	}

	client, err := vcenter.NewClient(ctx, &vcenter.Config{
		Host:     cfg.Host,
		Username: cfg.Username,
		Password: cfg.Password,
		Port:     cfg.Port,
		Insecure: cfg.Insecure,
	})
	if err != nil {
		return nil, nil, &userError{
			msg:  fmt.Sprintf("cannot connect to vCenter %s: %v", cfg.Host, err),
			hint: "Check host, credentials and network reachability",
		}
	}

	logger.Info("Connected to vCenter", "vcenter", cfg.Host)
	return client, cfg, nil
}

// confirm asks before a destructive operation unless --yes was given.
func confirm(message string) bool {
	if assumeYes {
		return true
	}
	answer := false
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: false}, &answer); err != nil {
		return false
	}
	return answer
}
