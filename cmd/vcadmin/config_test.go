package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConnectionConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vcenter.yaml")
	data := []byte("host: vc01.lab.local\nusername: admin@vsphere.local\npassword: secret\nport: 8443\ninsecure: true\ndatacenter: DC1\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := loadConnectionConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "vc01.lab.local", cfg.Host)
	assert.Equal(t, "admin@vsphere.local", cfg.Username)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, 8443, cfg.Port)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, "DC1", cfg.Datacenter)
}

func TestLoadConnectionConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vcenter.yaml")
	data := []byte("host: vc01.lab.local\nusername: admin@vsphere.local\npassword: secret\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	t.Setenv("VCADMIN_HOST", "vc02.lab.local")
	t.Setenv("VCADMIN_PORT", "9443")
	t.Setenv("VCADMIN_INSECURE", "true")

	cfg, err := loadConnectionConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "vc02.lab.local", cfg.Host)
	assert.Equal(t, "admin@vsphere.local", cfg.Username)
	assert.Equal(t, 9443, cfg.Port)
	assert.True(t, cfg.Insecure)
}

func TestLoadConnectionConfig_EnvOnly(t *testing.T) {
	t.Setenv("VCADMIN_HOST", "vc03.lab.local")
	t.Setenv("VCADMIN_USERNAME", "ops@vsphere.local")
	t.Setenv("VCADMIN_PASSWORD", "hunter2")

	cfg, err := loadConnectionConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "vc03.lab.local", cfg.Host)
	assert.Equal(t, "ops@vsphere.local", cfg.Username)
	assert.Equal(t, "hunter2", cfg.Password)
}

func TestLoadConnectionConfig_MissingCredentials(t *testing.T) {
	t.Setenv("VCADMIN_HOST", "")
	t.Setenv("VCADMIN_USERNAME", "")
	t.Setenv("VCADMIN_PASSWORD", "")

	_, err := loadConnectionConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	var uerr *userError
	assert.True(t, errors.As(err, &uerr))
}

func TestLoadConnectionConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vcenter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: [broken"), 0o600))

	_, err := loadConnectionConfig(path)
	require.Error(t, err)

	var uerr *userError
	assert.True(t, errors.As(err, &uerr))
}

func TestDatacenterName_FlagWins(t *testing.T) {
	orig := flagDatacenter
	t.Cleanup(func() { flagDatacenter = orig })

	cfg := &connectionConfig{Datacenter: "FromFile"}

	flagDatacenter = ""
	assert.Equal(t, "FromFile", cfg.datacenterName())

	flagDatacenter = "FromFlag"
	assert.Equal(t, "FromFlag", cfg.datacenterName())
}
