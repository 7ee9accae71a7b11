// Package configs provides library defaults loaded from an embedded YAML file.
// All hardcoded values live in defaults.yaml.
package configs

import (
	_ "embed"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Defaults holds all library default values (loaded from defaults.yaml at startup).
var Defaults LibDefaults

func init() {
	if err := yaml.Unmarshal(defaultsYAML, &Defaults); err != nil {
		panic("vcadmin: invalid defaults.yaml: " + err.Error())
	}
}

// LibDefaults holds all configurable library defaults.
type LibDefaults struct {
	VCenter VCenterDefaults `yaml:"vcenter"`
	VM      VMDefaults      `yaml:"vm"`
	Tasks   TaskDefaults    `yaml:"tasks"`
	Report  ReportDefaults  `yaml:"report"`
}

// VCenterDefaults holds vCenter connection defaults.
type VCenterDefaults struct {
	Port int `yaml:"port"`
}

// VMDefaults holds VM hardware defaults.
type VMDefaults struct {
	CPUs     int32  `yaml:"cpus"`
	MemoryMB int64  `yaml:"memory_mb"`
	GuestOS  string `yaml:"guest_os"`
}

// TaskDefaults holds task polling and wait budget values.
type TaskDefaults struct {
	PollIntervalMS     int `yaml:"poll_interval_ms"`
	MaxIntervalSeconds int `yaml:"max_interval_seconds"`
	WaitTimeoutMinutes int `yaml:"wait_timeout_minutes"`
}

// As time.Duration convenience methods.

func (t TaskDefaults) PollInterval() time.Duration {
	return time.Duration(t.PollIntervalMS) * time.Millisecond
}
func (t TaskDefaults) MaxInterval() time.Duration {
	return time.Duration(t.MaxIntervalSeconds) * time.Second
}
func (t TaskDefaults) WaitTimeout() time.Duration {
	return time.Duration(t.WaitTimeoutMinutes) * time.Minute
}

// ReportDefaults holds inventory report defaults.
type ReportDefaults struct {
	MaxEvents int `yaml:"max_events"`
}
