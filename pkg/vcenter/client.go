// Package vcenter provides a wrapper around the govmomi library for vCenter operations.
package vcenter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/opsforge/vcadmin/configs"
	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/find"
	"github.com/vmware/govmomi/object"
)

// Client wraps a govmomi client and provides high-level vCenter operations.
// It is an explicit session handle: callers create one per connection and
// pass it down instead of sharing ambient global state. Methods are safe
// for concurrent use: every lookup builds its own finder instead of
// mutating shared datacenter state.
type Client struct {
	conn *govmomi.Client
	ctx  context.Context
}

// Config holds vCenter connection parameters.
type Config struct {
	Host     string // vCenter hostname or IP
	Username string // vCenter username
	Password string // vCenter password
	Port     int    // vCenter port (default: 443)
	Insecure bool   // Skip TLS verification (not recommended for production)
}

// NewClient creates a new vCenter client and connects to the vCenter server.
// Returns an error if connection fails.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if cfg.Port == 0 {
		cfg.Port = configs.Defaults.VCenter.Port
	}

	var vcURL *url.URL
	if strings.Contains(cfg.Host, "://") {
		parsed, err := url.Parse(cfg.Host)
		if err != nil {
			return nil, fmt.Errorf("invalid vCenter URL %q: %w", cfg.Host, err)
		}
		if parsed.Scheme == "" {
			parsed.Scheme = "https"
		}
		if parsed.Scheme != "https" {
			return nil, fmt.Errorf("unsupported vCenter URL scheme %q (https required)", parsed.Scheme)
		}
		if parsed.Path == "" {
			parsed.Path = "/sdk"
		}
		if parsed.Host == "" {
			return nil, fmt.Errorf("invalid vCenter URL (missing host): %q", cfg.Host)
		}
		if parsed.Port() == "" && cfg.Port != 0 {
			parsed.Host = fmt.Sprintf("%s:%d", parsed.Hostname(), cfg.Port)
		}
		vcURL = parsed
	} else {
		// Build vCenter URL from host + port
		vcURL = &url.URL{
			Scheme: "https",
			Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Path:   "/sdk",
		}
	}
	vcURL.User = url.UserPassword(cfg.Username, cfg.Password)

	// Connect to vCenter
	client, err := govmomi.NewClient(ctx, vcURL, cfg.Insecure)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vCenter: %w", err)
	}

	return &Client{
		conn: client,
		ctx:  ctx,
	}, nil
}

// Disconnect closes the vCenter connection.
func (c *Client) Disconnect() error {
	if c.conn != nil {
		return c.conn.Logout(c.ctx)
	}
	return nil
}

// finderFor builds a finder scoped to the named datacenter. An empty name
// selects the default datacenter, which covers single-datacenter
// installations. Each call gets its own finder: find.Finder is not safe
// for concurrent use, so scoping must never mutate shared state.
func (c *Client) finderFor(datacenter string) (*find.Finder, *object.Datacenter, error) {
	finder := find.NewFinder(c.conn.Client, true)

	var dc *object.Datacenter
	var err error
	if datacenter == "" {
		dc, err = finder.DefaultDatacenter(c.ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("default datacenter not found: %w", err)
		}
	} else {
		dc, err = finder.Datacenter(c.ctx, datacenter)
		if err != nil {
			return nil, nil, fmt.Errorf("datacenter %q not found: %w", datacenter, err)
		}
	}

	finder.SetDatacenter(dc)
	return finder, dc, nil
}

// FindDatacenter locates a datacenter by name. An empty name selects the
// default datacenter.
func (c *Client) FindDatacenter(name string) (*object.Datacenter, error) {
	_, dc, err := c.finderFor(name)
	return dc, err
}

// FindDatastore locates a datastore by name within a datacenter.
// An empty name selects the default (first) datastore.
func (c *Client) FindDatastore(datacenter, name string) (*object.Datastore, error) {
	finder, _, err := c.finderFor(datacenter)
	if err != nil {
		return nil, err
	}

	if name == "" {
		ds, err := finder.DefaultDatastore(c.ctx)
		if err != nil {
			return nil, fmt.Errorf("no datastore found: %w", err)
		}
		return ds, nil
	}
	ds, err := finder.Datastore(c.ctx, name)
	if err != nil {
		return nil, fmt.Errorf("datastore %q not found: %w", name, err)
	}
	return ds, nil
}

// FindFolder locates a VM folder by path within a datacenter. An empty
// path selects the datacenter's root VM folder.
// Path format: "/DC1/vm/Production/WebServers" or relative "Production/WebServers"
func (c *Client) FindFolder(datacenter, path string) (*object.Folder, error) {
	finder, _, err := c.finderFor(datacenter)
	if err != nil {
		return nil, err
	}

	if path == "" {
		folder, err := finder.DefaultFolder(c.ctx)
		if err != nil {
			return nil, fmt.Errorf("default VM folder not found: %w", err)
		}
		return folder, nil
	}
	folder, err := finder.Folder(c.ctx, path)
	if err != nil {
		return nil, fmt.Errorf("folder %q not found: %w", path, err)
	}
	return folder, nil
}

// FindResourcePool locates a resource pool by path within a datacenter.
// An empty path selects the default resource pool.
// Path format: "/DC1/host/Cluster/Resources/Pool" or relative "Pool"
func (c *Client) FindResourcePool(datacenter, path string) (*object.ResourcePool, error) {
	finder, _, err := c.finderFor(datacenter)
	if err != nil {
		return nil, err
	}

	if path == "" {
		pool, err := finder.DefaultResourcePool(c.ctx)
		if err != nil {
			return nil, fmt.Errorf("default resource pool not found: %w", err)
		}
		return pool, nil
	}
	pool, err := finder.ResourcePool(c.ctx, path)
	if err != nil {
		return nil, fmt.Errorf("resource pool %q not found: %w", path, err)
	}
	return pool, nil
}

// FindVM locates a virtual machine by name within a datacenter.
// Returns nil if VM doesn't exist (no error).
func (c *Client) FindVM(datacenter, name string) (*object.VirtualMachine, error) {
	finder, _, err := c.finderFor(datacenter)
	if err != nil {
		return nil, err
	}

	vm, err := finder.VirtualMachine(c.ctx, name)
	if err != nil {
		// VM not found is not an error for idempotency checks
		if _, ok := err.(*find.NotFoundError); ok {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find VM %q: %w", name, err)
	}
	return vm, nil
}

// Client returns the underlying govmomi client for advanced operations.
func (c *Client) Client() *govmomi.Client {
	return c.conn
}
