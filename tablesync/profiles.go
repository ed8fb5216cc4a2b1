package tablesync

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/relloyd/dpu/aws/secrets"
	"github.com/relloyd/dpu/config"
	"github.com/relloyd/dpu/rdbms"
)

// ProfileCache resolves logical connection names to profiles, once per name per run.
type ProfileCache struct {
	Registry *config.Registry
	Secrets  secrets.CredentialsGetter
	mu       sync.Mutex
	profiles map[string]rdbms.ConnectionProfile
}

func NewProfileCache(r *config.Registry, s secrets.CredentialsGetter) *ProfileCache {
	return &ProfileCache{Registry: r, Secrets: s, profiles: make(map[string]rdbms.ConnectionProfile)}
}

func (c *ProfileCache) Get(ctx context.Context, name string) (rdbms.ConnectionProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.profiles[name]; ok {
		return p, nil
	}
	conn, err := c.Registry.Lookup(name)
	if err != nil {
		return rdbms.ConnectionProfile{}, err
	}
	creds, err := c.Secrets.GetCredentials(ctx, conn.Secret)
	if err != nil {
		return rdbms.ConnectionProfile{}, errors.Wrapf(err, "error fetching credentials for connection %q", name)
	}
	p := rdbms.ConnectionProfile{Name: name, Dialect: conn.Type, Credentials: creds}
	c.profiles[name] = p
	return p, nil
}
