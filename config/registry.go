package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/relloyd/dpu/errs"
	"github.com/relloyd/dpu/rdbms"
	"gopkg.in/yaml.v2"
)

// Connection is a registry entry.
type Connection struct {
	Name   string `yaml:"-"`
	Type   string `yaml:"type"`
	Secret string `yaml:"secret"`
}

type registryDocument struct {
	Connections map[string]Connection `yaml:"connections"`
}

// Registry is an immutable lookup of logical connection names.
// Build one with NewRegistry or LoadRegistry at startup and pass it to the jobs that need it.
type Registry struct {
	entries map[string]Connection
}

// NewRegistry validates connections and builds a Registry from them.
func NewRegistry(connections []Connection) (*Registry, error) {
	r := &Registry{entries: make(map[string]Connection, len(connections))}
	for _, c := range connections {
		if strings.TrimSpace(c.Name) == "" {
			return nil, errs.NewConfigurationError("registry", "connection with empty name")
		}
		if _, ok := r.entries[c.Name]; ok {
			return nil, errs.NewConfigurationError("registry", "duplicate connection %q", c.Name)
		}
		if !rdbms.IsSupportedConnectionType(c.Type) {
			return nil, errs.NewConfigurationError("registry", "connection %q has unsupported type %q", c.Name, c.Type)
		}
		c.Type = strings.ToLower(strings.TrimSpace(c.Type))
		r.entries[c.Name] = c
	}
	return r, nil
}

// ParseRegistry builds a Registry from a YAML document of the form:
//
//	connections:
//	  kwi_usa_read:
//	    type: mysql
//	    secret: glue-kwi-us-jdbc
func ParseRegistry(b []byte) (*Registry, error) {
	doc := registryDocument{}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, errs.NewConfigurationError("registry", "%v", err)
	}
	connections := make([]Connection, 0, len(doc.Connections))
	for name, c := range doc.Connections {
		c.Name = name
		connections = append(connections, c)
	}
	return NewRegistry(connections)
}

// LoadRegistry reads the registry from file f.
func LoadRegistry(f *File) (*Registry, error) {
	b, err := f.Read()
	if err != nil {
		return nil, errs.NewConfigurationError("registry", "%v", err)
	}
	return ParseRegistry(b)
}

// Lookup returns the entry for name.
// Unknown names and entries without a secret are configuration errors.
func (r *Registry) Lookup(name string) (Connection, error) {
	c, ok := r.entries[name]
	if !ok {
		return Connection{}, errs.NewConfigurationError("registry", "unknown connection %q", name)
	}
	if strings.TrimSpace(c.Secret) == "" {
		return Connection{}, errs.NewConfigurationError("registry", "connection %q has no secret configured", name)
	}
	return c, nil
}

// Names returns the registered connection names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for k := range r.entries {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Get returns the entry for name without checking the secret.
func (r *Registry) Get(name string) (Connection, bool) {
	c, ok := r.entries[name]
	return c, ok
}

func (c Connection) String() string {
	secret := c.Secret
	if secret == "" {
		secret = "<none>"
	}
	return fmt.Sprintf("%v: type = %v, secret = %v", c.Name, c.Type, secret)
}
