package config

import (
	"path"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

var configHomeDir string

// getConfigHomeDir returns the full path to the home directory that stores all config files.
func getConfigHomeDir() (string, error) {
	if configHomeDir == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", errors.Wrap(err, "unable to find home directory")
		}
		configHomeDir = path.Join(home, MainDir)
	}
	return configHomeDir, nil
}
