// Package config loads the connection registry: the mapping of logical connection names to
// connection types and the secrets that hold their credentials.
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"strings"

	"github.com/relloyd/dpu/constants"
)

const (
	MainDir                         = ".dpu"
	ConnectionsConfigFileNamePrefix = "connections"
	ConnectionsConfigFileNameExt    = "yaml"
	ConnectionsConfigFileFullName   = ConnectionsConfigFileNamePrefix + "." + ConnectionsConfigFileNameExt
)

// FileNotFoundError denotes failing to find configuration file.
type FileNotFoundError struct {
	name string
}

// Error returns the formatted configuration error.
func (f FileNotFoundError) Error() string {
	return fmt.Sprintf("config file %q not found", f.name)
}

// File is a simple struct able to split file paths into the components to improve readability of code.
type File struct {
	Dirname    string
	FileName   string
	FilePrefix string
	FileExt    string
	FullPath   string
}

func NewConfigFileWithDir(dirName string, filename string) *File {
	c := &File{Dirname: dirName, FileName: filename}
	c.FullPath = path.Join(dirName, filename)
	c.FileExt = strings.TrimLeft(path.Ext(filename), ".")
	c.FilePrefix = strings.TrimSuffix(c.FileName, "."+c.FileExt)
	return c
}

// NewConfigFile splits fullPath into a File.
func NewConfigFile(fullPath string) *File {
	return NewConfigFileWithDir(path.Dir(fullPath), path.Base(fullPath))
}

// DefaultConnectionsFile returns the registry file to use: the value of env var DPU_CONNECTIONS_FILE if set,
// else connections.yaml in the config home dir.
func DefaultConnectionsFile() (*File, error) {
	if v := os.Getenv(constants.EnvVarConnectionsFile); v != "" {
		return NewConfigFile(v), nil
	}
	dir, err := getConfigHomeDir()
	if err != nil {
		return nil, err
	}
	return NewConfigFileWithDir(dir, ConnectionsConfigFileFullName), nil
}

// Read returns the file contents or FileNotFoundError.
func (c *File) Read() ([]byte, error) {
	b, err := ioutil.ReadFile(c.FullPath)
	if os.IsNotExist(err) {
		return nil, FileNotFoundError{c.FullPath}
	}
	return b, err
}
