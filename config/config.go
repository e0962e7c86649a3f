package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the config file inside the home directory.
const FileName = ".rural"

const MissingMessage = `rural has not yet been configured, or the configuration
file appears to be missing. Run the configuration wizard with ` + "`rural configure`"

type Config struct {
	AccessKey string `yaml:"aws_access_key"`
	SecretKey string `yaml:"aws_secret_key"`
	Bucket    string `yaml:"bucket_name"`
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
}

// stored mirrors Config with pointers so absent keys can be told apart
// from empty ones.
type stored struct {
	AccessKey *string `yaml:"aws_access_key"`
	SecretKey *string `yaml:"aws_secret_key"`
	Bucket    *string `yaml:"bucket_name"`
	Region    string  `yaml:"region"`
	Endpoint  string  `yaml:"endpoint"`
}

// HomeDir resolves the user's home directory through lookup, which is
// usually os.LookupEnv.
func HomeDir(lookup func(string) (string, bool)) (string, error) {
	home, ok := lookup("HOME")
	if !ok || len(strings.TrimSpace(home)) == 0 {
		return "", ErrUnsupportedEnvironment
	}
	return home, nil
}

func Path(home string) string {
	return filepath.Join(home, FileName)
}

// Load reads the config file at path. A missing file yields ErrConfigMissing.
func Load(path string) (Config, error) {
	logrus.Debug("loading config from ", path)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, ErrConfigMissing
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var s stored
	if err = yaml.Unmarshal(b, &s); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	switch {
	case s.AccessKey == nil:
		return Config{}, &MissingFieldError{Field: "aws_access_key"}
	case s.SecretKey == nil:
		return Config{}, &MissingFieldError{Field: "aws_secret_key"}
	case s.Bucket == nil:
		return Config{}, &MissingFieldError{Field: "bucket_name"}
	}

	return Config{
		AccessKey: *s.AccessKey,
		SecretKey: *s.SecretKey,
		Bucket:    *s.Bucket,
		Region:    s.Region,
		Endpoint:  s.Endpoint,
	}, nil
}

// Save overwrites path with c. The file holds credentials, so it is only
// readable by the owner.
func Save(path string, c Config) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	// WriteFile keeps the mode of an existing file
	return os.Chmod(path, 0o600)
}

// Validate reports every required field that is empty.
func (c Config) Validate() error {
	var empty []string
	if len(c.AccessKey) == 0 {
		empty = append(empty, "aws_access_key")
	}
	if len(c.SecretKey) == 0 {
		empty = append(empty, "aws_secret_key")
	}
	if len(c.Bucket) == 0 {
		empty = append(empty, "bucket_name")
	}
	if len(empty) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigIncomplete, strings.Join(empty, ", "))
	}
	return nil
}
