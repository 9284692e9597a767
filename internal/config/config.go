// Package config loads wrtguard's configuration and resolves the router
// credentials from either the command line or the config file.
package config

import (
	"os"

	"github.com/spf13/viper"

	"wrtguard/internal/errors"
)

// ConfigFileName is the default config file name, read from the working
// directory when credentials are not fully supplied on the command line.
const ConfigFileName = "config.toml"

// Config represents the complete config.toml file.
type Config struct {
	Server Server `toml:"server" mapstructure:"server"`
}

// Server holds the router's web UI location and admin credentials.
type Server struct {
	// Host is the base URL of the router's web UI, e.g. http://192.168.1.1.
	Host string `toml:"host" mapstructure:"host"`

	// User is the admin username.
	User string `toml:"user" mapstructure:"user"`

	// Password is the admin password.
	Password string `toml:"password" mapstructure:"password"`
}

// complete reports whether all three fields are set.
func (s Server) complete() bool {
	return s.Host != "" && s.User != "" && s.Password != ""
}

// Resolve determines the target server from CLI values or the config file.
// The CLI path is all-or-nothing: host, user, and password must all be
// present, in which case the config file is never read. Otherwise the file
// at path (ConfigFileName when path is empty) supplies the whole server
// section. Partial CLI values are never merged with file values.
func Resolve(host, user, password, path string) (Server, error) {
	cli := Server{Host: host, User: user, Password: password}
	if cli.complete() {
		return cli, nil
	}

	if path == "" {
		path = ConfigFileName
	}

	cfg, err := Load(path)
	if err != nil {
		return Server{}, err
	}

	if !cfg.Server.complete() {
		return Server{}, errors.New(errors.ErrConfig,
			"Incomplete server section in "+path,
			"Set host, user, and password under [server]")
	}

	return cfg.Server, nil
}

// Load reads and parses the config file at the given path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found: "+path,
				"Create it with a [server] section, or pass host, user, and password as arguments")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file: "+path,
			"Check the file exists and is valid TOML")
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the TOML syntax in "+path)
	}

	return cfg, nil
}
