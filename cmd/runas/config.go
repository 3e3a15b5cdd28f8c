package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/smnsjas/go-impersonate/internal/log"
	"github.com/smnsjas/go-impersonate/logon"
)

// passwordEnv overrides the profile password and skips the prompt.
const passwordEnv = "IMPERSONATE_PASSWORD"

// profile is the optional YAML file passed with -config. Flags that are set
// on the command line win over profile values.
type profile struct {
	User       string   `yaml:"user"`
	Domain     string   `yaml:"domain"`
	Password   string   `yaml:"password"`
	LogonType  string   `yaml:"logonType"`
	Provider   string   `yaml:"provider"`
	Path       string   `yaml:"path"`
	Parallel   int      `yaml:"parallel"`
	Command    []string `yaml:"command"`
	Privileges []string `yaml:"privileges"`

	Log struct {
		Level      string   `yaml:"level"`
		File       string   `yaml:"file"`
		MaxSize    int64    `yaml:"maxSize"`
		MaxBackups int      `yaml:"maxBackups"`
		JSON       bool     `yaml:"json"`
		RedactKeys []string `yaml:"redactKeys"`
	} `yaml:"log"`
}

// config is the merged view of flags, environment and profile.
type config struct {
	User       string
	Domain     string
	Password   string
	Params     logon.Params
	Path       string
	Parallel   int
	Command    []string
	Privileges []string
	Log        log.Options
}

func loadProfile(path string) (*profile, error) {
	p := &profile{}
	if path == "" {
		return p, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(b, p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}

// flagValues holds the raw flag values and which of them were set.
type flagValues struct {
	user, domain, password string
	logonType, provider    string
	path                   string
	parallel               int
	command                []string
	privileges             []string
	logLevel, logFile      string
	logJSON                bool

	set map[string]bool
}

func pick(set bool, flagVal, profileVal string) string {
	if set || profileVal == "" {
		return flagVal
	}
	return profileVal
}

// merge applies flags over p. The password comes from the flag, then the
// environment, then the profile; an empty result means prompt.
func merge(fv flagValues, p *profile, getenv func(string) string) (*config, error) {
	c := &config{
		User:   pick(fv.set["user"], fv.user, p.User),
		Domain: pick(fv.set["domain"], fv.domain, p.Domain),
		Path:   pick(fv.set["path"], fv.path, p.Path),
		Log: log.Options{
			Level:      pick(fv.set["loglevel"], fv.logLevel, p.Log.Level),
			File:       pick(fv.set["logfile"], fv.logFile, p.Log.File),
			MaxSize:    p.Log.MaxSize,
			MaxBackups: p.Log.MaxBackups,
			JSON:       fv.logJSON || p.Log.JSON,
			RedactKeys: p.Log.RedactKeys,
		},
	}

	switch {
	case fv.password != "":
		c.Password = fv.password
	case getenv(passwordEnv) != "":
		c.Password = getenv(passwordEnv)
	default:
		c.Password = p.Password
	}

	c.Parallel = fv.parallel
	if !fv.set["parallel"] && p.Parallel > 0 {
		c.Parallel = p.Parallel
	}
	if c.Parallel < 1 {
		return nil, fmt.Errorf("-parallel must be at least 1, got %d", c.Parallel)
	}

	c.Command = fv.command
	if len(c.Command) == 0 {
		c.Command = p.Command
	}
	c.Privileges = fv.privileges
	if len(c.Privileges) == 0 {
		c.Privileges = p.Privileges
	}

	if c.User == "" {
		return nil, errors.New("-user is required")
	}

	var err error
	if lt := pick(fv.set["logon-type"], fv.logonType, p.LogonType); lt != "" {
		if c.Params.Type, err = logon.ParseType(lt); err != nil {
			return nil, err
		}
	}
	if pr := pick(fv.set["provider"], fv.provider, p.Provider); pr != "" {
		if c.Params.Provider, err = logon.ParseProvider(pr); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// credentials builds logon credentials for c with the given secret.
func (c *config) credentials(secret logon.Secret) (*logon.Credentials, error) {
	if c.Domain != "" {
		return logon.NewWithDomain(c.Domain, c.User, secret)
	}
	return logon.New(c.User, secret)
}

// builtin returns the credentials for a well-known service account name, or
// nil when user is an ordinary account.
func builtin(user string) *logon.Credentials {
	switch strings.ToUpper(strings.TrimSpace(user)) {
	case "NETWORK SERVICE", `NT AUTHORITY\NETWORK SERVICE`:
		return logon.NetworkService()
	case "LOCAL SERVICE", `NT AUTHORITY\LOCAL SERVICE`:
		return logon.LocalService()
	case "SYSTEM", `NT AUTHORITY\SYSTEM`:
		return logon.LocalSystem()
	}
	return nil
}
