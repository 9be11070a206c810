package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Profile holds flag defaults read from a TOML file. Keys are flag names:
//
//	search = "Cumulative Update for Windows Server 2019 for x64-based Systems"
//	downloadpath = "/srv/patches"
//	wait-timeout = "5s"
type Profile map[string]any

// ProfileFlag returns the --config flag
func ProfileFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "TOML profile supplying defaults for unset flags",
		Destination: dst,
		Sources:     cli.EnvVars("KBFETCH_CONFIG"),
	}
}

// LoadProfile reads a profile. An empty path yields an empty profile.
func LoadProfile(path string) (Profile, error) {
	if path == "" {
		return Profile{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var p Profile
	if err := toml.Unmarshal(raw, &p); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}
	if p == nil {
		p = Profile{}
	}
	return p, nil
}

// Check returns an error for keys that name none of flags
func (p Profile) Check(flags ...[]cli.Flag) error {
	known := map[string]bool{}
	for _, set := range flags {
		for _, f := range set {
			for _, name := range f.Names() {
				known[name] = true
			}
		}
	}

	var unknown []string
	for key := range p {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return goerr.New("unknown keys in config file", goerr.V("keys", unknown))
	}
	return nil
}

// Apply sets every flag of cmd that was given neither on the command line
// nor by environment and has a value in the profile.
func (p Profile) Apply(cmd *cli.Command) error {
	for _, f := range cmd.Flags {
		name := f.Names()[0]
		v, ok := p[name]
		if !ok || cmd.IsSet(name) {
			continue
		}
		if err := cmd.Set(name, fmt.Sprint(v)); err != nil {
			return goerr.Wrap(err, "invalid value in config file", goerr.V("key", name), goerr.V("value", v))
		}
	}
	return nil
}
