// Package yaml loads sitekb configuration from YAML files with
// environment-variable overrides.
package yaml

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/sitekb"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads the YAML file at path over sitekb.DefaultConfig and then
// applies SITEKB_* overrides looked up with getenv. A missing file yields
// the defaults. A nil getenv uses os.Getenv.
func LoadConfig(path string, getenv func(string) string) (*sitekb.Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := sitekb.DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, sitekb.Errorf(sitekb.EINVALID, "parsing config file %s: %v", path, err)
			}
		}
	}

	if err := applyEnvOverrides(cfg, getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides reads SITEKB_* variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *sitekb.Config, getenv func(string) string) error {
	if v := getenv("SITEKB_SITES"); v != "" {
		cfg.Crawl.Sites = splitList(v)
	}
	if v := getenv("SITEKB_MAX_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return sitekb.Errorf(sitekb.EINVALID, "SITEKB_MAX_PAGES: %v", err)
		}
		cfg.Crawl.MaxPages = n
	}
	if v := getenv("SITEKB_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return sitekb.Errorf(sitekb.EINVALID, "SITEKB_DELAY: %v", err)
		}
		cfg.Crawl.Delay = d
	}
	if v := getenv("SITEKB_API_URLS"); v != "" {
		cfg.API.URLs = splitList(v)
	}
	if v := getenv("SITEKB_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := getenv("SITEKB_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return sitekb.Errorf(sitekb.EINVALID, "SITEKB_INTERVAL: %v", err)
		}
		cfg.Schedule.Interval = d
	}
	if v := getenv("SITEKB_SERVE_ADDR"); v != "" {
		cfg.Serve.Addr = v
	}
	if v := getenv("SITEKB_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv("SITEKB_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
