// Package config loads ZNS's process-global configuration from
// environment variables, once, per spec.md §6.
package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/ZeusWPI/ZNS/internal/core/domain"
)

// Config holds every environment-derived setting the server needs. It is
// immutable once loaded.
type Config struct {
	DatabaseURL string
	ZauthURL    string // empty disables SSH-key auth
	Zone        domain.Name
	Port        int
	Address     string
	DefaultSOA  bool
}

// Load reads environment variables into the process-global Config,
// computing it once no matter how many callers ask. Required variables
// missing on first call produce an error every subsequent caller also sees.
var Load = sync.OnceValues(load)

func load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("config: DATABASE_URL must be set")
	}

	zone := os.Getenv("ZONE")
	if zone == "" {
		return nil, fmt.Errorf("config: ZONE must be set")
	}

	port := 5333
	if v := os.Getenv("ZNS_PORT"); v != "" {
		p, perr := strconv.Atoi(v)
		if perr != nil {
			return nil, fmt.Errorf("config: ZNS_PORT is invalid: %w", perr)
		}
		port = p
	}

	address := "127.0.0.1"
	if v := os.Getenv("ZNS_ADDRESS"); v != "" {
		address = v
	}

	defaultSOA := true
	if v := os.Getenv("ZNS_DEFAULT_SOA"); v != "" {
		b, berr := strconv.ParseBool(v)
		if berr != nil {
			return nil, fmt.Errorf("config: ZNS_DEFAULT_SOA should be true or false: %w", berr)
		}
		defaultSOA = b
	}

	return &Config{
		DatabaseURL: dbURL,
		ZauthURL:    os.Getenv("ZAUTH_URL"),
		Zone:        domain.ParseName(zone),
		Port:        port,
		Address:     address,
		DefaultSOA:  defaultSOA,
	}, nil
}
