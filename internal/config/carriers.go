package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/tournevent/shipbridge/pkg/shipper"
	"gopkg.in/yaml.v3"
)

// ProviderSource resolves carrier identifiers to providers.
type ProviderSource interface {
	Provider(carrier string) (shipper.Provider, error)
}

type carriersFile struct {
	Accounts []yaml.Node `yaml:"accounts"`
}

type accountHeader struct {
	ID          string    `yaml:"id"`
	Carrier     string    `yaml:"carrier"`
	Credentials yaml.Node `yaml:"credentials"`
}

// LoadCarriers reads carrier accounts from a YAML file. ${VAR} references
// are expanded from the environment before parsing; a bare $ is kept as is
// since credentials may contain it.
func LoadCarriers(path string, providers ProviderSource) ([]shipper.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading carriers file: %w", err)
	}
	return ParseCarriers(expandEnv(data), providers)
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR} with the variable's value, empty when unset.
func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		return []byte(os.Getenv(string(ref[2 : len(ref)-1])))
	})
}

// ParseCarriers decodes a carriers document. Each account's top-level
// fields fill the common settings and its credentials node is decoded into
// the carrier's own Settings type.
//
//	accounts:
//	  - id: puro-main
//	    carrier: purolator
//	    test: true
//	    credentials:
//	      username: key
//	      password: secret
func ParseCarriers(data []byte, providers ProviderSource) ([]shipper.Settings, error) {
	var file carriersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing carriers file: %w", err)
	}

	accounts := make([]shipper.Settings, 0, len(file.Accounts))
	seen := make(map[string]bool, len(file.Accounts))
	for i := range file.Accounts {
		node := &file.Accounts[i]

		var head accountHeader
		if err := node.Decode(&head); err != nil {
			return nil, fmt.Errorf("account %d: %w", i, err)
		}
		if head.Carrier == "" {
			return nil, fmt.Errorf("account %d: carrier is required", i)
		}
		p, err := providers.Provider(head.Carrier)
		if err != nil {
			return nil, fmt.Errorf("account %d: %w", i, err)
		}

		settings := p.NewSettings()
		if err := node.Decode(settings); err != nil {
			return nil, fmt.Errorf("account %d (%s): %w", i, head.Carrier, err)
		}
		if !head.Credentials.IsZero() {
			if err := head.Credentials.Decode(settings); err != nil {
				return nil, fmt.Errorf("account %d (%s) credentials: %w", i, head.Carrier, err)
			}
		}

		id := settings.ID()
		if seen[id] {
			return nil, fmt.Errorf("duplicate carrier account %q", id)
		}
		seen[id] = true
		accounts = append(accounts, settings)
	}
	return accounts, nil
}
