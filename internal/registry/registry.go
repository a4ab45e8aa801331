// Package registry loads the provider registry file (providers.yml) that
// defines which repositories the dashboard tracks.
package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider is one tracked repository as declared in the registry file.
// It is read-only to the rest of the program.
type Provider struct {
	// Repo is the repository identifier as OWNER/NAME. Required.
	Repo string `yaml:"repo"`

	// Domain is the provider's domain identifier. Required.
	Domain string `yaml:"domain"`

	// Type is the provider category tag (e.g. music_provider, server_fork). Required.
	Type string `yaml:"provider_type"`

	// DisplayName overrides Domain in rendered output when set.
	DisplayName string `yaml:"display_name"`

	// ManifestPath points at the provider's manifest.json, when it has one.
	ManifestPath string `yaml:"manifest_path"`

	// ProviderPath points at the provider implementation directory, when known.
	ProviderPath string `yaml:"provider_path"`

	// SkipCI marks the provider as having no applicable CI workflow.
	SkipCI bool `yaml:"skip_ci"`
}

// Name returns the display name, falling back to the domain.
func (p Provider) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Domain
}

// Owner and RepoName split the OWNER/NAME identifier.
func (p Provider) Owner() string {
	owner, _, _ := strings.Cut(p.Repo, "/")
	return owner
}

func (p Provider) RepoName() string {
	_, name, _ := strings.Cut(p.Repo, "/")
	return name
}

// URL returns the repository's GitHub URL.
func (p Provider) URL() string {
	return "https://github.com/" + p.Repo
}

// CISkipped reports whether the CI sub-query should not be attempted.
// Server forks carry no test workflow; individual entries can opt out
// explicitly via skip_ci.
func (p Provider) CISkipped() bool {
	return p.SkipCI || p.Type == "server_fork"
}

type registryFile struct {
	Providers []Provider `yaml:"providers"`
}

// Load reads and validates the registry file. A missing file, unparsable
// YAML, an empty provider list, or an entry without its required identity
// fields are all fatal: no network activity should happen without a usable
// registry.
func Load(path string) ([]Provider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	return Parse(raw)
}

// Parse decodes registry YAML. Order of entries is preserved; it defines the
// row order of every rendered output.
func Parse(raw []byte) ([]Provider, error) {
	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	if len(file.Providers) == 0 {
		return nil, fmt.Errorf("registry contains no providers")
	}
	for i, p := range file.Providers {
		if p.Repo == "" {
			return nil, fmt.Errorf("registry entry %d: repo is required", i)
		}
		owner, name, ok := strings.Cut(p.Repo, "/")
		if !ok || owner == "" || name == "" {
			return nil, fmt.Errorf("registry entry %d: repo must be OWNER/NAME, got %q", i, p.Repo)
		}
		if p.Domain == "" {
			return nil, fmt.Errorf("registry entry %d (%s): domain is required", i, p.Repo)
		}
		if p.Type == "" {
			return nil, fmt.Errorf("registry entry %d (%s): provider_type is required", i, p.Repo)
		}
	}
	return file.Providers, nil
}
