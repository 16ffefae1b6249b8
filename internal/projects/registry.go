// Package projects maps configured project keys to OnCrawl crawls.
//
// The registry is immutable. Switching projects yields a new Selection value
// that callers carry per request; nothing global changes.
package projects

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrUnknownProject is returned for a key that is not configured.
var ErrUnknownProject = errors.New("unknown project")

// Project is one configured crawl target.
type Project struct {
	Key         string `json:"-"`
	Name        string `json:"name"`
	CrawlID     string `json:"crawl_id"`
	Description string `json:"description"`
}

// Selection is the project a request operates on.
type Selection struct {
	Key     string
	Project Project
}

// Registry is a read-only set of projects with a default selection.
type Registry struct {
	projects        map[string]Project
	keys            []string
	active          string
	excludedDomains []string
}

// NewRegistry builds a registry. active may be empty, meaning no default.
func NewRegistry(items map[string]Project, active string, excludedDomains []string) (*Registry, error) {
	projects := make(map[string]Project, len(items))
	for key, p := range items {
		p.Key = key
		projects[key] = p
	}

	r := &Registry{
		projects:        projects,
		keys:            slices.Sorted(maps.Keys(projects)),
		excludedDomains: slices.Clone(excludedDomains),
	}

	if active != "" {
		if _, ok := projects[active]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownProject, active)
		}
		r.active = active
	}

	return r, nil
}

// Keys returns the project keys in sorted order.
func (r *Registry) Keys() []string {
	return slices.Clone(r.keys)
}

// Projects returns a copy of every configured project.
func (r *Registry) Projects() map[string]Project {
	return maps.Clone(r.projects)
}

// ExcludedDomains returns the configured excluded domains.
func (r *Registry) ExcludedDomains() []string {
	return slices.Clone(r.excludedDomains)
}

// Active returns the default selection, if one is configured.
func (r *Registry) Active() (Selection, bool) {
	if r.active == "" {
		return Selection{}, false
	}
	return Selection{Key: r.active, Project: r.projects[r.active]}, true
}

// Switch returns the selection for key.
func (r *Registry) Switch(key string) (Selection, error) {
	p, ok := r.projects[key]
	if !ok {
		return Selection{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownProject, key, strings.Join(r.keys, ", "))
	}
	return Selection{Key: key, Project: p}, nil
}

// IsExcluded reports whether url contains an excluded domain.
func (r *Registry) IsExcluded(url string) bool {
	lowered := strings.ToLower(url)
	for _, domain := range r.excludedDomains {
		if strings.Contains(lowered, strings.ToLower(domain)) {
			return true
		}
	}
	return false
}
