package config

import (
	"fmt"
	"sort"
	"time"
)

// ProjectConfig is one tracked site in the configuration file. Zero values
// mean "not set" and leave the underlying value alone.
type ProjectConfig struct {
	// Domain is the tracked site.
	Domain string `yaml:"domain,omitempty"`

	// Location is the service area, e.g. "Austin, TX".
	Location string `yaml:"location,omitempty"`

	// Keywords are the tracked keywords.
	Keywords []string `yaml:"keywords,omitempty"`

	// Model overrides the Gemini model.
	Model string `yaml:"model,omitempty"`

	// Temperature overrides the sampling temperature.
	Temperature *float32 `yaml:"temperature,omitempty"`

	// RequestDelay overrides the pause between checks, e.g. "5s".
	RequestDelay *time.Duration `yaml:"requestDelay,omitempty"`

	// Schedule overrides the watch schedule.
	Schedule string `yaml:"schedule,omitempty"`

	// DisableRepairs lists JSON repairs to skip for this project.
	DisableRepairs []string `yaml:"disableRepairs,omitempty"`
}

// File represents the structure of the .rankwatch configuration file.
type File struct {
	// Defaults applies to every project unless the project overrides it.
	Defaults ProjectConfig `yaml:"defaults,omitempty"`

	// Projects maps a project name to its configuration. The name is also
	// the session ID its history is stored under.
	Projects map[string]ProjectConfig `yaml:"projects,omitempty"`
}

// Project returns the named project merged over the defaults.
func (cf *File) Project(name string) (ProjectConfig, error) {
	p, ok := cf.Projects[name]
	if !ok {
		return ProjectConfig{}, fmt.Errorf("%w: %q", ErrUnknownProject, name)
	}
	return mergeProject(cf.Defaults, p), nil
}

// ProjectNames returns the project names in sorted order.
func (cf *File) ProjectNames() []string {
	names := make([]string, 0, len(cf.Projects))
	for name := range cf.Projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// mergeProject overlays the set fields of override on base.
func mergeProject(base, override ProjectConfig) ProjectConfig {
	result := base
	if override.Domain != "" {
		result.Domain = override.Domain
	}
	if override.Location != "" {
		result.Location = override.Location
	}
	if len(override.Keywords) > 0 {
		result.Keywords = override.Keywords
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	if override.Temperature != nil {
		result.Temperature = override.Temperature
	}
	if override.RequestDelay != nil {
		result.RequestDelay = override.RequestDelay
	}
	if override.Schedule != "" {
		result.Schedule = override.Schedule
	}
	if len(override.DisableRepairs) > 0 {
		result.DisableRepairs = override.DisableRepairs
	}
	return result
}

// ApplyProject copies the set fields of p into c.
func (c *Config) ApplyProject(p ProjectConfig) {
	if p.Domain != "" {
		c.Domain = p.Domain
	}
	if p.Location != "" {
		c.Location = p.Location
	}
	if len(p.Keywords) > 0 {
		c.Keywords = append([]string(nil), p.Keywords...)
	}
	if p.Model != "" {
		c.Model = p.Model
	}
	if p.Temperature != nil {
		t := *p.Temperature
		c.Temperature = &t
	}
	if p.RequestDelay != nil {
		c.RequestDelay = *p.RequestDelay
	}
	if p.Schedule != "" {
		c.Schedule = p.Schedule
	}
	if len(p.DisableRepairs) > 0 {
		c.DisabledRepairs = append([]string(nil), p.DisableRepairs...)
	}
}
