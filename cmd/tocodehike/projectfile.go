package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/agusx1211/tocodehike/internal/lang"
	"github.com/agusx1211/tocodehike/internal/markup"
	"github.com/agusx1211/tocodehike/internal/tracked"
	"github.com/agusx1211/tocodehike/internal/walkthrough"
)

// projectFileName is read from the working directory for per-tutorial
// settings, and from the home directory for the default output mode.
const projectFileName = ".tocodehike"

type projectProfile struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

type languageEntry struct {
	Lang    string `yaml:"lang"`
	Comment string `yaml:"comment"`
}

type projectFile struct {
	NarrativeSuffix string                    `yaml:"narrative_suffix"`
	Context         *int                      `yaml:"context"`
	Lister          string                    `yaml:"lister"`
	Include         []string                  `yaml:"include"`
	Exclude         []string                  `yaml:"exclude"`
	Languages       map[string]languageEntry  `yaml:"languages"`
	Profiles        map[string]projectProfile `yaml:"profiles"`
}

// projectSettings is a project file resolved for one profile.
type projectSettings struct {
	narrativeSuffix string
	context         int
	lister          string
	include         []string
	exclude         []string
	languages       map[string]lang.Profile
}

func defaultProjectSettings() *projectSettings {
	return &projectSettings{
		narrativeSuffix: walkthrough.DefaultNarrativeSuffix,
		context:         markup.FullContext,
		lister:          tracked.BackendAuto,
	}
}

// readProjectFile loads path and merges the named profile (or "default")
// into the top-level include/exclude rules. A missing file yields defaults.
func readProjectFile(path string, profile string) (*projectSettings, error) {
	settings := defaultProjectSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, err
	}

	var cfg projectFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cfg.NarrativeSuffix != "" {
		settings.narrativeSuffix = cfg.NarrativeSuffix
	}
	if cfg.Context != nil {
		settings.context = *cfg.Context
	}
	if cfg.Lister != "" {
		settings.lister = cfg.Lister
	}

	settings.include = append([]string{}, cfg.Include...)
	settings.exclude = append([]string{}, cfg.Exclude...)
	if len(cfg.Profiles) > 0 {
		if prof, ok := cfg.Profiles[profile]; ok {
			settings.include = append(settings.include, prof.Include...)
			settings.exclude = append(settings.exclude, prof.Exclude...)
		} else if prof, ok := cfg.Profiles["default"]; ok {
			settings.include = append(settings.include, prof.Include...)
			settings.exclude = append(settings.exclude, prof.Exclude...)
		} else if profile != "" {
			return nil, fmt.Errorf("profile %q not found in %s", profile, path)
		}
	} else if profile != "" {
		return nil, fmt.Errorf("profile %q requested but %s defines no profiles", profile, path)
	}

	if len(cfg.Languages) > 0 {
		settings.languages = make(map[string]lang.Profile, len(cfg.Languages))
		for suffix, entry := range cfg.Languages {
			if entry.Lang == "" {
				return nil, fmt.Errorf("language %q in %s has no lang", suffix, path)
			}
			comment := lang.Comment{Style: lang.Identity}
			if entry.Comment != "" {
				comment, err = lang.ParseComment(entry.Comment)
				if err != nil {
					return nil, fmt.Errorf("language %q in %s: %w", suffix, path, err)
				}
			}
			settings.languages[suffix] = lang.Profile{Tag: entry.Lang, Comment: comment}
		}
	}
	return settings, nil
}

func (s *projectSettings) registry() *lang.Registry {
	if len(s.languages) == 0 {
		return lang.Default()
	}
	return lang.NewRegistry(s.languages)
}

func (s *projectSettings) filter() (*tracked.Filter, error) {
	return tracked.NewFilter(s.include, s.exclude)
}
