// Package config loads named adapter profiles from an ini file, the way
// an EDS object dictionary is loaded elsewhere in this module family:
// gopkg.in/ini.v1 does the parsing, this package maps sections onto
// typed fields.
package config

import (
	"fmt"
	"time"

	"gopkg.in/ini.v1"

	goslcan "github.com/slcanio/goslcan"
)

// Profile is one named adapter configuration: a channel URL plus the
// Options to open it with.
type Profile struct {
	Name    string
	Channel string
	Options goslcan.Options
}

// Load reads every section of file as a Profile. The special section
// "DEFAULT" (ini.v1's implicit top section) seeds values inherited by
// every named section unless overridden there.
func Load(file string) (map[string]Profile, error) {
	cfg, err := ini.Load(file)
	if err != nil {
		return nil, fmt.Errorf("loading config %q: %w", file, err)
	}
	return fromFile(cfg)
}

func fromFile(cfg *ini.File) (map[string]Profile, error) {
	profiles := make(map[string]Profile)
	defaults := cfg.Section(ini.DefaultSection)
	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		for _, key := range defaults.Keys() {
			if !section.HasKey(key.Name()) {
				if _, err := section.NewKey(key.Name(), key.Value()); err != nil {
					return nil, fmt.Errorf("section %q: %w", section.Name(), err)
				}
			}
		}
		profile, err := sectionToProfile(section)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", section.Name(), err)
		}
		profiles[section.Name()] = profile
	}
	return profiles, nil
}

func sectionToProfile(section *ini.Section) (Profile, error) {
	opts := goslcan.DefaultOptions()

	channel := section.Key("channel").String()
	if channel == "" {
		return Profile{}, fmt.Errorf("missing required key %q", "channel")
	}

	if key := section.Key("baudrate"); key.Value() != "" {
		v, err := key.Int()
		if err != nil {
			return Profile{}, fmt.Errorf("baudrate: %w", err)
		}
		opts.TTYBaudrate = v
	}
	if key := section.Key("bitrate"); key.Value() != "" {
		v, err := key.Int()
		if err != nil {
			return Profile{}, fmt.Errorf("bitrate: %w", err)
		}
		opts.Bitrate = v
	}
	if key := section.Key("listen_only"); key.Value() != "" {
		v, err := key.Bool()
		if err != nil {
			return Profile{}, fmt.Errorf("listen_only: %w", err)
		}
		opts.ListenOnly = v
	}
	if key := section.Key("rtscts"); key.Value() != "" {
		v, err := key.Bool()
		if err != nil {
			return Profile{}, fmt.Errorf("rtscts: %w", err)
		}
		opts.RTSCTS = v
	}
	if key := section.Key("timeout_ms"); key.Value() != "" {
		v, err := key.Int()
		if err != nil {
			return Profile{}, fmt.Errorf("timeout_ms: %w", err)
		}
		opts.Timeout = time.Duration(v) * time.Millisecond
	}
	if key := section.Key("sleep_after_open_ms"); key.Value() != "" {
		v, err := key.Int()
		if err != nil {
			return Profile{}, fmt.Errorf("sleep_after_open_ms: %w", err)
		}
		opts.SleepAfterOpen = time.Duration(v) * time.Millisecond
	}

	return Profile{
		Name:    section.Name(),
		Channel: channel,
		Options: opts,
	}, nil
}
