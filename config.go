package exifedit

import (
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// UnknownTagPolicy controls how IfdParser reacts when a tag's declared
// count/type combination cannot be decoded from the bytes available.
type UnknownTagPolicy int

const (
	// KeepTag retains the tag with its error flag set so neighbouring tags
	// still decode (the default; matches spec's isolated tag-level failures).
	KeepTag UnknownTagPolicy = iota
	// RemoveTag drops the tag from the IFD immediately instead of carrying
	// an error-flagged entry through to OffsetFixer.
	RemoveTag
	// StopOnUnknown aborts the whole IFD parse at the first bad tag.
	StopOnUnknown
)

// Config is the process-wide configuration recognised by exifedit. Load
// reads it from a YAML file; wiring it into flags and into SetVerbose is the
// caller's (CLI's) job, not this package's.
type Config struct {
	Verbose          bool   `yaml:"verbose"`
	UnknownTagPolicy string `yaml:"unknown_tag_policy"`
}

// Load reads a YAML configuration file. A missing file is not an error;
// it returns the zero Config so callers may treat "no config" the same as
// "default config".
func Load(path string) (Config, error) {
	var c Config
	data, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, errors.Wrapf(err, "config: reading %s", path)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, errors.Wrapf(err, "config: parsing %s", path)
	}
	return c, nil
}

// Policy resolves the configured unknown-tag policy string, defaulting to
// KeepTag for an empty or unrecognised value.
func (c Config) Policy() UnknownTagPolicy {
	switch c.UnknownTagPolicy {
	case "remove":
		return RemoveTag
	case "stop":
		return StopOnUnknown
	default:
		return KeepTag
	}
}
