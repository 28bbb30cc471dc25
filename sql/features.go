// Copyright 2023 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sql

import (
	"io/ioutil"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v2"
)

// JoinDistributionType is the session level join distribution setting.
type JoinDistributionType string

const (
	// JoinDistributionAutomatic lets the optimizer choose a distribution for
	// every join based on cost estimates.
	JoinDistributionAutomatic JoinDistributionType = "automatic"
	// JoinDistributionReplicated forces broadcast joins.
	JoinDistributionReplicated JoinDistributionType = "replicated"
	// JoinDistributionPartitioned forces hash partitioned joins.
	JoinDistributionPartitioned JoinDistributionType = "partitioned"
)

// JoinDistributionTypes are all the valid join distribution types.
var JoinDistributionTypes = []JoinDistributionType{
	JoinDistributionAutomatic,
	JoinDistributionReplicated,
	JoinDistributionPartitioned,
}

// ParseJoinDistributionType returns the distribution type with the given
// name, ignoring case.
func ParseJoinDistributionType(s string) (JoinDistributionType, error) {
	t := JoinDistributionType(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range JoinDistributionTypes {
		if t == valid {
			return t, nil
		}
	}
	return "", ErrInvalidJoinDistributionType.New(s, JoinDistributionTypes)
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (t *JoinDistributionType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseJoinDistributionType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// DataSize is an amount of bytes that reads from human friendly strings
// like "512MB" or "1GiB".
type DataSize int64

// ParseDataSize parses a human friendly size.
func ParseDataSize(s string) (DataSize, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	return DataSize(n), nil
}

// Bytes returns the size in bytes.
func (d DataSize) Bytes() int64 { return int64(d) }

func (d DataSize) String() string {
	return humanize.IBytes(uint64(d))
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (d *DataSize) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var n int64
	if err := unmarshal(&n); err == nil {
		*d = DataSize(n)
		return nil
	}

	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	size, err := ParseDataSize(s)
	if err != nil {
		return err
	}
	*d = size
	return nil
}

// FeaturesConfig holds the optimizer settings of a deployment. Session
// variables start from these values.
type FeaturesConfig struct {
	// JoinReorderingEnabled enables cross join elimination.
	JoinReorderingEnabled bool `yaml:"join-reordering-enabled"`
	// JoinDistributionType is the default join distribution.
	JoinDistributionType JoinDistributionType `yaml:"join-distribution-type"`
	// MaxMemoryPerNode is the memory budget of a worker.
	MaxMemoryPerNode DataSize `yaml:"max-memory-per-node"`
	// LogLevel is the logrus level name.
	LogLevel string `yaml:"log-level"`
	// LogFormat is either text or json.
	LogFormat string `yaml:"log-format"`
}

var _ GlobalProperties = FeaturesConfig{}

// DefaultFeaturesConfig returns the config used when nothing is configured.
func DefaultFeaturesConfig() FeaturesConfig {
	return FeaturesConfig{
		JoinReorderingEnabled: false,
		JoinDistributionType:  JoinDistributionPartitioned,
		MaxMemoryPerNode:      DataSize(humanize.GiByte),
		LogLevel:              "info",
		LogFormat:             "text",
	}
}

// MaxMemoryPerNodeBytes implements the GlobalProperties interface.
func (c FeaturesConfig) MaxMemoryPerNodeBytes() int64 {
	return c.MaxMemoryPerNode.Bytes()
}

// Validate checks the config values.
func (c FeaturesConfig) Validate() error {
	if _, err := ParseJoinDistributionType(string(c.JoinDistributionType)); err != nil {
		return err
	}
	if c.MaxMemoryPerNode <= 0 {
		return ErrInvalidConfig.New("max-memory-per-node must be positive")
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return ErrInvalidConfig.New("log-format must be text or json, got " + c.LogFormat)
	}
	return nil
}

// ParseFeaturesConfig reads a YAML config. Keys that are not set keep their
// default value.
func ParseFeaturesConfig(data []byte) (FeaturesConfig, error) {
	cfg := DefaultFeaturesConfig()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		if ErrInvalidJoinDistributionType.Is(err) {
			return FeaturesConfig{}, err
		}
		return FeaturesConfig{}, ErrInvalidConfig.Wrap(err, err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return FeaturesConfig{}, err
	}

	return cfg, nil
}

// LoadFeaturesConfig reads a YAML config from the given file.
func LoadFeaturesConfig(path string) (FeaturesConfig, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return FeaturesConfig{}, ErrInvalidConfig.Wrap(err, err.Error())
	}
	return ParseFeaturesConfig(data)
}
