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

package sqle

import (
	"github.com/sirupsen/logrus"

	"github.com/dolthub/go-join-planner/sql"
)

// ConfigureLogging sets the level and format of the standard logger from the
// given config.
func ConfigureLogging(cfg sql.FeaturesConfig) error {
	level := logrus.InfoLevel
	if cfg.LogLevel != "" {
		var err error
		level, err = logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return sql.ErrInvalidConfig.Wrap(err, err.Error())
		}
	}
	logrus.SetLevel(level)

	switch cfg.LogFormat {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
