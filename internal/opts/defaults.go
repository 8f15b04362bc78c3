/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package opts

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

const (
	_DefaultLogLevel = logrus.WarnLevel
)

var (
	LogLevel = parseLevelOrDefault("PEEPHOLE_LOG_LEVEL", _DefaultLogLevel)
	Verify   = parseBoolOrDefault("PEEPHOLE_VERIFY", false)
	Trace    = parseBoolOrDefault("PEEPHOLE_TRACE", false)
)

func parseBoolOrDefault(key string, def bool) bool {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := strconv.ParseBool(env); err != nil {
		panic("peephole: invalid value for " + key)
	} else {
		return val
	}
}

func parseLevelOrDefault(key string, def logrus.Level) logrus.Level {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := logrus.ParseLevel(env); err != nil {
		panic("peephole: invalid value for " + key)
	} else {
		return val
	}
}
