// Copyright 2025 gusto Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"net/url"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *zap.Logger

func init() {
	// setup default logger
	var err error
	logger, err = zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
}

// Logger get current logger
func Logger() *zap.Logger {
	return logger
}

// CloseLogger replaces the logger with one that only reports fatal failures.
// Used by tests to silence expected log noise.
func CloseLogger() {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.FatalLevel)
	var err error
	logger, err = cfg.Build()
	if err != nil {
		panic(err)
	}
}

func AddFlags(flagSet *pflag.FlagSet) {
	flagSet.String("log-path", "", "path of log file")
	flagSet.Int("log-max-size", 100, "maximum size in megabytes of the log file")
	flagSet.Int("log-max-age", 0, "maximum number of days to retain old log files")
	flagSet.Int("log-max-backups", 0, "maximum number of old log files to retain")
}

func SetLogger(flagSet *pflag.FlagSet, debug bool) {
	// enable or disable debug mode
	var (
		encoder zapcore.Encoder
		level   zapcore.LevelEnabler
	)
	timeEncoder := zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.999999")

	if debug {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = timeEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
		level = zap.DebugLevel
	} else {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = timeEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
		level = zap.InfoLevel
	}
	// create lumberjack logger
	writers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if flagSet.Changed("log-path") {
		path, _ := flagSet.GetString("log-path")
		maxSize, _ := flagSet.GetInt("log-max-size")
		maxAge, _ := flagSet.GetInt("log-max-age")
		maxBackups, _ := flagSet.GetInt("log-max-backups")
		writers = append(writers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     maxAge,
			Compress:   false,
		}))
	}
	// create zap logger
	core := zapcore.NewCore(encoder, zap.CombineWriteSyncers(writers...), level)
	logger = zap.New(core)
}

// RedactDBURL hides the username and password of a database URL.
func RedactDBURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if parsed.User == nil {
		return rawURL
	}
	username := parsed.User.Username()
	password, _ := parsed.User.Password()
	parsed.User = url.UserPassword(strings.Repeat("x", len(username)), strings.Repeat("x", len(password)))
	return parsed.String()
}
