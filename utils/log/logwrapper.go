/*
 * Copyright 2018 The QuorumSQL Authors.
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

// Package log is a wrapper of logrus, so that all packages share one
// configurable standard logger.
package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Fields defines the field map to pass to `WithFields`.
type Fields = logrus.Fields

// Entry is the logging entry after `WithFields` call.
type Entry = logrus.Entry

// Level is the log level type.
type Level = logrus.Level

// Log levels re-exported from logrus.
const (
	PanicLevel = logrus.PanicLevel
	FatalLevel = logrus.FatalLevel
	ErrorLevel = logrus.ErrorLevel
	WarnLevel  = logrus.WarnLevel
	InfoLevel  = logrus.InfoLevel
	DebugLevel = logrus.DebugLevel
)

// StandardLogger returns the shared logger instance.
func StandardLogger() *logrus.Logger {
	return logrus.StandardLogger()
}

// SetOutput sets the standard logger output.
func SetOutput(out io.Writer) {
	logrus.SetOutput(out)
}

// SetLevel sets the standard logger level.
func SetLevel(level Level) {
	logrus.SetLevel(level)
}

// GetLevel returns the standard logger level.
func GetLevel() Level {
	return logrus.GetLevel()
}

// SetStringLevel sets the standard logger level by string, fallback to
// defaultLevel on parse failure.
func SetStringLevel(level string, defaultLevel Level) {
	if lvl, err := logrus.ParseLevel(level); err != nil {
		SetLevel(defaultLevel)
	} else {
		SetLevel(lvl)
	}
}

// WithError creates an entry from the standard logger and adds an error to it.
func WithError(err error) *Entry {
	return logrus.WithError(err)
}

// WithField creates an entry from the standard logger and adds a field to it.
func WithField(key string, value interface{}) *Entry {
	return logrus.WithField(key, value)
}

// WithFields creates an entry from the standard logger and adds multiple fields
// to it.
func WithFields(fields Fields) *Entry {
	return logrus.WithFields(fields)
}

// Debug logs a message at level Debug on the standard logger.
func Debug(args ...interface{}) {
	logrus.Debug(args...)
}

// Info logs a message at level Info on the standard logger.
func Info(args ...interface{}) {
	logrus.Info(args...)
}

// Warning logs a message at level Warn on the standard logger.
func Warning(args ...interface{}) {
	logrus.Warning(args...)
}

// Error logs a message at level Error on the standard logger.
func Error(args ...interface{}) {
	logrus.Error(args...)
}

// Fatal logs a message at level Fatal on the standard logger then the process
// will exit with status set to 1.
func Fatal(args ...interface{}) {
	logrus.Fatal(args...)
}

// Debugf logs a message at level Debug on the standard logger.
func Debugf(format string, args ...interface{}) {
	logrus.Debugf(format, args...)
}

// Infof logs a message at level Info on the standard logger.
func Infof(format string, args ...interface{}) {
	logrus.Infof(format, args...)
}

// Warningf logs a message at level Warn on the standard logger.
func Warningf(format string, args ...interface{}) {
	logrus.Warningf(format, args...)
}

// Errorf logs a message at level Error on the standard logger.
func Errorf(format string, args ...interface{}) {
	logrus.Errorf(format, args...)
}

// Fatalf logs a message at level Fatal on the standard logger then the process
// will exit with status set to 1.
func Fatalf(format string, args ...interface{}) {
	logrus.Fatalf(format, args...)
}
