/*
   Copyright @ 2021 bocloud <fushaosong@beyondcent.com>.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package log

import (
	"fmt"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugareLogger *zap.SugaredLogger

// Options controls where the console writes its own log.
// Path      log file, rotated by lumberjack
// Level     debug/info/warn/error
// MaxSize   megabytes per file
// MaxBackups rotated files kept
// MaxAge    days kept, 0 keeps forever
// Stderr    also write to stderr, the interactive stdout is never a log sink
type Options struct {
	Path       string
	Level      string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Stderr     bool
}

// until Setup is called only warnings reach stderr
func init() {
	core := zapcore.NewCore(newEncoder(), zapcore.Lock(os.Stderr), zap.WarnLevel)
	sugareLogger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

func newEncoder() zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "line",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

// Setup replaces the bootstrap logger with the configured one.
func Setup(opt Options) error {
	level := zap.NewAtomicLevel()
	if opt.Level == "" {
		opt.Level = "info"
	}
	if err := level.UnmarshalText([]byte(strings.ToLower(opt.Level))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", opt.Level, err)
	}
	if os.Getenv("DEBUG") != "" {
		level.SetLevel(zap.DebugLevel)
	}

	var syncers []zapcore.WriteSyncer
	if opt.Path != "" {
		hook := lumberjack.Logger{
			Filename:   opt.Path,
			MaxSize:    opt.MaxSize, // megabytes
			MaxBackups: opt.MaxBackups,
			MaxAge:     opt.MaxAge,
			Compress:   false,
		}
		syncers = append(syncers, zapcore.AddSync(&hook))
	}
	if opt.Stderr {
		syncers = append(syncers, zapcore.Lock(os.Stderr))
	}
	if len(syncers) == 0 {
		sugareLogger = zap.NewNop().Sugar()
		return nil
	}

	core := zapcore.NewCore(newEncoder(), zapcore.NewMultiWriteSyncer(syncers...), level)
	sugareLogger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
	return nil
}

// Sync flushes buffered entries, called before the process exits.
func Sync() {
	_ = sugareLogger.Sync()
}

func Debug(args ...interface{}) {
	sugareLogger.Debug(args...)
}

func Debugf(template string, args ...interface{}) {
	sugareLogger.Debugf(template, args...)
}

func Info(args ...interface{}) {
	sugareLogger.Info(args...)
}

func Infof(template string, args ...interface{}) {
	sugareLogger.Infof(template, args...)
}

func Warn(args ...interface{}) {
	sugareLogger.Warn(args...)
}

func Warnf(template string, args ...interface{}) {
	sugareLogger.Warnf(template, args...)
}

func Error(args ...interface{}) {
	sugareLogger.Error(args...)
}

func Errorf(template string, args ...interface{}) {
	sugareLogger.Errorf(template, args...)
}

func Fatal(args ...interface{}) {
	sugareLogger.Fatal(args...)
}

func Fatalf(template string, args ...interface{}) {
	sugareLogger.Fatalf(template, args...)
}
