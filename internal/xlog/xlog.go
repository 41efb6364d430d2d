// Package xlog builds the zap loggers used throughout the application.
package xlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	timeKey = "time"

	EncodingJSON    = "json"
	EncodingConsole = "console"

	ModeStdout = "stdout"
	ModeFile   = "file"
)

var levels = map[string]zapcore.Level{
	"debug": zap.DebugLevel,
	"info":  zap.InfoLevel,
	"warn":  zap.WarnLevel,
	"error": zap.ErrorLevel,
}

// Conf describes where and how to log.
type Conf struct {
	// stdout or file
	Mode string `toml:"mode"`
	// directory and file name used in file mode
	Path     string `toml:"path"`
	Filename string `toml:"filename"`
	// json or console
	Encoding   string `toml:"encoding"`
	TimeFormat string `toml:"time_format"`
	// debug, info, warn, error
	Level string `toml:"level"`
	// rotation, file mode only
	MaxSize  int  `toml:"max_size"`
	KeepDays int  `toml:"keep_days"`
	Compress bool `toml:"compress"`
}

// Default returns a console logger configuration at info level.
func Default() Conf {
	return Conf{
		Mode:       ModeStdout,
		Filename:   "curveboard.log",
		Encoding:   EncodingConsole,
		TimeFormat: "2006-01-02 15:04:05",
		Level:      "info",
		MaxSize:    10,
		KeepDays:   7,
	}
}

// Validate reports configuration values New would reject.
func (c Conf) Validate() error {
	if _, ok := levels[c.Level]; !ok {
		return fmt.Errorf("unknown log level %q", c.Level)
	}
	switch c.Mode {
	case ModeStdout, ModeFile:
	default:
		return fmt.Errorf("unknown log mode %q", c.Mode)
	}
	switch c.Encoding {
	case EncodingConsole, EncodingJSON:
	default:
		return fmt.Errorf("unknown log encoding %q", c.Encoding)
	}
	return nil
}

// New builds a logger for conf. Empty fields take their value from Default.
func New(conf Conf, opts ...zap.Option) (*zap.Logger, error) {
	fill(&conf)
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	var out zapcore.WriteSyncer
	switch conf.Mode {
	case ModeFile:
		path := conf.Path
		if path == "" {
			wd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("resolve log directory: %w", err)
			}
			path = filepath.Join(wd, "logs")
		}
		out = zapcore.AddSync(&lumberjack.Logger{
			Filename: filepath.Join(path, conf.Filename),
			MaxSize:  conf.MaxSize,
			MaxAge:   conf.KeepDays,
			Compress: conf.Compress,
		})
	default:
		out = zapcore.Lock(os.Stdout)
	}

	opts = append([]zap.Option{zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)}, opts...)
	core := zapcore.NewCore(encoder(conf), out, levels[conf.Level])
	return zap.New(core, opts...), nil
}

func encoder(conf Conf) zapcore.Encoder {
	econf := zap.NewProductionEncoderConfig()
	econf.TimeKey = timeKey
	econf.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format(conf.TimeFormat))
	}
	if conf.Encoding == EncodingJSON {
		econf.EncodeLevel = zapcore.LowercaseLevelEncoder
		return zapcore.NewJSONEncoder(econf)
	}
	econf.EncodeLevel = zapcore.LowercaseColorLevelEncoder
	return zapcore.NewConsoleEncoder(econf)
}

func fill(conf *Conf) {
	def := Default()
	if conf.Mode == "" {
		conf.Mode = def.Mode
	}
	if conf.Filename == "" {
		conf.Filename = def.Filename
	}
	if conf.Encoding == "" {
		conf.Encoding = def.Encoding
	}
	if conf.TimeFormat == "" {
		conf.TimeFormat = def.TimeFormat
	}
	if conf.Level == "" {
		conf.Level = def.Level
	}
}
