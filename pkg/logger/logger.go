package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const TimeFormat = "2006-01-02 15:04:05"

// ParseLevel 解析日志级别，无法识别时返回 info
// level: "debug", "info", "warn", "error"
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New 创建输出到 out 的控制台格式 logger
func New(level string, out io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: TimeFormat}).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// Open 创建输出到控制台的 logger
// file 不为空时同时以无颜色格式追加写入该文件，返回的 close 用于关闭日志文件
func Open(level string, file string) (zerolog.Logger, func() error, error) {
	if file == "" {
		return New(level, os.Stdout), func() error { return nil }, nil
	}

	fileWriter, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	output := zerolog.MultiLevelWriter(
		zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: TimeFormat},
		zerolog.ConsoleWriter{Out: fileWriter, TimeFormat: TimeFormat, NoColor: true},
	)

	log := zerolog.New(output).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()

	return log, fileWriter.Close, nil
}
