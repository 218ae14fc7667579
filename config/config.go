package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/moyu-x/classified-records/internal"
)

const envPrefix = "RECORDS"

type Config struct {
	Source struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"source"`
	Target struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"target"`
	Organizer struct {
		VerifyCopies bool `mapstructure:"verify_copies"`
	} `mapstructure:"organizer"`
	Logging struct {
		Level string `mapstructure:"level"`
		File  string `mapstructure:"file"`
	} `mapstructure:"logging"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Storage struct {
		Endpoint  string `mapstructure:"endpoint"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
		Bucket    string `mapstructure:"bucket"`
		Region    string `mapstructure:"region"`
		Prefix    string `mapstructure:"prefix"`
		UseSSL    bool   `mapstructure:"use_ssl"`
		Workers   int    `mapstructure:"workers"`
	} `mapstructure:"storage"`
}

// flagKeys 命令行参数与配置键的对应关系
var flagKeys = map[string]string{
	"source":    "source.dir",
	"target":    "target.dir",
	"log-level": "logging.level",
	"log-file":  "logging.file",
	"db":        "database.path",
	"bucket":    "storage.bucket",
	"prefix":    "storage.prefix",
	"workers":   "storage.workers",
}

// Load 读取配置，优先级: 命令行参数 > 环境变量 > 配置文件 > 默认值
// configFile 为空时在默认位置查找 config.yaml，找不到不算错误
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.classified-records")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/classified-records")
	}

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("绑定参数 %s 失败: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.dir", internal.DefaultSourceDir)
	v.SetDefault("target.dir", internal.DefaultTargetDir)
	v.SetDefault("organizer.verify_copies", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("database.path", internal.DefaultDatabasePath)
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.prefix", "")
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.workers", internal.DefaultUploadWorkers)
}
