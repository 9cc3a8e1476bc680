package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("MINTORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

// Default 返回仅含默认值的配置，供测试与本地运行使用
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 30)
	v.SetDefault("storage.backend", "minio")
	v.SetDefault("pinning.url", "https://api.pinata.cloud")
	v.SetDefault("pinning.gateway_url", "https://gateway.pinata.cloud")
	v.SetDefault("coin.protocol", "http")
	v.SetDefault("coin.chain_id", 8453)
	v.SetDefault("coin.seed_purchase_wei", "100000000000000")
	v.SetDefault("predictor.scorer", "heuristic")
	v.SetDefault("workflow.storage_timeout", 30)
	v.SetDefault("workflow.coin_timeout", 60)
	v.SetDefault("workflow.persist_timeout", 5)
	v.SetDefault("workflow.predict_timeout", 10)
	v.SetDefault("elastic.indices.content_index", "content")
	v.SetDefault("jwt.issuer", "Mintora")
	v.SetDefault("jwt.expire_hour", 24)
	v.SetDefault("logstash.index", "logstash-mintora")
}
