package config

import (
	"github.com/blues/lms/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Marketplace MarketplaceConfig `mapstructure:"marketplace"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// MarketplaceConfig 佣金与去重相关配置
type MarketplaceConfig struct {
	BaseCommissionRate    float64 `mapstructure:"base_commission_rate"`   // 默认基础佣金比例
	FreshSaleBonus        float64 `mapstructure:"fresh_sale_bonus"`       // 新鲜线索售出加成
	FreshSaleDays         int     `mapstructure:"fresh_sale_days"`        // 新鲜线索判定天数
	VerificationBonus     float64 `mapstructure:"verification_bonus"`     // 高验证率加成
	VerificationThreshold float64 `mapstructure:"verification_threshold"` // 高验证率门槛（百分比）
	MaxCommissionRate     float64 `mapstructure:"max_commission_rate"`    // 佣金比例上限
	HoldbackDays          int     `mapstructure:"holdback_days"`          // 佣金冻结天数
	IngestChunkSize       int     `mapstructure:"ingest_chunk_size"`      // 批量导入分块大小
	IngestWorkers         int     `mapstructure:"ingest_workers"`         // 批量导入并发数
}

type SchedulerConfig struct {
	Interval int `mapstructure:"interval"` // 秒
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/lms")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "leadmarket")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("marketplace.base_commission_rate", 0.30)
	viper.SetDefault("marketplace.fresh_sale_bonus", 0.10)
	viper.SetDefault("marketplace.fresh_sale_days", 7)
	viper.SetDefault("marketplace.verification_bonus", 0.05)
	viper.SetDefault("marketplace.verification_threshold", 95)
	viper.SetDefault("marketplace.max_commission_rate", 0.50)
	viper.SetDefault("marketplace.holdback_days", 14)
	viper.SetDefault("marketplace.ingest_chunk_size", 1000)
	viper.SetDefault("marketplace.ingest_workers", 4)
	viper.SetDefault("scheduler.interval", 60)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
