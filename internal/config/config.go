package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port    string
	AppName string `mapstructure:"app_name"`
	Env     string // "development" or "production"
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	TimeZone    string
	TablePrefix string `mapstructure:"table_prefix"`
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret      string
	ExpireHours int    `mapstructure:"expire_hours"`
	Issuer      string
}

// AdminConfig controls seeding of the initial admin account.
type AdminConfig struct {
	Create   bool
	Name     string
	Email    string
	Password string
}

// IsDevelopment 是否为开发环境（决定是否向客户端暴露内部错误详情）
func (c *Config) IsDevelopment() bool {
	return c.Server.Env != "production"
}

func LoadConfig() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")        // 在当前目录中查找配置
	viper.AddConfigPath("./config") // 在 config 目录中查找配置

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.port", ":5000")
	viper.SetDefault("server.app_name", "ailinks")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("jwt.expire_hours", 24)
	viper.SetDefault("jwt.issuer", "ai-links")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Error reading config file, %s", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}
