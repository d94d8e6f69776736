package config

import "github.com/aws/aws-sdk-go-v2/service/s3"

type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	BasePath string `yaml:"base_path"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Client   *s3.Client
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Local    bool   `yaml:"local"`
}

type JWTConfig struct {
	SecretKey      string `yaml:"secret_key"`
	AccessTokenTTL string `yaml:"access_token_ttl"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	From     string `yaml:"from"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type QueueConfig struct {
	URL               string `yaml:"url"`
	NotificationQueue string `yaml:"notification_queue"`
	IndexQueue        string `yaml:"index_queue"`
}

type AdminConfig struct {
	AdminToken string `yaml:"admin_token"`
}

type TTL struct {
	// секунды
	S3AndRedis    int `yaml:"s3_and_redis"`
	ResponseToken int `yaml:"response_token"`
}
