package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env      string
	LogLevel string

	Database  DatabaseConfigs
	ApiServer APIServerConfigs
	Auth      AuthConfigs
	Storage   S3Configs
	File      FileConfigs
	Quest     QuestConfigs
	Reward    RewardConfigs
	Redis     RedisConfigs
	Kafka     KafkaConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

type APIServerConfigs struct {
	ServerConfigs

	MaxLimit     int
	DefaultLimit int
	AllowOrigins []string
}

type AuthConfigs struct {
	TokenSecret     string
	TokenExpiration time.Duration
}

type S3Configs struct {
	Region         string
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	SSLDisabled    bool
}

type FileConfigs struct {
	MaxSize int
}

type QuestConfigs struct {
	// MaxWriteRetries is the number of times a transaction is replayed after
	// losing an optimistic version check.
	MaxWriteRetries int

	// NodeID distinguishes the ids of events generated by each instance.
	NodeID int64
}

type RewardConfigs struct {
	RPCEndpoint            string
	RPCName                string
	MaxConcurrentTransfers int
	DecimalPlaces          int32
}

type RedisConfigs struct {
	Addr           string
	LeaderboardTTL time.Duration
}

type KafkaConfigs struct {
	Addr       string
	ClientID   string
	EventTopic string
}
