package config

import (
	"time"

	"github.com/BurntSushi/toml"
)

// Default returns the configurations used when a field is absent from the
// configuration file.
func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Host:     "localhost",
			Port:     "3306",
			Database: "quest",
			User:     "mysql",
		},
		ApiServer: APIServerConfigs{
			ServerConfigs: ServerConfigs{Port: "8080"},
			MaxLimit:      50,
			DefaultLimit:  10,
			AllowOrigins:  []string{"*"},
		},
		Auth:  AuthConfigs{TokenExpiration: 24 * time.Hour},
		File:  FileConfigs{MaxSize: 2 * 1024 * 1024},
		Quest: QuestConfigs{MaxWriteRetries: 3},
		Reward: RewardConfigs{
			RPCName:                "reward",
			MaxConcurrentTransfers: 4,
			DecimalPlaces:          8,
		},
		Redis: RedisConfigs{
			Addr:           "localhost:6379",
			LeaderboardTTL: 30 * time.Second,
		},
		Kafka: KafkaConfigs{
			Addr:       "localhost:9092",
			ClientID:   "quest-engine",
			EventTopic: "quest_event",
		},
	}
}

// Load reads a TOML file on top of the default configurations.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}
