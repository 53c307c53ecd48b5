package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Game   GameConfig
}

type ServerConfig struct {
	Address string
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
}

// GameConfig 遊戲相關設定，時長單位為秒
type GameConfig struct {
	FreeTimeDuration      int `mapstructure:"free_time_duration"`
	SelectionTimeDuration int `mapstructure:"selection_time_duration"`
	RoomCodeLength        int `mapstructure:"room_code_length"`
	MaxTotalRounds        int `mapstructure:"max_total_rounds"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./pkg/config")

	// 未提供設定檔時的預設值
	viper.SetDefault("game.free_time_duration", 180)
	viper.SetDefault("game.selection_time_duration", 120)
	viper.SetDefault("game.room_code_length", 6)
	viper.SetDefault("game.max_total_rounds", 10)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
