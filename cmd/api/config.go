package main

import "github.com/fastprodman/storefront/internal/config"

type apiConfig struct {
	Server   config.ServerConfig
	Log      config.LogConfig
	Postgres config.PostgresConfig
	Redis    config.RedisConfig
	Binance  config.BinanceConfig
}
