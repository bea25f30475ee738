package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBUrl            string
	RedisURL         string
	RedisPassword    string
	JWTSecret        string
	ProvisionSecret  string
	MinDepositAmount float64
	Port             string
	Host             string
	Env              string
	AllowedOrigins   []string
}

func LoadConfig() Config {
	godotenv.Load()

	minDepositStr := getEnv("MIN_DEPOSIT_AMOUNT")
	minDeposit, err := strconv.ParseFloat(minDepositStr, 64)
	if err != nil {
		panic("MIN_DEPOSIT_AMOUNT must be a valid number")
	}

	return Config{
		DBUrl:            getEnv("DATABASE_URL"),
		RedisURL:         getEnv("REDIS_URL"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		JWTSecret:        getEnv("JWT_SECRET"),
		ProvisionSecret:  getEnv("PROVISION_SECRET"),
		MinDepositAmount: minDeposit,
		Port:             getEnv("PORT"),
		Host:             getEnv("HOST"),
		Env:              getEnv("ENV"),
		AllowedOrigins:   strings.Split(getEnv("ALLOWED_ORIGINS"), ","),
	}
}

func getEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	panic(fmt.Sprintf("%s is required", key))
}
