package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type ENV struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	Port   string
	AppURL string
	AppEnv string

	JWTSecret      string
	IdentityIssuer string

	RedisAddr     string
	RedisPassword string

	AmqpURL string

	UploadDir string

	PaymentFailRate  string
	PaymentLatencyMS string

	MidtransServerKey string
	MidtransClientKey string
}

func LoadEnv() ENV {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found")
	}

	return ENV{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),

		Port:   os.Getenv("APP_PORT"),
		AppURL: os.Getenv("APP_URL"),
		AppEnv: os.Getenv("APP_ENV"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		IdentityIssuer: os.Getenv("IDENTITY_ISSUER"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		AmqpURL: os.Getenv("AMQP_URL"),

		UploadDir: os.Getenv("UPLOAD_DIR"),

		PaymentFailRate:  os.Getenv("PAYMENT_FAIL_RATE"),
		PaymentLatencyMS: os.Getenv("PAYMENT_LATENCY_MS"),

		MidtransServerKey: os.Getenv("MIDTRANS_SERVER_KEY"),
		MidtransClientKey: os.Getenv("MIDTRANS_CLIENT_KEY"),
	}
}

func (e ENV) IsProduction() bool {
	return e.AppEnv == "production"
}

var LoadENV = LoadEnv()
