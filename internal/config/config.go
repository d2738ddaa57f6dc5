package config

import (
	"github.com/spf13/viper"
)

// The service is expected to run with all of its connection settings as
// environment variables (e.g. injected into the pod); the defaults below
// target the local docker-compose setup with LocalStack.

type Config struct {
	DBHost            string `mapstructure:"DB_HOST"`
	DBPort            string `mapstructure:"DB_PORT"`
	DBUser            string `mapstructure:"DB_USER"`
	DBPassword        string `mapstructure:"DB_PASSWORD"`
	DBName            string `mapstructure:"DB_NAME"`
	ServerPort        string `mapstructure:"SERVER_PORT"`
	AWSRegion         string `mapstructure:"AWS_REGION"`
	IngestSQSQueueURL string `mapstructure:"INGEST_SQS_QUEUE_URL"`
	ReportSQSQueueURL string `mapstructure:"REPORT_SQS_QUEUE_URL"`
	AWSEndpoint       string `mapstructure:"AWS_ENDPOINT"`
	CompanyAPIURL     string `mapstructure:"COMPANY_API_URL"`
	OTLPEndpoint      string `mapstructure:"OTLP_ENDPOINT"`
	ReportSender      string `mapstructure:"REPORT_SENDER"`
	ReportRecipient   string `mapstructure:"REPORT_RECIPIENT"`
	IsLocalDev        bool   `mapstructure:"IS_LOCAL_DEV"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("DB_HOST", "db")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "shiftledger_db")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("AWS_REGION", "us-east-1") // Default region for AWS services
	viper.SetDefault("INGEST_SQS_QUEUE_URL", "http://localstack:4566/000000000000/shift-events-queue")
	viper.SetDefault("REPORT_SQS_QUEUE_URL", "http://localstack:4566/000000000000/shift-reports-queue")
	viper.SetDefault("AWS_ENDPOINT", "http://localstack:4566")
	viper.SetDefault("COMPANY_API_URL", "http://localhost:8081/")
	viper.SetDefault("OTLP_ENDPOINT", "jaeger:4317")
	viper.SetDefault("REPORT_SENDER", "reports@shiftledger.local")
	viper.SetDefault("REPORT_RECIPIENT", "manager@shiftledger.local")
	viper.SetDefault("IS_LOCAL_DEV", false)

	// Read in environment variables that match the keys.
	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	return
}
