package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// LoadConfigWithName loads configuration using the specified name,
// auto-detecting the file type
func LoadConfigWithName(configName string) (*Config, error) {
	return loadConfig(configName, "")
}

// LoadConfigWithNameAndType loads configuration with explicit name and type
// specification (e.g. "yaml", "json")
func LoadConfigWithNameAndType(configName, configType string) (*Config, error) {
	return loadConfig(configName, configType)
}

// LoadConfig loads configuration from a .env file using the provided base
// name. This is the preferred method for loading environment-specific
// configurations.
func LoadConfig(configName string) (*Config, error) {
	configFileName := fmt.Sprintf("%s.env", configName)
	return loadConfig(configFileName, "env")
}

// loadConfig handles configuration loading from files and environment
// variables. It implements a layered approach:
// 1. Load defaults
// 2. Override with config file values (if found)
// 3. Override with environment variables
// 4. Validate the final configuration
func loadConfig(configName, configType string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configName)
	if configType != "" {
		v.SetConfigType(configType)
	}

	// Add config paths in order of priority
	v.AddConfigPath("./configs") // First check in configs directory
	v.AddConfigPath(".")         // Then check in root directory

	// Diagnostics go to stderr: stdout may carry machine-readable output
	// (the batch report) and must stay clean.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Fprintf(os.Stderr, "INFO: No config file '%s' found, relying on environment variables and defaults.\n", configName)
		} else {
			fmt.Fprintf(os.Stderr, "WARNING: Error reading config file (%s): %v\n", v.ConfigFileUsed(), err)
		}
	} else {
		fmt.Fprintf(os.Stderr, "INFO: Config loaded from file: %s\n", v.ConfigFileUsed())
	}

	v.AutomaticEnv() // Automatically read matching environment variables

	config := &Config{
		Application: ApplicationConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
		},
		Kafka: KafkaConfig{
			Brokers:           v.GetString("KAFKA_BROKERS"),
			OperationTopic:    v.GetString("KAFKA_OPERATION_TOPIC"),
			NumPartitions:     v.GetInt("KAFKA_NUM_PARTITIONS"),
			ReplicationFactor: v.GetInt("KAFKA_REPLICATION_FACTOR"),
			ConsumerGroup:     v.GetString("KAFKA_CONSUMER_GROUP"),
			MinBytes:          v.GetInt("KAFKA_CONSUMER_MIN_BYTES"),
			MaxBytes:          v.GetInt("KAFKA_CONSUMER_MAX_BYTES"),
			MaxWait:           v.GetDuration("KAFKA_CONSUMER_MAX_WAIT"),
			StartOffset:       v.GetInt64("KAFKA_CONSUMER_START_OFFSET"),
			DLQTopic:          v.GetString("KAFKA_DLQ_TOPIC"),
		},
		Processor: ProcessorConfig{
			AllowWithdrawalDisputes: v.GetBool("PROCESSOR_ALLOW_WITHDRAWAL_DISPUTES"),
		},
		WorkerPool: WorkerPoolConfig{
			Size: v.GetInt("WORKER_POOL_SIZE"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults initializes configuration with sensible default values.
// These are used when no configuration file or environment variables are
// present.
func setDefaults(v *viper.Viper) {
	// HTTP Server defaults - tuned for typical web application workloads
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 120*time.Second)

	// Kafka defaults - configured for development environment
	// Production environments should override these with appropriate values
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_OPERATION_TOPIC", "ledger_operations")
	v.SetDefault("KAFKA_NUM_PARTITIONS", 1)
	v.SetDefault("KAFKA_REPLICATION_FACTOR", 1)
	v.SetDefault("KAFKA_CONSUMER_GROUP", "ledger-processor-group")
	v.SetDefault("KAFKA_CONSUMER_MIN_BYTES", 10240)
	v.SetDefault("KAFKA_CONSUMER_MAX_BYTES", 10485760)
	v.SetDefault("KAFKA_CONSUMER_MAX_WAIT", time.Second)
	v.SetDefault("KAFKA_CONSUMER_START_OFFSET", 0)
	v.SetDefault("KAFKA_DLQ_TOPIC", "ledger_operations_dlq")

	// Processor defaults - deposits only, matching the classic dispute flow
	v.SetDefault("PROCESSOR_ALLOW_WITHDRAWAL_DISPUTES", false)

	// Logging defaults - 'info' provides good balance of information vs noise
	v.SetDefault("LOG_LEVEL", "info")

	// Application defaults - development-friendly baseline configuration
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "tx-dispute-ledger")

	// Worker Pool defaults - one batch run per worker
	v.SetDefault("WORKER_POOL_SIZE", 4)
}
