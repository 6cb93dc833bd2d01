package cmd

import "strings"

type Config struct {
	HTTPPort                    string
	DBHost                      string
	DBPort                      string
	DBUser                      string
	DBPassword                  string
	DBName                      string
	DBSslMode                   string
	KafkaHost                   string
	KafkaConsumerGroup          string
	KafkaOrderCompletedTopic    string
	KafkaFulfillmentStatusTopic string
	StrictTransitions           bool
	ShipPolicy                  string
	StatsJobSchedule            string
	LogLevel                    string
}

// KafkaBrokers splits the comma-separated KAFKA_HOST value. It is empty
// when Kafka is not configured.
func (c Config) KafkaBrokers() []string {
	brokers := make([]string, 0)
	for _, b := range strings.Split(c.KafkaHost, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
