package cmd_test

import (
	"testing"

	"fulfillment/cmd"

	"github.com/stretchr/testify/assert"
)

func TestConfig_KafkaBrokers(t *testing.T) {
	assert.Empty(t, cmd.Config{}.KafkaBrokers())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"},
		cmd.Config{KafkaHost: " kafka-1:9092, ,kafka-2:9092"}.KafkaBrokers())
}
