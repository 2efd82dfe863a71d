package queue

import "testing"

func TestNewConsumerRequiresRedisURL(t *testing.T) {
	_, err := NewConsumer(&ConsumerConfig{QueueName: "extraction:jobs"})
	if err == nil {
		t.Fatal("expected error when RedisURL is empty")
	}
}

func TestNewConsumerRequiresQueueName(t *testing.T) {
	_, err := NewConsumer(&ConsumerConfig{RedisURL: "redis://localhost:6379"})
	if err == nil {
		t.Fatal("expected error when QueueName is empty")
	}
}

func TestNewConsumerRequiresDriver(t *testing.T) {
	_, err := NewConsumer(&ConsumerConfig{
		RedisURL:  "redis://localhost:6379",
		QueueName: "extraction:jobs",
	})
	if err == nil {
		t.Fatal("expected error when Driver is nil")
	}
}
