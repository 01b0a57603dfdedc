package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-sync/internal/config"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// EventTypePushReceived is the header on receipt messages.
const EventTypePushReceived = "PushReceived"

// Producer publishes push receipts.
type Producer struct {
	producer sarama.SyncProducer
	logger   *zap.Logger
	topic    string
}

func NewProducer(cfg *config.Config, logger *zap.Logger) (*Producer, error) {
	logger.Info("🔌 Creating Kafka producer",
		zap.Strings("brokers", cfg.KafkaBrokers),
	)

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Version = sarama.V2_8_0_0

	saramaConfig.Net.DialTimeout = 10 * time.Second
	saramaConfig.Net.ReadTimeout = 10 * time.Second
	saramaConfig.Net.WriteTimeout = 10 * time.Second

	producer, err := sarama.NewSyncProducer(cfg.KafkaBrokers, saramaConfig)
	if err != nil {
		logger.Error("❌ Failed to create Kafka producer",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	logger.Info("✅ Kafka producer created successfully",
		zap.Strings("brokers", cfg.KafkaBrokers),
	)

	return NewProducerWith(producer, cfg.KafkaTopicReceipts, logger), nil
}

// NewProducerWith wraps an existing sync producer.
func NewProducerWith(producer sarama.SyncProducer, topic string, logger *zap.Logger) *Producer {
	return &Producer{producer: producer, logger: logger, topic: topic}
}

func (p *Producer) Close() error {
	return p.producer.Close()
}

// PublishReceipt sends a receipt keyed by inbox item id.
func (p *Producer) PublishReceipt(ctx context.Context, r Receipt) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal receipt: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(r.InboxItemID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{
				Key:   []byte("event-type"),
				Value: []byte(EventTypePushReceived),
			},
		},
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.logger.Error("Failed to publish receipt",
			zap.String("topic", p.topic),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish receipt: %w", err)
	}

	p.logger.Debug("Receipt published",
		zap.String("topic", p.topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
		zap.String("inbox_item_id", r.InboxItemID),
	)
	return nil
}
