package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-sync/internal/config"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// consumeRestartDelay spaces out restarts after a failed Consume call.
const consumeRestartDelay = 5 * time.Second

// Processor handles one decoded event.
type Processor interface {
	ProcessEvent(ctx context.Context, eventType string, data []byte) error
}

// Consumer reads push-arrival events from Kafka.
type Consumer struct {
	consumerGroup sarama.ConsumerGroup
	processor     Processor
	logger        *zap.Logger
	config        *config.Config
	topics        []string
	restartDelay  time.Duration
	sleep         func(ctx context.Context, d time.Duration) error
}

func NewConsumer(cfg *config.Config, processor Processor, logger *zap.Logger) (*Consumer, error) {
	logger.Info("🔌 Creating Kafka consumer",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("group_id", cfg.KafkaGroupID),
	)

	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	// Only pushes that arrive while running matter
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Version = sarama.V2_8_0_0

	saramaConfig.Net.DialTimeout = 10 * time.Second
	saramaConfig.Net.ReadTimeout = 10 * time.Second
	saramaConfig.Net.WriteTimeout = 10 * time.Second

	saramaConfig.Metadata.RefreshFrequency = 10 * time.Minute
	saramaConfig.Metadata.Retry.Max = 3
	saramaConfig.Metadata.Retry.Backoff = 250 * time.Millisecond

	consumerGroup, err := sarama.NewConsumerGroup(cfg.KafkaBrokers, cfg.KafkaGroupID, saramaConfig)
	if err != nil {
		logger.Error("❌ Failed to create Kafka consumer group",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	logger.Info("✅ Kafka consumer group created successfully",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("group_id", cfg.KafkaGroupID),
	)

	return &Consumer{
		consumerGroup: consumerGroup,
		processor:     processor,
		logger:        logger,
		config:        cfg,
		topics:        []string{cfg.KafkaTopicPush},
		restartDelay:  consumeRestartDelay,
		sleep:         sleepContext,
	}, nil
}

// Start consumes until ctx is cancelled or the group is closed. Broker errors
// are logged and consumption restarts after a delay.
func (c *Consumer) Start(ctx context.Context) error {
	handler := newHandler(c.processor, c.config, c.logger)

	go func() {
		for err := range c.consumerGroup.Errors() {
			c.logger.Error("Consumer error", zap.Error(err))
		}
	}()

	c.logger.Info("Kafka consumer started",
		zap.Strings("topics", c.topics),
		zap.String("group_id", c.config.KafkaGroupID),
	)

	for {
		err := c.consumerGroup.Consume(ctx, c.topics, handler)
		if errors.Is(err, sarama.ErrClosedConsumerGroup) || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			c.logger.Error("Error from consumer, restarting",
				zap.Duration("delay", c.restartDelay),
				zap.Error(err),
			)
			if err := c.sleep(ctx, c.restartDelay); err != nil {
				return nil
			}
		}
	}
}

func (c *Consumer) Close() error {
	return c.consumerGroup.Close()
}

// consumerGroupHandler handles Kafka consumer group messages
type consumerGroupHandler struct {
	processor  Processor
	logger     *zap.Logger
	maxRetries int
	retryDelay time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

func newHandler(processor Processor, cfg *config.Config, logger *zap.Logger) *consumerGroupHandler {
	return &consumerGroupHandler{
		processor:  processor,
		logger:     logger,
		maxRetries: cfg.MaxRetries,
		retryDelay: time.Duration(cfg.RetryDelayMs) * time.Millisecond,
		sleep:      sleepContext,
	}
}

// Setup is run at the beginning of a new session, before ConsumeClaim
func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim must start a consumer loop of ConsumerGroupClaim's Messages()
func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}
			h.handleMessage(session.Context(), message)
			// failed messages are marked too; a stuck push must not block the partition
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *consumerGroupHandler) handleMessage(ctx context.Context, message *sarama.ConsumerMessage) {
	eventType := extractEventType(message.Headers)
	if eventType == "" {
		h.logger.Warn("Message without event type, skipping",
			zap.String("topic", message.Topic),
			zap.Int("partition", int(message.Partition)),
			zap.Int64("offset", message.Offset),
		)
		return
	}

	if err := h.processWithRetry(ctx, eventType, message.Value); err != nil {
		h.logger.Error("Failed to process event",
			zap.String("event_type", eventType),
			zap.String("topic", message.Topic),
			zap.Int64("offset", message.Offset),
			zap.Error(err),
		)
	}
}

// processWithRetry retries transient failures with a linear delay.
func (h *consumerGroupHandler) processWithRetry(ctx context.Context, eventType string, data []byte) error {
	var lastErr error
	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		if attempt > 0 {
			delay := h.retryDelay * time.Duration(attempt)
			h.logger.Info("Retrying event processing",
				zap.String("event_type", eventType),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
			)
			if err := h.sleep(ctx, delay); err != nil {
				return err
			}
		}

		err := h.processor.ProcessEvent(ctx, eventType, data)
		if err == nil {
			return nil
		}
		lastErr = err
		if errors.Is(err, ErrPermanent) {
			return err
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", h.maxRetries+1, lastErr)
}

// extractEventType extracts event type from Kafka message headers
func extractEventType(headers []*sarama.RecordHeader) string {
	for _, header := range headers {
		if string(header.Key) == "event-type" {
			return string(header.Value)
		}
	}
	return ""
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
