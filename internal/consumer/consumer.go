package consumer

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/Maho1100/growth-loop-engine/internal/config"
	"github.com/Maho1100/growth-loop-engine/internal/metrics"
	"github.com/Maho1100/growth-loop-engine/internal/queue"
	"github.com/Maho1100/growth-loop-engine/internal/repository"
)

// Consumer orchestrates a pipeline of stages to process SQS messages
type Consumer struct {
	receiver    *Receiver
	parser      *ParserStage
	batchWriter *BatchWriter
}

// NewConsumer creates a new consumer with a pipeline architecture
func NewConsumer(cfg *config.Config, queueConsumer queue.QueueConsumer, store repository.EventStore, m *metrics.Metrics, log *zap.Logger) *Consumer {
	receiver := NewReceiver(queueConsumer, ReceiverConfig{
		MaxMessages:     10,
		WaitTimeSeconds: 20,
		BufferSize:      100,
	}, log)

	parser := NewParserStage(queueConsumer, NewJSONEventParser(), log)

	batchWriter := NewBatchWriter(store, BatchWriterConfig{
		MaxBatchSize: cfg.Consumer.BatchSizeMax,
		FlushTimeout: time.Duration(cfg.Consumer.BatchTimeoutSec) * time.Second,
	}, m, log)

	return &Consumer{
		receiver:    receiver,
		parser:      parser,
		batchWriter: batchWriter,
	}
}

// Start begins the consumer pipeline
func (c *Consumer) Start(ctx context.Context) error {
	messageChan := make(chan types.Message, 100)
	envelopeChan := make(chan *Envelope, 100)

	var wg sync.WaitGroup

	wg.Add(3)

	// Stage 1: Receive messages from SQS
	go func() {
		defer wg.Done()
		c.receiver.Start(ctx, messageChan)
	}()

	// Stage 2: Parse and validate messages into envelopes
	go func() {
		defer wg.Done()
		c.parser.Start(ctx, messageChan, envelopeChan)
	}()

	// Stage 3: Batch and append to the event store
	go func() {
		defer wg.Done()
		c.batchWriter.Start(ctx, envelopeChan)
	}()

	wg.Wait()
	return nil
}
