package service

import (
	"context"
	"encoding/json"
	"errors"
	"gateway/config"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

var (
	dispatchProcessorOnce sync.Once
	dispatchProcessor     *DispatchProcessor
)

// DispatchMessage asks the gateway to create a carrier order for a local
// order.
type DispatchMessage struct {
	OrderID int64 `json:"order_id"`
}

// StatusEventMessage is published after a webhook transition is applied so
// downstream consumers (notifications, analytics) see the same lifecycle.
type StatusEventMessage struct {
	OrderID        int64  `json:"order_id"`
	CarrierOrderID string `json:"carrier_order_id"`
	Status         string `json:"status"`
	Event          string `json:"event,omitempty"`
}

type DispatchProcessor struct {
	consumer     sarama.ConsumerGroup
	consumeTopic string

	producer     sarama.AsyncProducer
	produceTopic string

	svc *Service

	queuedEvents chan *StatusEventMessage
}

func NewDispatchProcessor(config *config.Config, svc *Service) {
	dispatchProcessorOnce.Do(func() {
		cConfig := sarama.NewConfig()
		version, err := sarama.ParseKafkaVersion(config.DispatchConsumerConfig.Version)
		if err != nil {
			zap.L().Fatal("failed to parse kafka version", zap.Error(err))
		}
		cConfig.Version = version
		cConfig.Net.TLS.Enable = false

		c, err := sarama.NewConsumerGroup(config.DispatchConsumerConfig.Brokers, config.DispatchConsumerConfig.GroupID, cConfig)
		if err != nil {
			zap.L().Fatal("failed to start consumer", zap.Error(err))
		}

		pConfig := sarama.NewConfig()
		version, err = sarama.ParseKafkaVersion(config.StatusProducerConfig.Version)
		if err != nil {
			zap.L().Fatal("failed to parse kafka version", zap.Error(err))
		}
		pConfig.Version = version
		pConfig.Net.TLS.Enable = false

		p, err := sarama.NewAsyncProducer(config.StatusProducerConfig.Brokers, pConfig)
		if err != nil {
			zap.L().Fatal("failed to start producer", zap.Error(err))
		}

		dispatchProcessor = &DispatchProcessor{
			consumer:     c,
			consumeTopic: config.DispatchConsumerConfig.Topic,
			producer:     p,
			produceTopic: config.StatusProducerConfig.Topic,
			svc:          svc,
			queuedEvents: make(chan *StatusEventMessage, 256),
		}
	})
}

func GetDispatchProcessor() *DispatchProcessor {
	return dispatchProcessor
}

// AddStatusEvent queues a status-change event for publication.
func (p *DispatchProcessor) AddStatusEvent(msg *StatusEventMessage) {
	p.queuedEvents <- msg
}

func (p *DispatchProcessor) Run() {
	zap.L().Info("dispatch processor started")

	ctx, cancel := context.WithCancel(context.Background())

	keepRunning := true

	consumer := DispatchConsumer{
		ready: make(chan bool),
		svc:   p.svc,
	}

	wg := &sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			// `Consume` should be called inside an infinite loop, when a
			// server-side rebalance happens, the consumer session will need to be
			// recreated to get the new claims
			if err := p.consumer.Consume(ctx, []string{p.consumeTopic}, &consumer); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return
				}
				zap.L().Fatal("error from consumer: " + err.Error())
			}
			// check if context was cancelled, signaling that the consumer should stop
			if ctx.Err() != nil {
				return
			}
			consumer.ready = make(chan bool)
		}
	}()

	<-consumer.ready // Await till the consumer has been set up
	zap.L().Info("Sarama consumer up and running!...")

	wg.Add(1)
	go func() {
		defer wg.Done()
		for err := range p.producer.Errors() {
			zap.L().Error("failed to produce message", zap.Error(err))
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()

	ProducerLoop:
		for {
			select {
			case msg := <-p.queuedEvents:
				bytes, err := json.Marshal(msg)
				if err != nil {
					zap.L().Error("failed to marshal status event", zap.Error(err))
					continue
				}
				zap.L().Sugar().Infof("producing status event: %s", string(bytes))
				p.producer.Input() <- &sarama.ProducerMessage{Topic: p.produceTopic, Value: sarama.StringEncoder(string(bytes))}
			case <-ctx.Done():
				p.producer.AsyncClose() // Trigger a shutdown of the producer.
				break ProducerLoop
			}
		}
	}()

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)

	for keepRunning {
		select {
		case <-ctx.Done():
			zap.L().Info("terminating: context cancelled")
			keepRunning = false
		case <-sigterm:
			zap.L().Info("terminating: via signal")
			keepRunning = false
		}
	}

	cancel()
	wg.Wait()
	if err := p.consumer.Close(); err != nil {
		zap.L().Fatal("error closing consumer: " + err.Error())
	}
}

// DispatchConsumer represents a Sarama consumer group consumer
type DispatchConsumer struct {
	ready chan bool
	svc   *Service
}

// Setup is run at the beginning of a new session, before ConsumeClaim
func (consumer *DispatchConsumer) Setup(sarama.ConsumerGroupSession) error {
	// Mark the consumer as ready
	close(consumer.ready)
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited
func (consumer *DispatchConsumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim must start a consumer loop of ConsumerGroupClaim's Messages().
// Once the Messages() channel is closed, the Handler must finish its processing
// loop and exit.
func (consumer *DispatchConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				zap.L().Info("message channel was closed")
				return nil
			}
			zap.L().Sugar().Infof("message claimed: value = %s, timestamp = %v, topic = %s", string(message.Value), message.Timestamp, message.Topic)
			if err := consumer.processDispatch(message.Value); err != nil {
				zap.L().Error("failed to process dispatch message", zap.Error(err))
			}
			session.MarkMessage(message, "")
		// Should return when `session.Context()` is done.
		// If not, will raise `ErrRebalanceInProgress` or `read tcp <ip>:<port>: i/o timeout` when kafka rebalance. see:
		// https://github.com/IBM/sarama/issues/1192
		case <-session.Context().Done():
			return nil
		}
	}
}

func (consumer *DispatchConsumer) processDispatch(data []byte) error {
	var msg DispatchMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}

	if msg.OrderID == 0 {
		zap.L().Warn("received dispatch message without order_id")
		return nil
	}

	carrierOrderID, err := consumer.svc.CreateDeliveryOrder(msg.OrderID)
	if err != nil {
		zap.L().Error("dispatch failed",
			zap.Int64("order_id", msg.OrderID),
			zap.Error(err))
		return nil
	}

	zap.L().Info("dispatch complete",
		zap.Int64("order_id", msg.OrderID),
		zap.String("carrier_order_id", carrierOrderID))

	return nil
}
