package queue

import (
	"encoding/json"
	"time"

	"workshop-management-backend/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Job is the envelope every queued message travels in. Attempt counts
// deliveries of this job, starting at 1.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	Attempt int             `json:"attempt"`
}

type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
}

func NewClient(url, exchange, queue string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		logger.Get().WithError(err).Error("failed to connect to RabbitMQ")
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		logger.Get().WithError(err).Error("failed to open RabbitMQ channel")
		return nil, err
	}

	client := &Client{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		queue:    queue,
	}

	args := amqp.Table{"x-delayed-type": "direct"}
	if err := ch.ExchangeDeclare(
		exchange,
		"x-delayed-message",
		true,
		false,
		false,
		false,
		args,
	); err != nil {
		logger.Get().WithError(err).Error("failed to declare exchange")
		return nil, err
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		logger.Get().WithError(err).Error("failed to declare queue")
		return nil, err
	}

	if err := ch.QueueBind(
		queue,
		"",
		exchange,
		false,
		nil,
	); err != nil {
		logger.Get().WithError(err).Error("failed to bind queue")
		return nil, err
	}

	logger.Get().Infof("RabbitMQ initialized (exchange=%s, queue=%s)", exchange, queue)

	return client, nil
}

func (c *Client) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	logger.Get().Info("RabbitMQ connection closed")
}

// Publish enqueues a new job of the given type for immediate delivery.
func (c *Client) Publish(jobType string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return c.publishJob(&Job{Type: jobType, Payload: raw, Attempt: 1}, 0)
}

// Requeue publishes the job again with a delivery delay, keeping its
// attempt count. Used by the worker for retries.
func (c *Client) Requeue(job *Job, delaySeconds int) error {
	return c.publishJob(job, delaySeconds)
}

func (c *Client) publishJob(job *Job, delaySeconds int) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}

	headers := amqp.Table{}
	if delaySeconds > 0 {
		headers["x-delay"] = int32(delaySeconds * 1000)
	}

	err = c.channel.Publish(
		c.exchange,
		"",
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
			Headers:     headers,
		},
	)

	if err != nil {
		logger.Get().WithError(err).Errorf("failed to publish %s job", job.Type)
	}
	return err
}

// Consume delivers queue messages to handler on a background goroutine.
// A handler error nacks the message back onto the queue.
func (c *Client) Consume(handler func([]byte) error) error {
	msgs, err := c.channel.Consume(
		c.queue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Get().WithError(err).Error("failed to start consuming messages")
		return err
	}

	go func() {
		for d := range msgs {
			if err := handler(d.Body); err != nil {
				logger.Get().Warnf("failed to process message: %v", err)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}()

	logger.Get().Infof("Started consuming from queue %s", c.queue)
	return nil
}
