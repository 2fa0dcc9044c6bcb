package kafka

import "errors"

var (
	ErrProducerClosed = errors.New("producer is closed")
	ErrConsumerClosed = errors.New("consumer is closed")
	ErrEmptyMessage   = errors.New("message value is empty")
)
