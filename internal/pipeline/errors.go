package pipeline

import "errors"

var (
	ErrInvalidKafkaConfig = errors.New("invalid Kafka configuration provided")
	ErrKafkaFetchFailed   = errors.New("failed to fetch message from Kafka")
	ErrConsumerRunFailed  = errors.New("consumer component failed")
	ErrReporterRunFailed  = errors.New("reporter component failed")
)
