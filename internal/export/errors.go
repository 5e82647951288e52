package export

import "errors"

var (
	ErrInvalidKafkaConfig = errors.New("invalid Kafka configuration provided")
	ErrPublishFailed      = errors.New("failed to publish snapshot to Kafka")
)
