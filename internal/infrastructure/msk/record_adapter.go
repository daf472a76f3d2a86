// Package msk adapts Lambda Kafka event source batches (Amazon MSK or
// self-managed Kafka triggers) to the key/value handlers used by the Kafka consumer.
package msk

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"sort"

	"github.com/aws/aws-lambda-go/events"
)

// Message is one decoded record from a Lambda Kafka batch
type Message struct {
	Topic     string
	Partition int64
	Offset    int64
	Key       []byte
	Value     []byte
}

// ConvertRecord decodes the base64 key and value of a record
func ConvertRecord(record events.KafkaRecord) (Message, error) {
	msg := Message{Topic: record.Topic, Partition: record.Partition, Offset: record.Offset}

	if record.Key != "" {
		key, err := base64.StdEncoding.DecodeString(record.Key)
		if err != nil {
			return msg, fmt.Errorf("failed to decode key: %w", err)
		}
		msg.Key = key
	}

	value, err := base64.StdEncoding.DecodeString(record.Value)
	if err != nil {
		return msg, fmt.Errorf("failed to decode value: %w", err)
	}
	if len(value) == 0 {
		return msg, fmt.Errorf("empty record value")
	}
	msg.Value = value
	return msg, nil
}

// BatchConvert decodes every record in the batch. Partitions are visited in
// sorted order and records keep their offset order within a partition.
func BatchConvert(event events.KafkaEvent) ([]Message, []error) {
	partitions := make([]string, 0, len(event.Records))
	for p := range event.Records {
		partitions = append(partitions, p)
	}
	sort.Strings(partitions)

	var messages []Message
	var errs []error
	for _, p := range partitions {
		for _, record := range event.Records[p] {
			msg, err := ConvertRecord(record)
			if err != nil {
				errs = append(errs, fmt.Errorf("record %s@%d: %w", p, record.Offset, err))
				continue
			}
			messages = append(messages, msg)
		}
	}
	return messages, errs
}

// Dispatch feeds every decodable record to handle. Failures are logged and
// skipped, matching the long-running consumer. It returns the success count.
func Dispatch(ctx context.Context, event events.KafkaEvent, handle func(ctx context.Context, key, value []byte) error) int {
	messages, errs := BatchConvert(event)
	for _, err := range errs {
		log.Printf("[Lambda Notifier] Skipping undecodable %v", err)
	}

	ok := 0
	for _, msg := range messages {
		if err := handle(ctx, msg.Key, msg.Value); err != nil {
			log.Printf("[Lambda Notifier] Failed to process %s-%d@%d: %v", msg.Topic, msg.Partition, msg.Offset, err)
			continue
		}
		ok++
	}
	return ok
}
