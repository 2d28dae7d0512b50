// pkg/aws/kinesis.go
package aws

import (
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/kinesis"
)

// KinesisClient publishes live-session lifecycle events. With no stream name
// configured it runs in mock mode and only logs.
type KinesisClient struct {
	client     *kinesis.Kinesis
	streamName string
	mockMode   bool
}

func NewKinesisClient(region, streamName string) *KinesisClient {
	if streamName == "" {
		log.Printf("🔧 Kinesis client running in mock mode (no stream configured)")
		return &KinesisClient{
			mockMode: true,
		}
	}

	sess := session.Must(session.NewSession(&aws.Config{
		Region: aws.String(region),
	}))

	return &KinesisClient{
		client:     kinesis.New(sess),
		streamName: streamName,
	}
}

func (k *KinesisClient) PutRecord(data string) error {
	if k.mockMode {
		log.Printf("📁 [MOCK] Kinesis put record: %s", data)
		return nil
	}

	input := &kinesis.PutRecordInput{
		Data:         []byte(data),
		PartitionKey: aws.String("default"),
		StreamName:   aws.String(k.streamName),
	}

	result, err := k.client.PutRecord(input)
	if err != nil {
		return fmt.Errorf("failed to put record to Kinesis: %w", err)
	}

	log.Printf("✅ Event published to Kinesis: %s", *result.SequenceNumber)
	return nil
}
