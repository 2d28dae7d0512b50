// internal/store/dynamodb.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"

	"github.com/eventcast/live-session-service/internal/config"
	"github.com/eventcast/live-session-service/internal/models"
)

const eventCacheTTL = time.Hour

// DynamoStore is the durable RecordStore. Event reads go through the Redis
// cache first; any event write invalidates the cached copy.
type DynamoStore struct {
	client        *dynamodb.DynamoDB
	eventsTable   string
	sessionsTable string
	cache         *RedisCache
}

func NewDynamoStore(cfg *config.Config, cache *RedisCache) *DynamoStore {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.AWSRegion),
	}
	if cfg.DynamoDBEndpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.DynamoDBEndpoint)
	}
	sess := session.Must(session.NewSession(awsCfg))

	return &DynamoStore{
		client:        dynamodb.New(sess),
		eventsTable:   cfg.DynamoDBEventsTable,
		sessionsTable: cfg.DynamoDBSessionsTable,
		cache:         cache,
	}
}

func (s *DynamoStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	// Try Redis first
	if s.cache != nil {
		if data, err := s.cache.GetEventData(id); err == nil && data != "" {
			var ev models.Event
			if json.Unmarshal([]byte(data), &ev) == nil {
				return &ev, nil
			}
		}
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.eventsTable),
		Key: map[string]*dynamodb.AttributeValue{
			"id": {
				S: aws.String(id),
			},
		},
	}

	result, err := s.client.GetItemWithContext(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if result.Item == nil {
		return nil, ErrEventNotFound
	}

	var ev models.Event
	if err := dynamodbattribute.UnmarshalMap(result.Item, &ev); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	s.cacheEvent(&ev)
	return &ev, nil
}

func (s *DynamoStore) CreateOrGetEvent(ctx context.Context, id string) (*models.Event, error) {
	ev, err := s.GetEvent(ctx, id)
	if err == nil {
		return ev, nil
	}
	if err != ErrEventNotFound {
		return nil, err
	}

	now := time.Now()
	ev = &models.Event{
		ID:              id,
		LiveModeEnabled: false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	item, err := dynamodbattribute.MarshalMap(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.eventsTable),
		Item:      item,
	}

	if _, err := s.client.PutItemWithContext(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to put event: %w", err)
	}

	log.Printf("✅ Event created in DynamoDB: %s", id)
	s.cacheEvent(ev)
	return ev, nil
}

func (s *DynamoStore) UpdateEvent(ctx context.Context, id string, fields Fields) error {
	fields["updated_at"] = time.Now()

	expr, names, values, err := buildUpdateExpression(fields)
	if err != nil {
		return err
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.eventsTable),
		Key: map[string]*dynamodb.AttributeValue{
			"id": {
				S: aws.String(id),
			},
		},
		UpdateExpression:         aws.String(expr),
		ExpressionAttributeNames: names,
	}
	if len(values) > 0 {
		input.ExpressionAttributeValues = values
	}

	if _, err := s.client.UpdateItemWithContext(ctx, input); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	// Stale reads here would defeat the polling convergence contract.
	if s.cache != nil {
		if err := s.cache.DeleteEventData(id); err != nil {
			log.Printf("⚠️ Warning: Could not invalidate event cache: %v", err)
		}
	}

	return nil
}

func (s *DynamoStore) CreateSession(ctx context.Context, sess *models.StreamSession) error {
	item, err := dynamodbattribute.MarshalMap(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.sessionsTable),
		Item:      item,
	}

	if _, err := s.client.PutItemWithContext(ctx, input); err != nil {
		return fmt.Errorf("failed to put session: %w", err)
	}

	log.Printf("✅ Stream session created in DynamoDB: %s", sess.ID)
	return nil
}

func (s *DynamoStore) UpdateSession(ctx context.Context, id string, fields Fields) error {
	fields["updated_at"] = time.Now()

	expr, names, values, err := buildUpdateExpression(fields)
	if err != nil {
		return err
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.sessionsTable),
		Key: map[string]*dynamodb.AttributeValue{
			"id": {
				S: aws.String(id),
			},
		},
		UpdateExpression:         aws.String(expr),
		ExpressionAttributeNames: names,
	}
	if len(values) > 0 {
		input.ExpressionAttributeValues = values
	}

	if _, err := s.client.UpdateItemWithContext(ctx, input); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}

func (s *DynamoStore) FindActiveSession(ctx context.Context, eventID string) (*models.StreamSession, error) {
	input := &dynamodb.ScanInput{
		TableName:        aws.String(s.sessionsTable),
		FilterExpression: aws.String("event_id = :event_id AND (#status = :pending OR #status = :live)"),
		ExpressionAttributeNames: map[string]*string{
			"#status": aws.String("status"),
		},
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":event_id": {
				S: aws.String(eventID),
			},
			":pending": {
				S: aws.String(string(models.SessionStatusPending)),
			},
			":live": {
				S: aws.String(string(models.SessionStatusLive)),
			},
		},
	}

	result, err := s.client.ScanWithContext(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to scan sessions: %w", err)
	}

	if len(result.Items) == 0 {
		return nil, ErrSessionNotFound
	}

	var sess models.StreamSession
	if err := dynamodbattribute.UnmarshalMap(result.Items[0], &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &sess, nil
}

func (s *DynamoStore) FindSessionByStreamID(ctx context.Context, platformStreamID string) (*models.StreamSession, error) {
	input := &dynamodb.ScanInput{
		TableName:        aws.String(s.sessionsTable),
		FilterExpression: aws.String("platform_stream_id = :platform_stream_id"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":platform_stream_id": {
				S: aws.String(platformStreamID),
			},
		},
	}

	result, err := s.client.ScanWithContext(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to scan sessions: %w", err)
	}

	if len(result.Items) == 0 {
		return nil, ErrSessionNotFound
	}

	var sess models.StreamSession
	if err := dynamodbattribute.UnmarshalMap(result.Items[0], &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &sess, nil
}

func (s *DynamoStore) cacheEvent(ev *models.Event) {
	if s.cache == nil {
		return
	}
	data, _ := json.Marshal(ev)
	if err := s.cache.SetEventData(ev.ID, string(data), eventCacheTTL); err != nil {
		log.Printf("⚠️ Warning: Could not cache event: %v", err)
	}
}

// buildUpdateExpression turns a partial Fields map into SET / REMOVE clauses.
// Nil values become REMOVE so cleared fields actually disappear from the item.
func buildUpdateExpression(fields Fields) (string, map[string]*string, map[string]*dynamodb.AttributeValue, error) {
	names := make(map[string]*string)
	values := make(map[string]*dynamodb.AttributeValue)

	var sets, removes []string
	i := 0
	for key, value := range fields {
		name := fmt.Sprintf("#f%d", i)
		names[name] = aws.String(key)

		if value == nil {
			removes = append(removes, name)
			i++
			continue
		}

		av, err := dynamodbattribute.Marshal(value)
		if err != nil {
			return "", nil, nil, fmt.Errorf("failed to marshal field %s: %w", key, err)
		}
		placeholder := fmt.Sprintf(":v%d", i)
		values[placeholder] = av
		sets = append(sets, fmt.Sprintf("%s = %s", name, placeholder))
		i++
	}

	var parts []string
	if len(sets) > 0 {
		parts = append(parts, "SET "+strings.Join(sets, ", "))
	}
	if len(removes) > 0 {
		parts = append(parts, "REMOVE "+strings.Join(removes, ", "))
	}

	return strings.Join(parts, " "), names, values, nil
}
