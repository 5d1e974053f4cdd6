package kinesis

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/example/container-market/internal/infrastructure/store"
)

// EventFromKinesisRecord decodes a Kinesis record carrying a DynamoDB Streams
// payload into a store.Event. The DynamoDB-to-Kinesis integration wraps every
// stream record in the Streams JSON format, so the Kinesis data blob holds a
// full DynamoDBEventRecord.
//
// Only INSERT records are decoded; the event table is append-only, so any
// MODIFY or REMOVE record is a snapshot write or an operational cleanup and
// returns (nil, nil).
func EventFromKinesisRecord(record events.KinesisEventRecord) (*store.Event, error) {
	var streamRecord events.DynamoDBEventRecord
	if err := json.Unmarshal(record.Kinesis.Data, &streamRecord); err != nil {
		return nil, fmt.Errorf("unmarshaling stream record: %w", err)
	}
	return EventFromStreamRecord(streamRecord)
}

// EventFromStreamRecord decodes a DynamoDB Streams record directly, for
// deployments that attach the consumer to the stream instead of Kinesis.
func EventFromStreamRecord(record events.DynamoDBEventRecord) (*store.Event, error) {
	if record.EventName != "INSERT" {
		return nil, nil
	}
	return decodeImage(record.Change.NewImage)
}

// decodeImage maps the DynamoDB item attributes written by the event store
// back onto a store.Event. Attribute names match the dynamodbav tags on the
// store's item struct.
func decodeImage(image map[string]events.DynamoDBAttributeValue) (*store.Event, error) {
	if image == nil {
		return nil, fmt.Errorf("stream record has no new image")
	}

	event := &store.Event{}

	if v, ok := image["id"]; ok {
		event.ID = v.String()
	}
	if v, ok := image["aggregate_id"]; ok {
		event.AggregateID = v.String()
	}
	if v, ok := image["aggregate_type"]; ok {
		event.AggregateType = v.String()
	}
	if v, ok := image["event_type"]; ok {
		event.EventType = v.String()
	}
	if v, ok := image["data"]; ok {
		event.Data = json.RawMessage(v.String())
	}
	if v, ok := image["created_at"]; ok {
		t, err := time.Parse(time.RFC3339Nano, v.String())
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		event.Timestamp = t
	}
	if v, ok := image["version"]; ok {
		version, err := v.Integer()
		if err != nil {
			return nil, fmt.Errorf("parsing version: %w", err)
		}
		event.Version = int(version)
	}

	if event.ID == "" || event.AggregateID == "" || event.EventType == "" {
		return nil, fmt.Errorf("incomplete event item: id=%q aggregate_id=%q event_type=%q",
			event.ID, event.AggregateID, event.EventType)
	}

	return event, nil
}

// DecodeBatch converts every record of a Kinesis event, collecting decode
// failures per record so the caller can report partial batch failures.
func DecodeBatch(kinesisEvent events.KinesisEvent) ([]*store.Event, []error) {
	var decoded []*store.Event
	var errs []error

	for _, record := range kinesisEvent.Records {
		event, err := EventFromKinesisRecord(record)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %s: %w", record.EventID, err))
			continue
		}
		if event != nil {
			decoded = append(decoded, event)
		}
	}

	return decoded, errs
}
