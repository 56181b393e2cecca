package events

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Metadata keys set on every domain event message.
const (
	MetadataEventID      = "event_id"
	MetadataEventVersion = "event_version"
)

// NewJSONMessage marshals payload into a message stamped with the event's
// identity and schema version.
func NewJSONMessage(eventID string, version int, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: marshal payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(MetadataEventID, eventID)
	msg.Metadata.Set(MetadataEventVersion, strconv.Itoa(version))
	return msg, nil
}

// Decode unmarshals msg's payload into T. Messages whose event_version is
// newer than maxVersion are rejected so an old worker never half-reads a new schema.
func Decode[T any](msg *message.Message, maxVersion int) (T, error) {
	var out T
	if v := msg.Metadata.Get(MetadataEventVersion); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return out, fmt.Errorf("events: bad %s %q: %w", MetadataEventVersion, v, err)
		}
		if n > maxVersion {
			return out, fmt.Errorf("events: unsupported event version %d (max %d)", n, maxVersion)
		}
	}
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		return out, fmt.Errorf("events: decode payload: %w", err)
	}
	return out, nil
}
