package events

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
)

type sample struct {
	ItemID string `json:"item_id"`
	Level  string `json:"level"`
}

func TestNewJSONMessage_Decode(t *testing.T) {
	msg, err := NewJSONMessage("evt-1", 1, sample{ItemID: "abc", Level: "12.5"})
	if err != nil {
		t.Fatalf("NewJSONMessage: %v", err)
	}
	if got := msg.Metadata.Get(MetadataEventID); got != "evt-1" {
		t.Errorf("event_id = %q, want evt-1", got)
	}
	if got := msg.Metadata.Get(MetadataEventVersion); got != "1" {
		t.Errorf("event_version = %q, want 1", got)
	}

	got, err := Decode[sample](msg, 1)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.ItemID != "abc" || got.Level != "12.5" {
		t.Errorf("decoded %+v", got)
	}
}

func TestDecode_Rejects(t *testing.T) {
	newer, _ := NewJSONMessage("evt-2", 2, sample{})
	badVersion := message.NewMessage("id", []byte(`{}`))
	badVersion.Metadata.Set(MetadataEventVersion, "two")
	badBody := message.NewMessage("id", []byte(`{not json`))

	tests := []struct {
		name string
		msg  *message.Message
	}{
		{"newer version", newer},
		{"unparsable version", badVersion},
		{"invalid payload", badBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode[sample](tt.msg, 1); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewJSONMessage_Unmarshalable(t *testing.T) {
	if _, err := NewJSONMessage("evt", 1, make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}
