package amqp

import (
	"testing"
	"time"
)

func TestRecordSavedMessageRoundTrip(t *testing.T) {
	msg := NewRecordSavedMessage(KindRequest, 42)
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := RecordSavedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Kind != KindRequest || got.ID != 42 {
		t.Fatalf("got %+v", got)
	}
	if got.Timestamp.IsZero() || time.Since(got.Timestamp) > time.Minute {
		t.Fatalf("timestamp not set: %v", got.Timestamp)
	}
}

func TestRecordSavedMessageValidate(t *testing.T) {
	cases := []struct {
		msg *RecordSavedMessage
		ok  bool
	}{
		{NewRecordSavedMessage(KindRequest, 1), true},
		{NewRecordSavedMessage(KindUsage, 7), true},
		{NewRecordSavedMessage("order", 1), false},
		{NewRecordSavedMessage(KindRequest, 0), false},
		{NewRecordSavedMessage(KindUsage, -3), false},
	}
	for i, tc := range cases {
		err := tc.msg.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d: expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestRecordSavedMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := RecordSavedMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error")
	}
}
