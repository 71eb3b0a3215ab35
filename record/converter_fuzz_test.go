package record

import (
	"context"
	"testing"
)

// FuzzJSONToRecord feeds arbitrary JSON to the event converter.
// Run with: go test -fuzz=FuzzJSONToRecord -fuzztime=30s ./record/
func FuzzJSONToRecord(f *testing.F) {
	f.Add([]byte(`[{"entity_id":"test","event":"create","timestamp":1234567890.0}]`))
	f.Add([]byte(`[{"entity_id":"a","event":"b","timestamp":0.0,"details":{"key":"value"}}]`))
	f.Add([]byte(`[]`))
	f.Add([]byte(`[{}]`))
	f.Add([]byte(`[{"entity_id":"","event":"","timestamp":0,"note":null}]`))

	f.Add([]byte(`{}`))
	f.Add([]byte(`null`))
	f.Add([]byte(`"string"`))
	f.Add([]byte(`[null]`))
	f.Add([]byte(`[1,2,3]`))

	c, err := NewConverter[event](nil)
	if err != nil {
		f.Fatal(err)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		record, err := c.JSONToRecord(context.Background(), data)
		if err != nil {
			return
		}
		defer record.Release()
		if _, err := c.RecordToColumns(record); err != nil {
			t.Errorf("RecordToColumns failed on a converted record: %v", err)
		}
	})
}

// FuzzRowsToRecord converts single events built from fuzzed fields.
// Run with: go test -fuzz=FuzzRowsToRecord -fuzztime=30s ./record/
func FuzzRowsToRecord(f *testing.F) {
	f.Add("id1", "event1", 1234567890.0, "key1", "value1")
	f.Add("", "", 0.0, "", "")
	f.Add("a", "b", -1.0, "c", "d")
	f.Add("very-long-id-that-exceeds-normal-expectations", "event", 9999999999.999, "k", "v")

	c, err := NewConverter[event](nil)
	if err != nil {
		f.Fatal(err)
	}

	f.Fuzz(func(t *testing.T, entityID, eventName string, timestamp float64, detailKey, detailValue string) {
		rows := []event{{
			EntityID:  entityID,
			Event:     eventName,
			Timestamp: timestamp,
			Details:   map[string]string{detailKey: detailValue},
		}}

		record, err := c.RowsToRecord(context.Background(), rows)
		if err != nil {
			// Only invalid UTF-8 is rejected.
			return
		}
		defer record.Release()
		if record.NumRows() != 1 {
			t.Errorf("got %d rows, want 1", record.NumRows())
		}
	})
}
