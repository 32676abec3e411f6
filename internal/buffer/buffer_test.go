package buffer

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dyne/rotbuf/internal/record"
)

func filled() *Buffer {
	b := New()
	b.Add("Hello", "ROT13", record.StatusEncrypted)
	b.Add("Good morning", "ROT47", record.StatusDecrypted)
	return b
}

func TestRenderEmpty(t *testing.T) {
	if got := New().Render(); got != "Buffer empty" {
		t.Fatalf("Render() = %q", got)
	}
}

func TestAddRender(t *testing.T) {
	b := New()
	b.Add("Test", "ROT13", record.StatusEncrypted)
	if b.Len() != 1 {
		t.Fatalf("Len() = %d", b.Len())
	}
	if got := b.Render(); !strings.Contains(got, "1. ROT:[ROT13], STATUS[encrypted]: Test") {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestRenderOrder(t *testing.T) {
	want := "Buffer content:\n" +
		"1. ROT:[ROT13], STATUS[encrypted]: Hello\n" +
		"2. ROT:[ROT47], STATUS[decrypted]: Good morning"
	if got := filled().Render(); got != want {
		t.Fatalf("render mismatch\nexpected:\n%s\nactual:\n%s", want, got)
	}
}

func TestClear(t *testing.T) {
	b := filled()
	b.Clear()
	if got := b.Render(); got != "Buffer empty" {
		t.Fatalf("Render() after Clear = %q", got)
	}
	b.Clear()
	if b.Len() != 0 {
		t.Fatalf("Len() = %d", b.Len())
	}
}

func TestAddBulk(t *testing.T) {
	b := New()
	err := b.AddBulk([]record.Plain{
		{Content: "First", RotType: "ROT13", Status: "decrypted"},
		{Content: "Second", RotType: "ROT47", Status: "encrypted"},
	})
	if err != nil {
		t.Fatal(err)
	}
	recs := b.Records()
	if len(recs) != 2 || recs[0].Content != "First" || recs[1].Content != "Second" {
		t.Fatalf("unexpected records: %+v", recs)
	}
	if recs[1].Status != record.StatusEncrypted {
		t.Fatalf("status = %q", recs[1].Status)
	}
}

func TestAddBulkAtomic(t *testing.T) {
	b := filled()
	err := b.AddBulk([]record.Plain{
		{Content: "ok", RotType: "rot13", Status: "encrypted"},
		{Content: "no status", RotType: "rot13"},
	})
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
	if !strings.Contains(err.Error(), "entry 2: missing status") {
		t.Fatalf("unexpected message: %v", err)
	}
	if b.Len() != 2 {
		t.Fatalf("buffer changed on failed bulk add: %d records", b.Len())
	}
}

func TestRecordsIsCopy(t *testing.T) {
	b := filled()
	recs := b.Records()
	recs[0].Content = "changed"
	if b.Records()[0].Content != "Hello" {
		t.Fatalf("Records exposed internal storage")
	}
}

func TestAddBulkRejectsAbsentContent(t *testing.T) {
	var recs []record.Plain
	if err := json.Unmarshal([]byte(`[{"rot_type":"ROT13","status":"encrypted"}]`), &recs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	b := New()
	err := b.AddBulk(recs)
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
	if !strings.Contains(err.Error(), "entry 1: missing content") {
		t.Fatalf("unexpected message: %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("buffer changed: %d records", b.Len())
	}

	if err := json.Unmarshal([]byte(`[{"content":"","rot_type":"ROT13","status":"encrypted"}]`), &recs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := b.AddBulk(recs); err != nil {
		t.Fatalf("empty content rejected: %v", err)
	}
	if b.Len() != 1 {
		t.Fatalf("Len() = %d", b.Len())
	}
}
