package buffer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dyne/rotbuf/internal/record"
)

var ErrMalformedRecord = errors.New("malformed record")

// Buffer is the ordered, append-only log of records for one session.
type Buffer struct {
	storage []record.Text
}

func New() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Add(content, rotType string, status record.Status) {
	b.storage = append(b.storage, record.Text{Content: content, RotType: rotType, Status: status})
}

// AddBulk appends records in order. Every record is checked before the
// first append, so a malformed entry leaves the buffer untouched.
func (b *Buffer) AddBulk(records []record.Plain) error {
	for i, p := range records {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrMalformedRecord, i+1, err)
		}
	}
	for _, p := range records {
		b.storage = append(b.storage, p.Text())
	}
	return nil
}

func (b *Buffer) Clear() {
	b.storage = nil
}

func (b *Buffer) Len() int {
	return len(b.storage)
}

func (b *Buffer) Records() []record.Text {
	out := make([]record.Text, len(b.storage))
	copy(out, b.storage)
	return out
}

func (b *Buffer) Render() string {
	if len(b.storage) == 0 {
		return "Buffer empty"
	}
	var sb strings.Builder
	sb.WriteString("Buffer content:")
	for i, item := range b.storage {
		fmt.Fprintf(&sb, "\n%d. ROT:[%s], STATUS[%s]: %s", i+1, item.RotType, item.Status, item.Content)
	}
	return sb.String()
}
