package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dyne/rotbuf/internal/record"
)

const Extension = ".json"

var (
	ErrFileNotFound  = errors.New("file not found")
	ErrInvalidFormat = errors.New("invalid format")
	ErrInvalidMode   = errors.New("invalid mode")
)

type Mode string

const (
	ModeWrite  Mode = "w"
	ModeAppend Mode = "a"
)

// ParseMode maps user input to a Mode. Unknown input still yields
// ModeAppend, alongside ErrInvalidMode for the caller to report.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "write":
		return ModeWrite, nil
	case "a", "append":
		return ModeAppend, nil
	default:
		return ModeAppend, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Filename appends the .json extension unless the name already carries it.
func Filename(name string) string {
	if strings.HasSuffix(strings.ToLower(name), Extension) {
		return name
	}
	return name + Extension
}

// Save writes records as one indented JSON array plus a newline and returns
// the path actually written. Append mode adds a new array block after any
// existing content. An unknown mode falls back to append: the data is still
// written and ErrInvalidMode is returned for the caller to report.
func Save(records []record.Text, path string, mode Mode) (string, error) {
	path = Filename(path)
	data, err := encode(record.ToPlain(records))
	if err != nil {
		return path, err
	}
	var modeErr error
	if mode != ModeWrite && mode != ModeAppend {
		modeErr = fmt.Errorf("%w: %q, using append", ErrInvalidMode, mode)
		mode = ModeAppend
	}
	if mode == ModeWrite {
		err = writeFileAtomic(path, data, 0o644)
	} else {
		err = appendFile(path, data, 0o644)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return path, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return path, fmt.Errorf("save %s: %w", path, err)
	}
	return path, modeErr
}

// Load parses path as a single JSON array of records.
func Load(path string) ([]record.Plain, error) {
	path = Filename(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var out []record.Plain
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, path, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: %s: top level is not an array", ErrInvalidFormat, path)
	}
	return out, nil
}

// ReadBlocks decodes every array block in path, which is what repeated
// appends leave behind.
func ReadBlocks(path string) ([][]record.Plain, error) {
	path = Filename(path)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	var blocks [][]record.Plain
	for {
		var block []record.Plain
		err := dec.Decode(&block)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: block %d: %v", ErrInvalidFormat, path, len(blocks)+1, err)
		}
		if block == nil {
			return nil, fmt.Errorf("%w: %s: block %d is not an array", ErrInvalidFormat, path, len(blocks)+1)
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func encode(plain []record.Plain) ([]byte, error) {
	data, err := json.MarshalIndent(plain, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return append(data, '\n'), nil
}

func appendFile(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

const tempFilePrefix = "rotbuf-tmp-"

// writeFileAtomic replaces path with data through a temp file in the same
// directory.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), tempFilePrefix+"*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
