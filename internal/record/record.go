package record

import (
	"encoding/json"
	"errors"
	"fmt"
)

type Status string

const (
	StatusEncrypted Status = "encrypted"
	StatusDecrypted Status = "decrypted"
)

func (s Status) Valid() bool {
	return s == StatusEncrypted || s == StatusDecrypted
}

// Text is one buffered item. Status records which action produced Content;
// it says nothing about the content itself.
type Text struct {
	Content string
	RotType string
	Status  Status
}

// Plain is the field mapping written to and read from buffer files.
type Plain struct {
	Content string `json:"content"`
	RotType string `json:"rot_type"`
	Status  string `json:"status"`

	// problem is set while decoding when a key is absent, null or not a
	// string, which the plain fields alone cannot express.
	problem string
}

func (p *Plain) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			*p = Plain{problem: "entry is not an object"}
			return nil
		}
		return err
	}
	*p = Plain{}
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"content", &p.Content},
		{"rot_type", &p.RotType},
		{"status", &p.Status},
	} {
		if problem := readField(raw, f.name, f.dst); problem != "" && p.problem == "" {
			p.problem = problem
		}
	}
	return nil
}

func readField(raw map[string]json.RawMessage, name string, dst *string) string {
	v, ok := raw[name]
	if !ok || string(v) == "null" {
		return "missing " + name
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return name + " is not a string"
	}
	return ""
}

func (t Text) Plain() Plain {
	return Plain{Content: t.Content, RotType: t.RotType, Status: string(t.Status)}
}

func (p Plain) Text() Text {
	return Text{Content: p.Content, RotType: p.RotType, Status: Status(p.Status)}
}

// Validate reports the first absent or invalid field. An empty content
// string is valid; an absent content key is not.
func (p Plain) Validate() error {
	switch {
	case p.problem != "":
		return errors.New(p.problem)
	case p.RotType == "":
		return errors.New("missing rot_type")
	case p.Status == "":
		return errors.New("missing status")
	case !Status(p.Status).Valid():
		return fmt.Errorf("unknown status %q", p.Status)
	}
	return nil
}

func ToPlain(texts []Text) []Plain {
	out := make([]Plain, len(texts))
	for i, t := range texts {
		out[i] = t.Plain()
	}
	return out
}
