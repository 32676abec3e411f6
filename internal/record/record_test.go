package record

import (
	"encoding/json"
	"testing"
)

func TestPlainValidate(t *testing.T) {
	cases := []struct {
		in   Plain
		want string
	}{
		{Plain{Content: "x", RotType: "rot13", Status: "encrypted"}, ""},
		{Plain{Content: "", RotType: "rot47", Status: "decrypted"}, ""},
		{Plain{Content: "x", Status: "encrypted"}, "missing rot_type"},
		{Plain{Content: "x", RotType: "rot13"}, "missing status"},
		{Plain{Content: "x", RotType: "rot13", Status: "scrambled"}, `unknown status "scrambled"`},
	}
	for _, tc := range cases {
		err := tc.in.Validate()
		got := ""
		if err != nil {
			got = err.Error()
		}
		if got != tc.want {
			t.Fatalf("Validate(%+v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPlainDecodeTracksKeys(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"content": "", "rot_type": "rot13", "status": "encrypted"}`, ""},
		{`{"rot_type": "ROT13", "status": "encrypted"}`, "missing content"},
		{`{"content": null, "rot_type": "ROT13", "status": "encrypted"}`, "missing content"},
		{`{"content": 5, "rot_type": "ROT13", "status": "encrypted"}`, "content is not a string"},
		{`{"content": "x", "status": "encrypted"}`, "missing rot_type"},
		{`7`, "entry is not an object"},
	}
	for _, tc := range cases {
		var p Plain
		if err := json.Unmarshal([]byte(tc.body), &p); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.body, err)
		}
		err := p.Validate()
		got := ""
		if err != nil {
			got = err.Error()
		}
		if got != tc.want {
			t.Fatalf("%s: Validate() = %q, want %q", tc.body, got, tc.want)
		}
	}
}

func TestPlainDecodeFields(t *testing.T) {
	var p Plain
	if err := json.Unmarshal([]byte(`{"content": "uryyb", "rot_type": "rot13", "status": "encrypted"}`), &p); err != nil {
		t.Fatal(err)
	}
	want := Plain{Content: "uryyb", RotType: "rot13", Status: "encrypted"}
	if p != want {
		t.Fatalf("got %+v, want %+v", p, want)
	}
}

func TestToPlain(t *testing.T) {
	texts := []Text{
		{Content: "text1", RotType: "rot13", Status: StatusEncrypted},
		{Content: "text2", RotType: "rot47", Status: StatusDecrypted},
	}
	got := ToPlain(texts)
	want := []Plain{
		{Content: "text1", RotType: "rot13", Status: "encrypted"},
		{Content: "text2", RotType: "rot47", Status: "decrypted"},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: got %+v, want %+v", i, got[i], want[i])
		}
		if got[i].Text() != texts[i] {
			t.Fatalf("entry %d did not convert back", i)
		}
	}
}
