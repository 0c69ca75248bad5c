package monitor

import (
	"errors"
	"testing"
)

func TestParseTrigger(t *testing.T) {
	tr, err := ParseTrigger(`{"actionName":"open_notes","dataForExecution":{"who":"Ada","n":3,"big":12345678901234567890,"ok":true,"none":null}}`)
	if err != nil {
		t.Fatalf("ParseTrigger: %v", err)
	}
	if tr.ActionName != "open_notes" {
		t.Errorf("ActionName = %q", tr.ActionName)
	}
	want := map[string]string{"who": "Ada", "n": "3", "big": "12345678901234567890", "ok": "true", "none": ""}
	for k, v := range want {
		if tr.DataForExecution[k] != v {
			t.Errorf("%s = %q, want %q", k, tr.DataForExecution[k], v)
		}
	}
}

func TestParseTriggerWithoutData(t *testing.T) {
	for _, p := range []string{`{"actionName":"x"}`, `{"actionName":"x","dataForExecution":null}`} {
		tr, err := ParseTrigger(p)
		if err != nil {
			t.Fatalf("ParseTrigger(%s): %v", p, err)
		}
		if len(tr.DataForExecution) != 0 {
			t.Errorf("expected no data, got %v", tr.DataForExecution)
		}
	}
}

func TestParseTriggerInvalid(t *testing.T) {
	tests := []string{
		``,
		`not json`,
		`{}`,
		`{"actionName":""}`,
		`{"actionName":42}`,
		`{"actionName":"x","dataForExecution":"flat"}`,
		`{"actionName":"x","dataForExecution":{"nested":{"a":"b"}}}`,
		`{"actionName":"x","dataForExecution":{"list":[1,2]}}`,
	}
	for _, p := range tests {
		if _, err := ParseTrigger(p); !errors.Is(err, ErrInvalidPayload) {
			t.Errorf("ParseTrigger(%q) = %v, want ErrInvalidPayload", p, err)
		}
	}
}

func TestTriggerEncodeRoundTrip(t *testing.T) {
	in := &Trigger{ActionName: "notes", DataForExecution: map[string]string{"k": "v"}}
	s, err := in.Encode(DefaultPrefix)
	if err != nil {
		t.Fatal(err)
	}
	out, err := ParseTrigger(s[len(DefaultPrefix):])
	if err != nil {
		t.Fatal(err)
	}
	if out.ActionName != "notes" || out.DataForExecution["k"] != "v" {
		t.Errorf("round trip = %+v", out)
	}
}

func TestDecodeData(t *testing.T) {
	got, err := DecodeData([]byte(`{"a":"x","n":1.50,"b":false}`))
	if err != nil {
		t.Fatal(err)
	}
	if got["a"] != "x" || got["n"] != "1.50" || got["b"] != "false" {
		t.Errorf("DecodeData = %v", got)
	}
	if _, err := DecodeData([]byte(`{"a":{"b":1}}`)); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("nested value err = %v, want ErrInvalidPayload", err)
	}
}
