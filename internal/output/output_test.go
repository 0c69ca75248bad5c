package output

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type sample struct {
	Scenario string `yaml:"scenario"        json:"scenario"`
	State    string `yaml:"state"           json:"state"`
	Error    string `yaml:"error,omitempty" json:"error,omitempty"`
	Steps    int    `yaml:"steps"           json:"steps"`
}

func TestPrintYAML(t *testing.T) {
	result := sample{Scenario: "open_mail", State: "completed", Steps: 3}

	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := PrintYAML(result)
	w.Close()
	os.Stdout = old

	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if bytes.Count([]byte(output), []byte("\n")) <= 1 {
		t.Errorf("YAML output should be multi-line, got:\n%s", output)
	}

	var decoded sample
	if err := yaml.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded != result {
		t.Errorf("decoded = %+v, want %+v", decoded, result)
	}
}

func TestFprintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Fprint(&buf, FormatJSON, sample{Scenario: "a<b>", State: "failed", Error: "step 2"}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Count(out, "\n") != 1 {
		t.Errorf("compact JSON should be one line, got %q", out)
	}
	if !strings.Contains(out, "a<b>") {
		t.Errorf("HTML should not be escaped: %q", out)
	}
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if m["error"] != "step 2" {
		t.Errorf("error = %v", m["error"])
	}
}

func TestFprintOmitEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Fprint(&buf, FormatYAML, sample{Scenario: "s", State: "completed"}); err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["error"]; ok {
		t.Error("empty error should be omitted")
	}
	if _, ok := m["steps"]; !ok {
		t.Error("steps should always be present")
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"yaml", "json", "auto"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q): %v", s, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat accepted xml")
	}
	if err := Fprint(&bytes.Buffer{}, Format("xml"), nil); err == nil {
		t.Error("Fprint accepted xml")
	}
}

func TestResolveKeepsExplicitFormat(t *testing.T) {
	if got := Resolve(FormatYAML); got != FormatYAML {
		t.Errorf("Resolve(yaml) = %s", got)
	}
	if got := Resolve(FormatAuto); got != FormatJSON && got != FormatYAML {
		t.Errorf("Resolve(auto) = %s", got)
	}
}
