package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "rememberme", "debug", false)
	log.Debug().Str("k", "v").Msg("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v (%q)", err, buf.String())
	}
	if line["service"] != "rememberme" {
		t.Errorf("service = %v, want rememberme", line["service"])
	}
	if line["message"] != "hello" {
		t.Errorf("message = %v, want hello", line["message"])
	}
	if line["k"] != "v" {
		t.Errorf("k = %v, want v", line["k"])
	}
}

func TestNewWithWriterLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "rememberme", "warn", false)
	log.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Errorf("info line written at warn level: %q", buf.String())
	}

	buf.Reset()
	log = NewWithWriter(&buf, "rememberme", "bogus", false)
	log.Info().Msg("kept")
	if buf.Len() == 0 {
		t.Error("unknown level should fall back to info")
	}
}
