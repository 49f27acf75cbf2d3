package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLogger_ProdIsJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger("prod", &buf)
	if l.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("level = %v", l.GetLevel())
	}

	l.Debug().Msg("hidden")
	l.Info().Msg("booking created")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("not a single JSON line: %q", buf.String())
	}
	if line["service"] != "contoso_hotel" || line["env"] != "prod" || line["message"] != "booking created" {
		t.Fatalf("unexpected line: %v", line)
	}
}

func TestNewLogger_DevIsConsoleAtDebug(t *testing.T) {
	for _, env := range []string{"dev", "Development", "local"} {
		var buf bytes.Buffer
		l := newLogger(env, &buf)
		if l.GetLevel() != zerolog.DebugLevel {
			t.Fatalf("%s: level = %v", env, l.GetLevel())
		}
		l.Debug().Msg("checking tables")
		if json.Valid(bytes.TrimSpace(buf.Bytes())) || !bytes.Contains(buf.Bytes(), []byte("checking tables")) {
			t.Fatalf("%s: expected console output, got %q", env, buf.String())
		}
	}
}
