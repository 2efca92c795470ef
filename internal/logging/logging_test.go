package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
)

func TestSetup(t *testing.T) {
	var buf bytes.Buffer
	log, err := Setup("warn", &buf)
	if err != nil {
		t.Fatal(err)
	}
	log.Info("hidden")
	log.WithField("review_id", "r1").Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info logged at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "review_id=r1") {
		t.Errorf("missing warn entry: %s", out)
	}
	if log.GetLevel() != logrus.WarnLevel {
		t.Errorf("level = %s", log.GetLevel())
	}
}

func TestSetupDefaultsAndErrors(t *testing.T) {
	log, err := Setup("", &bytes.Buffer{})
	if err != nil || log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("default level: %v, %v", log, err)
	}
	if _, err := Setup("chatty", &bytes.Buffer{}); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("Setup(chatty) = %v", err)
	}
}

func TestFieldsHook(t *testing.T) {
	var buf bytes.Buffer
	log, _ := Setup("info", &buf)
	log.AddHook(FieldsHook{"tool": "reviewlens", "analyzer": "all"})
	log.WithField("analyzer", "scenario").Info("run")

	out := buf.String()
	if !strings.Contains(out, "tool=reviewlens") || !strings.Contains(out, "analyzer=scenario") {
		t.Fatalf("hook fields wrong: %s", out)
	}
}
