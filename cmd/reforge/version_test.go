package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRenderVersionPretty(t *testing.T) {
	var out bytes.Buffer
	renderVersionPretty(&out, versionInfo{Version: "1.2.3"}, true, false)

	got := out.String()
	if !strings.HasPrefix(got, "reforge 1.2.3\n") {
		t.Fatalf("output = %q", got)
	}
	if !strings.Contains(got, "commit: unknown") {
		t.Fatalf("missing commit line: %q", got)
	}
	if strings.Contains(got, "built:") {
		t.Fatalf("date shown without --date: %q", got)
	}
}

func TestRenderVersionJSON(t *testing.T) {
	var out bytes.Buffer
	info := versionInfo{Version: "1.2.3", GitCommit: "abc", BuildDate: "2026-01-01"}
	if err := renderVersionJSON(&out, info, true, true); err != nil {
		t.Fatal(err)
	}

	var payload versionPayload
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload.Tool != "reforge" || payload.GitCommit != "abc" || payload.BuildDate != "2026-01-01" {
		t.Fatalf("payload = %+v", payload)
	}
}
