package main

import (
	"encoding/json"
	"strings"
	"testing"

	"archscope/internal/cycles"
	"archscope/internal/rules"
)

func TestFormatResponseJSON(t *testing.T) {
	violations := []rules.Violation{{
		Rule:        "god-object",
		Severity:    rules.SeverityHigh,
		Nodes:       []string{"com.app.Everything"},
		Description: "com.app.Everything is a god object: 60 methods (threshold 50)",
	}}

	out, err := FormatResponse(violations, FormatJSON)
	if err != nil {
		t.Fatalf("FormatResponse failed: %v", err)
	}

	var decoded []rules.Violation
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Rule != "god-object" {
		t.Errorf("round trip mismatch: %v", decoded)
	}
}

func TestFormatResponseHumanViolations(t *testing.T) {
	violations := []rules.Violation{{
		Rule:        "layer-access",
		Severity:    rules.SeverityHigh,
		Description: "db depends on ui",
		Remediation: "invert the dependency",
	}}

	out, err := FormatResponse(violations, FormatHuman)
	if err != nil {
		t.Fatalf("FormatResponse failed: %v", err)
	}
	if !strings.Contains(out, "[HIGH] layer-access") {
		t.Errorf("missing severity/rule header:\n%s", out)
	}
	if !strings.Contains(out, "fix: invert the dependency") {
		t.Errorf("missing remediation:\n%s", out)
	}
}

func TestFormatResponseHumanCycles(t *testing.T) {
	cs := []cycles.Cycle{{
		Nodes:       []string{"a", "b", "c"},
		Severity:    cycles.SeverityMedium,
		Occurrences: 60,
	}}

	out, err := FormatResponse(cs, FormatHuman)
	if err != nil {
		t.Fatalf("FormatResponse failed: %v", err)
	}
	if !strings.Contains(out, "a -> b -> c") || !strings.Contains(out, "[MEDIUM]") {
		t.Errorf("unexpected cycle rendering:\n%s", out)
	}
}

func TestFormatResponseHumanEmpty(t *testing.T) {
	out, err := FormatResponse([]rules.Violation{}, FormatHuman)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No violations found") {
		t.Errorf("empty violations rendering:\n%s", out)
	}

	out, err = FormatResponse([]cycles.Cycle{}, FormatHuman)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No cycles detected") {
		t.Errorf("empty cycles rendering:\n%s", out)
	}
}

func TestFormatResponseUnsupported(t *testing.T) {
	if _, err := FormatResponse(nil, OutputFormat("xml")); err == nil {
		t.Error("expected error for unsupported format")
	}
}
