package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/booklet-imposer/internal/imposition"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	for _, key := range []string{"DEFAULT_LANGUAGE", "MAX_PAGES", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST"} {
		t.Setenv(key, "")
	}

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunText(t *testing.T) {
	code, out, errOut := runCLI(t, "5")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut)
	}
	for _, want := range []string{"用紙枚数", "2枚", "1枚目", "2枚目", "空白"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRunJSON(t *testing.T) {
	code, out, errOut := runCLI(t, "--format=json", "6")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut)
	}

	var got document
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	want, err := imposition.Compute(6)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if diff := cmp.Diff(want, got.Result); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{7, 8}, got.BlankSlots); diff != "" {
		t.Fatalf("unexpected blank slots (-want +got):\n%s", diff)
	}
	if got.Query != "pages=6" {
		t.Fatalf("expected query pages=6, got %s", got.Query)
	}
}

func TestRunYAML(t *testing.T) {
	code, out, errOut := runCLI(t, "-f", "yaml", "4")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut)
	}

	var got document
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid YAML output: %v\n%s", err, out)
	}
	if got.SheetCount != 1 || got.BlankCount != 0 || len(got.Sheets) != 1 {
		t.Fatalf("unexpected document: %+v", got)
	}
	if got.Sheets[0] != (imposition.Sheet{Number: 1, FrontLeft: 4, FrontRight: 1, BackLeft: 2, BackRight: 3}) {
		t.Fatalf("unexpected sheet: %+v", got.Sheets[0])
	}
	if len(got.BlankSlots) != 0 {
		t.Fatalf("expected no blank slots, got %v", got.BlankSlots)
	}
}

func TestRunInvalidInput(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"0"}, want: "正の整数を入力してください。"},
		{args: []string{"--lang=en", "abc"}, want: "Please enter a positive integer."},
		{args: []string{"--lang=en", "--max-pages=10", "11"}, want: "Please enter a page count of 10 or less."},
		{args: []string{"--lang=en", " "}, want: "Please enter a page count."},
	}

	for _, tc := range tests {
		code, out, errOut := runCLI(t, tc.args...)
		if code != exitInvalidInput {
			t.Fatalf("%v: expected exit %d, got %d", tc.args, exitInvalidInput, code)
		}
		if out != "" {
			t.Fatalf("%v: expected no imposition output, got %q", tc.args, out)
		}
		if strings.TrimSpace(errOut) != tc.want {
			t.Fatalf("%v: expected %q, got %q", tc.args, tc.want, errOut)
		}
	}
}

func TestRunUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"--format=xml", "4"},
		{"--lang=fr", "4"},
	} {
		if code, _, _ := runCLI(t, args...); code != exitUsage {
			t.Fatalf("%v: expected exit %d, got %d", args, exitUsage, code)
		}
	}
}
