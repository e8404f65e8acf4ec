package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestConsole_Result(t *testing.T) {
	tests := []struct {
		name  string
		color bool
		class string
		want  string
	}{
		{"plain", false, "MQA Studio 96K", "  7\tMQA Studio 96K\ttrack.flac\n"},
		{"colored detection", true, "MQA 44.1K", "  7\t\x1b[32mMQA 44.1K\x1b[0m\ttrack.flac\n"},
		{"not detected stays plain", true, "NOT MQA", "  7\tNOT MQA\ttrack.flac\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewConsole(&buf, tt.color).Result(7, tt.class, "track.flac")
			if buf.String() != tt.want {
				t.Errorf("Result() wrote %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestConsole_ConcurrentLinesDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() { c.Result(i, "NOT MQA", "file.flac") })
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 50 {
		t.Fatalf("got %d lines, want 50", len(lines))
	}
	for _, l := range lines {
		if !strings.HasSuffix(l, "\tNOT MQA\tfile.flac") {
			t.Errorf("malformed line %q", l)
		}
	}
}

func TestConsole_BannerAndSummary(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)
	c.Banner("MQA identifier", 1)
	c.Summary(12345, 2, 1500*time.Millisecond)

	out := buf.String()
	for _, want := range []string{
		"Found 1 file for scanning...",
		"  #\tEncoding\tName",
		"Scanned 12,345 files",
		"Found 2 MQA files",
		"Finished in 1.5s",
		"* MQA identifier *",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLog_Write(t *testing.T) {
	l := &Log{
		RunID: "run-1",
		Events: []Event{
			{Time: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), Index: 1, Path: "a.flac", Stage: "detect", Message: "MQA 96K"},
		},
		Errors: map[string][]string{
			"tag error: write not supported for WAV": {"b.wav"},
			"decode error: unexpected EOF":           {"c.flac", "d.flac"},
		},
	}

	var buf bytes.Buffer
	if err := l.Write(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, "Run: run-1") {
		t.Error("run id missing")
	}
	if !strings.Contains(out, "03:04:05.000 [  1] detect a.flac: MQA 96K") {
		t.Errorf("event line missing:\n%s", out)
	}
	decode := strings.Index(out, "Reason: decode error")
	tag := strings.Index(out, "Reason: tag error")
	if decode < 0 || tag < 0 || decode > tag {
		t.Errorf("reasons missing or unsorted:\n%s", out)
	}
	if !strings.Contains(out, " - c.flac\n - d.flac\n") {
		t.Errorf("paths not listed under reason:\n%s", out)
	}
}

func TestLog_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.log")
	l := &Log{RunID: "x", Errors: map[string][]string{"format error: mono": {"m.flac"}}}
	if l.Empty() {
		t.Fatal("Empty() = true for a log with errors")
	}
	if err := l.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Reason: format error: mono") {
		t.Errorf("log file = %q", data)
	}

	if !(&Log{RunID: "y"}).Empty() {
		t.Error("Empty() = false for an empty log")
	}
}
