package schedule

import (
	"errors"
	"runtime"
	"strings"
	"testing"
)

func TestParseFileCSV(t *testing.T) {
	input := strings.Join([]string{
		"target_name,ra,dec,nexp,exposure_time,filters",
		"Arcturus,14:15:39,+19:10:56,3,30,\"g,r\"",
		",04:35:55,+16:30:33,,,",
	}, "\n")

	requests, err := ParseFile("targets.csv", strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(requests))
	}

	first := requests[0]
	if first.TargetName != "Arcturus" || first.NExp != 3 || first.ExposureTime != 30 {
		t.Fatalf("unexpected first request: %+v", first)
	}
	if first.Filters != "g,r" {
		t.Fatalf("expected quoted filters to survive, got %q", first.Filters)
	}

	second := requests[1]
	if second.TargetName != "J2000-04:35:55+16:30:33" {
		t.Fatalf("expected generated designation, got %q", second.TargetName)
	}
	if second.NExp != 1 || second.ExposureTime != 1 {
		t.Fatalf("expected defaults for blank columns, got %d x %ds", second.NExp, second.ExposureTime)
	}
}

func TestParseFileECSVSkipsCommentHeader(t *testing.T) {
	input := strings.Join([]string{
		"# %ECSV 1.0",
		"# ---",
		"# datatype:",
		"# - {name: ra, datatype: string}",
		"ra,dec,nexp",
		"14:15:39,+19:10:56,2",
	}, "\n")

	requests, err := ParseFile("targets.ecsv", strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(requests))
	}
	if requests[0].NExp != 2 {
		t.Fatalf("expected nexp 2, got %d", requests[0].NExp)
	}
}

func TestParseFileECSVErrorLeaksNoGoroutines(t *testing.T) {
	// A bad row early in a large file aborts the parse with most of the
	// input unread; that must not strand a reader goroutine per attempt.
	input := "ra,dec,nexp\n,,\n" + strings.Repeat("# padding far beyond any pipe buffer\n", 8192)

	before := runtime.NumGoroutine()
	for i := 0; i < 10; i++ {
		if _, err := ParseFile("targets.ecsv", strings.NewReader(input)); err == nil {
			t.Fatal("expected validation error")
		}
	}
	if after := runtime.NumGoroutine(); after > before {
		t.Fatalf("expected no goroutine growth, before=%d after=%d", before, after)
	}
}

func TestParseFileSch(t *testing.T) {
	input := strings.Join([]string{
		"# nightly plan",
		"",
		"ra=14:15:39 dec=+19:10:56 target_name=Arcturus nexp=3 exposure_time=30",
		"ra=18:36:56 dec=+38:47:01 reposition=true cadence=0:10:00",
	}, "\n")

	requests, err := ParseFile("plan.sch", strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(requests))
	}
	if !requests[1].Reposition {
		t.Fatal("expected reposition flag to parse")
	}
	if requests[1].Cadence != "0:10:00" {
		t.Fatalf("expected cadence to parse, got %q", requests[1].Cadence)
	}
}

func TestParseFileTxtSharesSchFormat(t *testing.T) {
	input := "ra=1:02:03 dec=+4:05:06\n"
	requests, err := ParseFile("plan.txt", strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(requests))
	}
}

func TestParseFileErrors(t *testing.T) {
	if _, err := ParseFile("image.fits", strings.NewReader("x")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}

	if _, err := ParseFile("empty.csv", strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty file")
	}

	if _, err := ParseFile("plan.sch", strings.NewReader("ra=1:2:3 dec\n")); err == nil {
		t.Fatal("expected error for malformed token")
	}

	_, err := ParseFile("targets.csv", strings.NewReader("ra,dec\n,\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line-numbered validation error, got %v", err)
	}

	_, err = ParseFile("targets.csv", strings.NewReader("ra,dec,nexp\n1:2:3,+4:5:6,three\n"))
	if err == nil || !strings.Contains(err.Error(), "nexp") {
		t.Fatalf("expected integer parse error, got %v", err)
	}
}
