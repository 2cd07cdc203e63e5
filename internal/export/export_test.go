package export

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/recut/internal/edit"
	"github.com/maauso/recut/internal/storage"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func sampleReport() *Report {
	return &Report{
		InputPath:        "/shows/episode 12.wav",
		OutputPath:       "/shows/episode 12_edited.wav",
		OriginalDuration: 10,
		EditedDuration:   7.5,
		Edits: []edit.AppliedEdit{
			{OriginalStart: 1.0, OriginalEnd: 1.5, Reason: "filler", Text: "um, like"},
			{OriginalStart: 4.0, OriginalEnd: 5.25, Reason: "long_pause", Text: ""},
			{OriginalStart: 8.0, OriginalEnd: 8.75, Reason: "filler", Text: "uh\nso"},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport(), fixedNow, true))

	var got JSONReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "1.0", got.Version)
	assert.Equal(t, "2026-03-14T09:26:53Z", got.GeneratedAt)
	assert.Equal(t, "/shows/episode 12.wav", got.Input)
	assert.Equal(t, "/shows/episode 12_edited.wav", got.Output)
	assert.InDelta(t, 2.5, got.RemovedDuration, 1e-12)
	assert.InDelta(t, 25.0, got.ReductionPercent, 1e-9)
	assert.Equal(t, 3, got.EditCount)
	require.Len(t, got.Edits, 3)

	assert.Equal(t, ReasonStats{Count: 2, Duration: 1.25}, got.Statistics.ByReason["filler"])
	assert.Equal(t, ReasonStats{Count: 1, Duration: 1.25}, got.Statistics.ByReason["long_pause"])
	assert.InDelta(t, 2.5, got.Statistics.TotalRemovedDuration, 1e-12)
}

func TestWriteJSON_Keys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, &Report{}, fixedNow, false))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	for _, key := range []string{
		"version", "generated_at", "input", "output", "original_duration",
		"edited_duration", "removed_duration", "reduction_percent",
		"edit_count", "edits", "statistics",
	} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, []any{}, raw["edits"])
	assert.Equal(t, 0.0, raw["reduction_percent"])
	assert.NotContains(t, buf.String(), "\n  ")
}

func TestWriteJSON_StatisticsMatchRemovedDuration(t *testing.T) {
	analysis := &edit.AnalysisResult{
		OriginalDuration: 600,
		Removals: []edit.Removal{
			{Start: 12.1, End: 12.43, Reason: edit.ReasonFiller},
			{Start: 45.0, End: 47.8, Reason: edit.ReasonLongPause},
			{Start: 101.33, End: 102.01, Reason: edit.ReasonRepeat},
			{Start: 300.2, End: 300.9, Reason: edit.ReasonRestart},
			{Start: 420.05, End: 420.19, Reason: edit.ReasonMouthNoise},
			{Start: 500.5, End: 500.8, Reason: edit.ReasonFiller},
		},
	}

	report := ReportFromAnalysis(analysis, "talk.wav")
	jr := NewJSONReport(report, fixedNow)

	var sum float64
	for _, rs := range jr.Statistics.ByReason {
		sum += rs.Duration
	}
	assert.InDelta(t, jr.RemovedDuration, sum, 1e-9)
	assert.Len(t, jr.Statistics.ByReason, 5)
}

func TestWriteJSON_NaNFails(t *testing.T) {
	report := &Report{OriginalDuration: math.NaN()}
	err := WriteJSON(&bytes.Buffer{}, report, fixedNow, false)
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestTimecode(t *testing.T) {
	tests := []struct {
		seconds float64
		fps     float64
		want    string
	}{
		{0, 30, "00:00:00:00"},
		{2.0, 30, "00:00:02:00"},
		{1.999, 30, "00:00:01:29"},
		{61.5, 30, "00:01:01:15"},
		{3725.5, 25, "01:02:05:12"},
		{10.5, 24, "00:00:10:12"},
		{-1, 30, "00:00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Timecode(tt.seconds, tt.fps))
		})
	}
}

func TestKeptRegions(t *testing.T) {
	tests := []struct {
		name   string
		report *Report
		want   []Region
	}{
		{
			name:   "no edits keeps everything",
			report: &Report{OriginalDuration: 10},
			want:   []Region{{0, 10}},
		},
		{
			name: "single edit",
			report: &Report{OriginalDuration: 10, Edits: []edit.AppliedEdit{
				{OriginalStart: 2, OriginalEnd: 4},
			}},
			want: []Region{{0, 2}, {4, 10}},
		},
		{
			name: "unsorted overlapping edits",
			report: &Report{OriginalDuration: 10, Edits: []edit.AppliedEdit{
				{OriginalStart: 6, OriginalEnd: 7},
				{OriginalStart: 1, OriginalEnd: 5},
				{OriginalStart: 2, OriginalEnd: 3},
			}},
			want: []Region{{0, 1}, {5, 6}, {7, 10}},
		},
		{
			name: "edits at both ends",
			report: &Report{OriginalDuration: 10, Edits: []edit.AppliedEdit{
				{OriginalStart: 0, OriginalEnd: 1},
				{OriginalStart: 9, OriginalEnd: 10},
			}},
			want: []Region{{1, 9}},
		},
		{
			name: "everything removed",
			report: &Report{OriginalDuration: 10, Edits: []edit.AppliedEdit{
				{OriginalStart: 0, OriginalEnd: 10},
			}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KeptRegions(tt.report)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteEDL(t *testing.T) {
	report := &Report{
		InputPath:        "/audio/show.wav",
		OriginalDuration: 10,
		EditedDuration:   8,
		Edits:            []edit.AppliedEdit{{OriginalStart: 2.0, OriginalEnd: 4.0, Reason: "filler"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteEDL(&buf, report, 30, ""))

	want := "TITLE: show\n" +
		"FCM: NON-DROP FRAME\n\n" +
		"001  AX       AA/V  C        00:00:00:00 00:00:02:00 00:00:00:00 00:00:02:00\n" +
		"* FROM CLIP NAME: show.wav\n\n" +
		"002  AX       AA/V  C        00:00:04:00 00:00:10:00 00:00:02:00 00:00:08:00\n" +
		"* FROM CLIP NAME: show.wav\n\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteEDL_TitleAndFrameRate(t *testing.T) {
	t.Run("explicit title", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteEDL(&buf, &Report{OriginalDuration: 1}, 25, "Pilot"))
		assert.True(t, strings.HasPrefix(buf.String(), "TITLE: Pilot\n"))
		assert.Contains(t, buf.String(), "* FROM CLIP NAME: input\n")
	})

	t.Run("untitled without input", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteEDL(&buf, &Report{OriginalDuration: 1}, 25, ""))
		assert.True(t, strings.HasPrefix(buf.String(), "TITLE: Untitled\n"))
	})

	for _, fps := range []float64{0, -24, math.NaN(), math.Inf(1)} {
		err := WriteEDL(&bytes.Buffer{}, sampleReport(), fps, "")
		assert.ErrorIs(t, err, ErrInvalidFrameRate)
	}
}

func TestWriteMarkers(t *testing.T) {
	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteMarkers(&buf, sampleReport(), MarkersCSV))

		want := "start,end,label,reason\n" +
			"1.000,1.500,\"um; like\",filler\n" +
			"4.000,5.250,\"\",long_pause\n" +
			"8.000,8.750,\"uh so\",filler\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("audacity", func(t *testing.T) {
		report := sampleReport()
		report.Edits[0].Text = "um\tlike"

		var buf bytes.Buffer
		require.NoError(t, WriteMarkers(&buf, report, MarkersAudacity))

		want := "1.000000\t1.500000\t[filler] um like\n" +
			"4.000000\t5.250000\t[long_pause] \n" +
			"8.000000\t8.750000\t[filler] uh so\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		err := WriteMarkers(&bytes.Buffer{}, sampleReport(), MarkerFormat("xml"))
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("text is NFC normalized", func(t *testing.T) {
		report := &Report{Edits: []edit.AppliedEdit{
			{OriginalStart: 0, OriginalEnd: 1, Reason: "filler", Text: "cafe\u0301"},
		}}
		var buf bytes.Buffer
		require.NoError(t, WriteMarkers(&buf, report, MarkersCSV))
		assert.Contains(t, buf.String(), "\"caf\u00e9\"")
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"EDL", FormatEDL, false},
		{"markers", FormatCSV, false},
		{" csv ", FormatCSV, false},
		{"labels", FormatAudacity, false},
		{"audacity", FormatAudacity, false},
		{"fcpxml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, "out/ep_edited.json", DefaultPath("out/ep_edited.wav", FormatJSON))
	assert.Equal(t, "out/ep_edited.edl", DefaultPath("out/ep_edited.wav", FormatEDL))
	assert.Equal(t, "out/ep_edited_markers.csv", DefaultPath("out/ep_edited.wav", FormatCSV))
	assert.Equal(t, "out/ep_edited_labels.txt", DefaultPath("out/ep_edited.wav", FormatAudacity))
}

func TestExporter_Export(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExporter(storage.NewLocalStorage(), WithClock(func() time.Time { return fixedNow }))

	targets := make([]Target, 0, len(Formats))
	for _, f := range Formats {
		targets = append(targets, Target{Format: f, Path: DefaultPath(filepath.Join(dir, "reports", "ep.wav"), f)})
	}

	require.NoError(t, exporter.Export(context.Background(), sampleReport(), targets))

	for _, target := range targets {
		data, err := os.ReadFile(target.Path)
		require.NoError(t, err, target.Format)
		assert.NotEmpty(t, data, target.Format)
	}

	data, err := os.ReadFile(filepath.Join(dir, "reports", "ep.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"version\": \"1.0\"")
}

func TestExporter_InvalidFPSWritesNothing(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExporter(storage.NewLocalStorage(), WithFPS(0))

	targets := []Target{
		{Format: FormatJSON, Path: filepath.Join(dir, "a.json")},
		{Format: FormatEDL, Path: filepath.Join(dir, "a.edl")},
	}
	err := exporter.Export(context.Background(), sampleReport(), targets)
	assert.ErrorIs(t, err, ErrInvalidFrameRate)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReportFromAnalysis(t *testing.T) {
	analysis := &edit.AnalysisResult{
		OriginalDuration: 30,
		Removals: []edit.Removal{
			{Start: 20, End: 21, Reason: edit.ReasonRepeat, Text: "b"},
			{Start: 5, End: 5.5, Reason: edit.ReasonFiller, Text: "a"},
			{Start: 9, End: 8, Reason: edit.ReasonFiller, Text: "bad"},
		},
	}

	report := ReportFromAnalysis(analysis, "in.wav")
	assert.Equal(t, "in.wav", report.InputPath)
	assert.Empty(t, report.OutputPath)
	assert.InDelta(t, 28.5, report.EditedDuration, 1e-12)
	require.Len(t, report.Edits, 2)
	assert.Equal(t, 5.0, report.Edits[0].OriginalStart)
	assert.Equal(t, "repeat", report.Edits[1].Reason)

	analysis.RemovedDuration = 4
	assert.InDelta(t, 26.0, ReportFromAnalysis(analysis, "in.wav").EditedDuration, 1e-12)
}
