package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davidvella/minpq/metrics"
	"github.com/davidvella/minpq/priority"
	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    record
		wantOK  bool
		wantErr bool
	}{
		{name: "simple", line: "5 write report", want: record{priority: 5, value: "write report"}, wantOK: true},
		{name: "tab separated", line: "3\tlunch", want: record{priority: 3, value: "lunch"}, wantOK: true},
		{name: "negative", line: "-2 urgent", want: record{priority: -2, value: "urgent"}, wantOK: true},
		{name: "surrounding space", line: "  7   padded  ", want: record{priority: 7, value: "padded"}, wantOK: true},
		{name: "priority only", line: "9", want: record{priority: 9}, wantOK: true},
		{name: "ideographic space", line: "4\u3000wide gap", want: record{priority: 4, value: "wide gap"}, wantOK: true},
		{name: "no-break space", line: "6\u00a0nbsp", want: record{priority: 6, value: "nbsp"}, wantOK: true},
		{name: "blank", line: "   ", wantOK: false},
		{name: "comment", line: "# 1 ignored", wantOK: false},
		{name: "not a number", line: "high fix outage", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := parseLine(tt.line)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLine)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	q := priority.New[string]()
	input := "# tasks\n5 a\n\n1 b\n3 c\n"

	require.NoError(t, load(context.Background(), strings.NewReader(input), "tasks", q))
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, "b", q.MustRemoveFirst())
	assert.Equal(t, "c", q.MustRemoveFirst())
	assert.Equal(t, "a", q.MustRemoveFirst())
}

func TestLoad_LongLine(t *testing.T) {
	long := strings.Repeat("v", 200*1024)
	q := priority.New[string]()

	require.NoError(t, load(context.Background(), strings.NewReader("2 short\n1 "+long+"\n"), "long", q))
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, long, q.MustRemoveFirst())
}

func TestLoad_InvalidLine(t *testing.T) {
	q := priority.New[string]()
	err := load(context.Background(), strings.NewReader("1 ok\nx bad\n"), "tasks", q)

	assert.ErrorIs(t, err, ErrInvalidLine)
	assert.Contains(t, err.Error(), "tasks:2:")
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var b strings.Builder
	for i := range 2048 {
		b.WriteString("1 v")
		b.WriteString(strings.Repeat("x", i%3))
		b.WriteString("\n")
	}

	err := load(ctx, strings.NewReader(b.String()), "big", priority.New[string]())
	assert.ErrorIs(t, err, context.Canceled)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestSorter(stdin string) (*sorter, *bytes.Buffer) {
	out := new(bytes.Buffer)
	return &sorter{
		capacity: 2,
		workers:  2,
		logger:   zap.NewNop(),
		registry: metrics.NewRegistry(),
		stdin:    strings.NewReader(stdin),
		stdout:   out,
	}, out
}

func TestSorter_Stdin(t *testing.T) {
	s, out := newTestSorter("5 v1\n3 v2\n8 v3\n")

	require.NoError(t, s.run(context.Background(), nil))
	assert.Equal(t, "3\tv2\n5\tv1\n8\tv3\n", out.String())
	assert.Equal(t, float64(3), s.registry.Counter(priority.MetricInserts))
	assert.Equal(t, float64(3), s.registry.Counter(priority.MetricRemovals))
}

func TestSorter_Files(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "a.txt", "9 a9\n1 a1\n"),
		writeFile(t, dir, "b.txt", "4 b4\n"),
		writeFile(t, dir, "c.txt", "# empty\n"),
		writeFile(t, dir, "d.txt", "7 d7\n2 d2\n5 d5\n"),
	}

	s, out := newTestSorter("")
	require.NoError(t, s.run(context.Background(), files))
	assert.Equal(t, "1\ta1\n2\td2\n4\tb4\n5\td5\n7\td7\n9\ta9\n", out.String())
}

func TestSorter_SizeGaugeCoversAllFiles(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "a.txt", "3 a3\n1 a1\n2 a2\n"),
		writeFile(t, dir, "b.txt", "5 b5\n4 b4\n"),
	}

	s, _ := newTestSorter("")
	queues, err := s.loadFiles(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, queues, 2)

	size, ok := s.registry.Gauge(priority.MetricSize)
	require.True(t, ok)
	assert.Equal(t, float64(5), size)

	require.NoError(t, s.write(queues))
	size, _ = s.registry.Gauge(priority.MetricSize)
	assert.Equal(t, float64(0), size)
}

func TestSorter_Errors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", "1 a\n")
	bad := writeFile(t, dir, "bad.txt", "1 a\nnope\n")

	tests := []struct {
		name    string
		files   []string
		wantErr error
	}{
		{name: "missing file", files: []string{good, filepath.Join(dir, "missing.txt")}, wantErr: os.ErrNotExist},
		{name: "invalid line", files: []string{good, bad}, wantErr: ErrInvalidLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out := newTestSorter("")
			err := s.run(context.Background(), tt.files)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, out.String())
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := new(config)
	require.NoError(t, envconfig.Process(configPrefix, cfg))
	assert.Equal(t, priority.DefaultCapacity, cfg.Capacity)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Workers)

	t.Setenv("PQSORT_WORKERS", "8")
	t.Setenv("PQSORT_LOG_LEVEL", "debug")
	require.NoError(t, envconfig.Process(configPrefix, cfg))
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = newLogger("loud")
	assert.Error(t, err)
}
