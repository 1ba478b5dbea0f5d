package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/davidvella/minpq/loser"
	"github.com/davidvella/minpq/metrics"
	"github.com/davidvella/minpq/priority"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidLine = errors.New("invalid line")

// maxLineSize is the longest input line accepted.
const maxLineSize = 16 << 20

// record is one parsed input line.
type record struct {
	priority int
	value    string
}

type sorter struct {
	capacity int
	workers  int
	logger   *zap.Logger
	registry *metrics.Registry
	stdin    io.Reader
	stdout   io.Writer
}

// run loads every input into its own queue and writes the merged output.
func (s *sorter) run(ctx context.Context, files []string) error {
	var queues []*priority.Queue[string]
	if len(files) == 0 {
		q := s.newQueue()
		if err := load(ctx, s.stdin, "stdin", q); err != nil {
			return err
		}
		queues = append(queues, q)
	} else {
		var err error
		if queues, err = s.loadFiles(ctx, files); err != nil {
			return err
		}
	}
	defer func() {
		for _, q := range queues {
			q.Free()
		}
	}()

	return s.write(queues)
}

func (s *sorter) loadFiles(ctx context.Context, files []string) ([]*priority.Queue[string], error) {
	queues := make([]*priority.Queue[string], len(files))

	eg, ctx := errgroup.WithContext(ctx)
	if s.workers > 0 {
		eg.SetLimit(s.workers)
	}
	for i, name := range files {
		queues[i] = s.newQueue()
		q := queues[i]
		eg.Go(func() error {
			f, err := os.Open(name)
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer f.Close()

			if err := load(ctx, f, name, q); err != nil {
				return err
			}
			s.logger.Debug("loaded file", zap.String("file", name), zap.Int("records", q.Len()))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return queues, nil
}

func (s *sorter) newQueue() *priority.Queue[string] {
	return priority.New[string](
		priority.WithCapacity(s.capacity),
		priority.WithLogger(s.logger),
		priority.WithMetrics(s.registry),
	)
}

// write drains the queues in merged priority order.
func (s *sorter) write(queues []*priority.Queue[string]) error {
	sources := make([]loser.Source[record], len(queues))
	for i, q := range queues {
		sources[i] = drain(q)
	}
	tree := loser.New(sources, func(a, b record) bool {
		return a.priority < b.priority
	})

	w := bufio.NewWriter(s.stdout)
	for r := range tree.All() {
		if _, err := fmt.Fprintf(w, "%d\t%s\n", r.priority, r.value); err != nil {
			return fmt.Errorf("failed to write: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write: %w", err)
	}
	return nil
}

// drain returns a source that removes records from q lowest priority first.
func drain(q *priority.Queue[string]) loser.Source[record] {
	return loser.SourceFunc[record](func() (record, bool) {
		v, p, err := q.Peek()
		if err != nil {
			return record{}, false
		}
		q.MustRemoveFirst()
		return record{priority: p, value: v}, true
	})
}

// load parses r into q. Blank lines and lines starting with '#' are skipped.
func load(ctx context.Context, r io.Reader, name string, q *priority.Queue[string]) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
	line := 0
	for sc.Scan() {
		line++
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		rec, ok, err := parseLine(sc.Text())
		if err != nil {
			return fmt.Errorf("%s:%d: %w", name, line, err)
		}
		if ok {
			q.Insert(rec.value, rec.priority)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	return nil
}

// parseLine parses "<priority> <value>". The value is the rest of the line
// with surrounding whitespace removed and may be empty.
func parseLine(s string) (record, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "#") {
		return record{}, false, nil
	}

	field, rest := s, ""
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		field, rest = s[:i], s[i:]
	}
	p, err := strconv.Atoi(field)
	if err != nil {
		return record{}, false, fmt.Errorf("%w: priority %q is not an integer", ErrInvalidLine, field)
	}
	return record{priority: p, value: strings.TrimSpace(rest)}, true, nil
}
