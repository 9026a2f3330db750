package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"go.jacobcolvin.com/profview/log"
	"go.jacobcolvin.com/profview/table"
	"go.jacobcolvin.com/profview/viewer"
)

const defaultTailLines = 200

// logLine is one parsed log entry.
type logLine struct {
	attrs  *table.Static
	time   string
	level  string
	msg    string
	inline string
}

// LogTail shows the most recent entries written to a [log.Publisher].
//
// Entries are expected in [log.FormatJSON]; other lines are shown verbatim as
// the message. The newest entry is the first row. Warnings and errors are
// highlighted, and entries with attributes open a key/value table. When an
// entry falls out of the ring its key/value table is handed to the remover,
// so no viewer keeps showing it.
//
// Create instances with [NewLogTail].
type LogTail struct {
	sub    *log.Subscription
	remove func(table.Table)
	lines  []logLine
	max    int
	seen   int
}

// LogTailOption configures a [LogTail].
type LogTailOption func(*LogTail)

// WithLines sets how many entries are kept. Values less than 1 are clamped
// to 1. The default is 200.
func WithLines(n int) LogTailOption {
	return func(l *LogTail) {
		l.max = max(n, 1)
	}
}

// WithRemover sets the function called with the key/value table of each
// entry that is dropped from the ring. The default is [viewer.Dispose].
func WithRemover(remove func(table.Table)) LogTailOption {
	return func(l *LogTail) {
		l.remove = remove
	}
}

// NewLogTail subscribes to pub. Call [LogTail.Drain] to pick up new entries
// and [LogTail.Close] to unsubscribe.
func NewLogTail(pub *log.Publisher, opts ...LogTailOption) *LogTail {
	l := &LogTail{
		sub:    pub.Subscribe(),
		remove: viewer.Dispose,
		max:    defaultTailLines,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Drain moves all pending entries into the table without blocking and
// returns how many were added.
func (l *LogTail) Drain() int {
	n := 0

	for _, entry := range l.sub.Drain() {
		for line := range bytes.Lines(entry) {
			line = bytes.TrimSpace(line)
			if len(line) == 0 {
				continue
			}

			l.push(l.parse(line))
			n++
		}
	}

	return n
}

// Close unsubscribes from the publisher. The rows are kept.
func (l *LogTail) Close() {
	l.sub.Close()
}

func (l *LogTail) push(line logLine) {
	if len(l.lines) == l.max {
		evicted := l.lines[0]
		l.lines = slices.Delete(l.lines, 0, 1)

		if evicted.attrs != nil && l.remove != nil {
			l.remove(evicted.attrs)
		}
	}

	l.lines = append(l.lines, line)
}

func (l *LogTail) parse(raw []byte) logLine {
	l.seen++

	var doc map[string]any

	err := json.Unmarshal(raw, &doc)
	if err != nil || doc == nil {
		return logLine{msg: string(raw)}
	}

	line := logLine{
		level: stringValue(doc[slog.LevelKey]),
		msg:   stringValue(doc[slog.MessageKey]),
	}

	if ts, err := time.Parse(time.RFC3339Nano, stringValue(doc[slog.TimeKey])); err == nil {
		line.time = ts.Format("15:04:05.000")
	}

	delete(doc, slog.TimeKey)
	delete(doc, slog.LevelKey)
	delete(doc, slog.MessageKey)
	delete(doc, slog.SourceKey)

	if len(doc) == 0 {
		return line
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	line.attrs = table.NewStatic(fmt.Sprintf("log/%d", l.seen), line.msg,
		table.NewColumn("Key", 160),
		table.NewColumn("Value", 320),
	)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		v := stringValue(doc[k])
		line.attrs.AddRow(k, v)
		pairs = append(pairs, k+"="+v)
	}

	line.inline = strings.Join(pairs, " ")

	return line
}

func stringValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}

		return string(b)
	}

	return fmt.Sprint(v)
}

func (l *LogTail) at(row int) (logLine, bool) {
	if row < 0 || row >= len(l.lines) {
		return logLine{}, false
	}

	return l.lines[len(l.lines)-1-row], true
}

// Name implements [table.Table].
func (l *LogTail) Name() string { return "log" }

// Title implements [table.Table].
func (l *LogTail) Title() string {
	return fmt.Sprintf("Log (%d of %d entries)", len(l.lines), l.seen)
}

// NumberRows implements [table.Table].
func (l *LogTail) NumberRows() int { return len(l.lines) }

// Columns implements [table.Table].
func (l *LogTail) Columns() []table.Column {
	return []table.Column{
		table.NewColumn("Time", 104),
		table.NewColumn("Level", 56),
		table.NewColumn("Message", 280),
		table.NewColumn("Attributes", 320),
	}
}

// CellText implements [table.Table].
func (l *LogTail) CellText(row, col int) string {
	line, ok := l.at(row)
	if !ok {
		return ""
	}

	switch col {
	case 0:
		return line.time
	case 1:
		return line.level
	case 2:
		return line.msg
	case 3:
		return line.inline
	}

	return ""
}

// Child implements [table.Table].
func (l *LogTail) Child(row int) table.Table {
	line, ok := l.at(row)
	if !ok || line.attrs == nil {
		return nil
	}

	return line.attrs
}

// IsHighlightRow implements [table.RowHighlighter].
func (l *LogTail) IsHighlightRow(row int) bool {
	line, ok := l.at(row)
	if !ok {
		return false
	}

	return strings.HasPrefix(line.level, "WARN") || strings.HasPrefix(line.level, "ERROR")
}
