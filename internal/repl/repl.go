// Package repl runs SQL statements read from a stream against a database and
// prints the results as aligned tables.
package repl

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"
)

const (
	promptText         = "❯ "
	continuationPrompt = "… "
)

// REPL reads and evaluates SQL statements.
type REPL struct {
	db  *sql.DB
	out io.Writer
	log *zap.Logger

	// Prompt receives the prompt; nil disables it.
	Prompt io.Writer
}

// New returns a REPL that queries db and prints results to out.
func New(db *sql.DB, out io.Writer, log *zap.Logger) *REPL {
	if log == nil {
		log = zap.NewNop()
	}
	return &REPL{db: db, out: out, log: log}
}

// Run evaluates statements from in until EOF, a .quit command or ctx is
// done. A statement ends with a semicolon and may span several lines; any
// statement left unterminated at EOF is run as is. Failing statements are
// reported and do not stop the loop.
func (r *REPL) Run(ctx context.Context, in io.Reader) error {
	r.log.Info("starting SQL REPL")

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var pending strings.Builder
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.prompt(pending.Len() == 0)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		if pending.Len() == 0 {
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, ".") {
				if quit := r.command(ctx, line); quit {
					return nil
				}
				continue
			}
		}

		pending.WriteString(line)
		pending.WriteByte('\n')
		if strings.HasSuffix(line, ";") {
			r.Exec(ctx, strings.TrimSpace(pending.String()))
			pending.Reset()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading statements: %w", err)
	}

	if stmt := strings.TrimSpace(pending.String()); stmt != "" {
		r.Exec(ctx, stmt)
	}
	return nil
}

func (r *REPL) prompt(fresh bool) {
	if r.Prompt == nil {
		return
	}
	if fresh {
		fmt.Fprint(r.Prompt, promptText)
	} else {
		fmt.Fprint(r.Prompt, continuationPrompt)
	}
}

// command handles a dot command and reports whether the loop should end.
func (r *REPL) command(ctx context.Context, line string) bool {
	switch strings.Fields(line)[0] {
	case ".quit", ".exit":
		return true
	case ".tables":
		r.Exec(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	case ".help":
		fmt.Fprintln(r.out, "Statements end with ';'. Commands: .tables, .help, .quit")
	default:
		fmt.Fprintf(r.out, "Error: unknown command %s\n", line)
	}
	return false
}

// Exec runs a single statement and prints its result. Errors are printed to
// the output and returned.
func (r *REPL) Exec(ctx context.Context, stmt string) error {
	start := time.Now()

	n, err := r.query(ctx, stmt)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		r.log.Debug("statement failed", zap.Error(err))
		return err
	}

	r.log.Info("statement finished",
		zap.Int("rows", n),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (r *REPL) query(ctx context.Context, stmt string) (int, error) {
	rows, err := r.db.QueryContext(ctx, stmt)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return 0, err
	}
	cols := make([]string, len(types))
	for i, t := range types {
		cols[i] = t.Name()
	}
	if len(cols) == 0 {
		// The driver only steps the statement in Next.
		for rows.Next() {
		}
		if err := rows.Err(); err != nil {
			return 0, err
		}
		fmt.Fprintln(r.out, "OK")
		return 0, nil
	}

	tw := tabwriter.NewWriter(r.out, 0, 0, 1, ' ', tabwriter.Debug)
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
	rule := make([]string, len(cols))
	for i, c := range cols {
		rule[i] = strings.Repeat("-", len(c))
	}
	fmt.Fprintln(tw, strings.Join(rule, "\t"))

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	cells := make([]string, len(cols))

	n := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return n, err
		}
		for i, v := range values {
			cells[i] = formatValue(v, types[i].DatabaseTypeName())
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
		n++
	}
	if err := rows.Err(); err != nil {
		return n, err
	}
	if err := tw.Flush(); err != nil {
		return n, err
	}

	fmt.Fprintf(r.out, "(%d rows)\n", n)
	return n, nil
}

// formatValue renders a scanned cell. declType is the declared column type;
// byte slices are only shown as blobs for BLOB columns.
func formatValue(v any, declType string) string {
	switch v := v.(type) {
	case nil:
		return "<null>"
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	case []byte:
		if strings.EqualFold(declType, "BLOB") {
			return fmt.Sprintf("<%d bytes blob>", len(v))
		}
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
