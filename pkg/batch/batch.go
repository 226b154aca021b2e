// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package batch parses many argument lists against one registry.
//
// A batch file holds one argument list per line, split on whitespace.
// Blank lines and lines starting with '#' are skipped. Files ending in
// ".zst" are decompressed on the fly.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/yeetrun/posixopt/pkg/cliopt"
	"github.com/yeetrun/posixopt/pkg/codecutil"
	"github.com/yeetrun/posixopt/pkg/ctxlog"
	"github.com/yeetrun/posixopt/pkg/posix"
	"golang.org/x/sync/errgroup"
)

// Line is one argument list and the 1-based line it was read from.
type Line struct {
	Num  int
	Args []string
}

// Result is the outcome of parsing one Line. Exactly one of CommandLine
// and Err is set.
type Result struct {
	Line        Line
	CommandLine *posix.CommandLine
	Err         error
}

// ReadLines reads argument lists from r.
func ReadLines(r io.Reader) ([]Line, error) {
	var lines []Line
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for n := 1; sc.Scan(); n++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, Line{Num: n, Args: strings.Fields(text)})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}
	return lines, nil
}

// ReadFile reads argument lists from the file at path.
func ReadFile(path string) ([]Line, error) {
	rc, err := codecutil.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	lines, err := ReadLines(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lines, nil
}

// Run parses every line with p against opts using up to workers
// goroutines; workers <= 0 means GOMAXPROCS. Results are in the order of
// lines. Parse failures are reported in Result.Err; the returned error is
// only set when ctx is done before every line was parsed.
func Run(ctx context.Context, p posix.Parser, opts *cliopt.Options, lines []Line, workers int) ([]Result, error) {
	return RunProgress(ctx, p, opts, lines, workers, nil)
}

// RunProgress is Run, calling progress with the number of lines parsed so
// far after each line. progress may be called from several goroutines at
// once.
func RunProgress(ctx context.Context, p posix.Parser, opts *cliopt.Options, lines []Line, workers int, progress func(done, total int)) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger := ctxlog.FromContext(ctx)
	results := make([]Result, len(lines))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, ln := range lines {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cl, err := p.Parse(opts, ln.Args)
			results[i] = Result{Line: ln, CommandLine: cl, Err: err}
			if err != nil {
				logger.Debug("parse failed", "line", ln.Num, "err", err)
			}
			if progress != nil {
				progress(int(done.Add(1)), len(lines))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.Info("batch parsed", "lines", len(lines), "failed", Failed(results))
	return results, nil
}

// Failed counts the results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
