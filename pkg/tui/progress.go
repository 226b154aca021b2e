// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var DefaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Progress draws a single status line of the form
//
//	⠙ parsing 12/200
//
// that is redrawn on a ticker until Stop is called.
type Progress struct {
	out      io.Writer
	label    string
	frames   []string
	interval time.Duration
	color    Colorizer

	mu      sync.Mutex
	done    int
	total   int
	idx     int
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

type ProgressOption func(*Progress)

func WithInterval(d time.Duration) ProgressOption {
	return func(p *Progress) {
		if d > 0 {
			p.interval = d
		}
	}
}

func WithColor(c Colorizer) ProgressOption {
	return func(p *Progress) {
		p.color = c
	}
}

func NewProgress(out io.Writer, label string, opts ...ProgressOption) *Progress {
	p := &Progress{
		out:      out,
		label:    label,
		frames:   DefaultFrames,
		interval: 120 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start draws the first frame for a run of total items.
func (p *Progress) Start(total int) {
	p.mu.Lock()
	if p.running {
		p.total = total
		p.mu.Unlock()
		return
	}
	p.running = true
	p.total = total
	p.done = 0
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	p.render()
	go p.loop()
}

// Set records how many items are finished. The line is redrawn on the next
// tick. It is safe for concurrent use.
func (p *Progress) Set(done, total int) {
	p.mu.Lock()
	if done > p.done {
		p.done = done
	}
	p.total = total
	p.mu.Unlock()
}

// Stop halts redrawing and erases the status line.
func (p *Progress) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.running = false
	p.mu.Unlock()

	close(stopCh)
	<-doneCh
	fmt.Fprint(p.out, "\r\033[K")
}

func (p *Progress) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.mu.Lock()
			p.idx = (p.idx + 1) % len(p.frames)
			p.mu.Unlock()
			p.render()
		case <-p.stopCh:
			close(p.doneCh)
			return
		}
	}
}

func (p *Progress) line() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	frame := p.color.Wrap(ColorYellow, p.frames[p.idx])
	return fmt.Sprintf("%s %s %d/%d", frame, p.label, p.done, p.total)
}

func (p *Progress) render() {
	fmt.Fprintf(p.out, "\r\033[K%s", p.line())
}
