package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// Mode selects how suspense content reaches the browser.
type Mode uint8

const (
	// ModeOutOfOrder streams the shell immediately with fallbacks in
	// place, then streams replacement fragments as loaders resolve.
	ModeOutOfOrder Mode = iota

	// ModeInOrder streams top-to-bottom, blocking at each suspense
	// boundary until its loader resolves.
	ModeInOrder

	// ModeAsync resolves every loader first, then sends one complete
	// document.
	ModeAsync

	// ModePartiallyBlocked is out-of-order, except boundaries marked
	// Blocking are resolved into the shell before it flushes.
	ModePartiallyBlocked
)

// String returns the mode name as used in route listings.
func (m Mode) String() string {
	switch m {
	case ModeOutOfOrder:
		return "out-of-order"
	case ModeInOrder:
		return "in-order"
	case ModeAsync:
		return "async"
	case ModePartiallyBlocked:
		return "partially-blocked"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name. Unknown names fall back to out-of-order.
func ParseMode(s string) Mode {
	switch s {
	case "in-order":
		return ModeInOrder
	case "async":
		return ModeAsync
	case "partially-blocked":
		return ModePartiallyBlocked
	default:
		return ModeOutOfOrder
	}
}

// swapScript installs the fragment swap helper used by streamed
// suspense replacements. Emitted once, right after <body>, so it runs
// before the client bundle loads.
const swapScript = `<script>window.__veldt_swap=function(id){var t=document.querySelector('template[data-suspense-for="'+id+'"]');var d=document.querySelector('div[data-suspense="'+id+'"]');if(t&&d){d.replaceChildren(t.content.cloneNode(true));d.removeAttribute('data-suspense-pending');t.remove();}};</script>` + "\n"

// StreamRenderer renders a page with one of the SSR modes, flushing
// incrementally when the writer supports it.
type StreamRenderer struct {
	*Renderer
	mode    Mode
	w       io.Writer
	flusher http.Flusher
	mu      sync.Mutex

	// FragmentObserver, when set, is called once per streamed
	// suspense fragment after it is written.
	FragmentObserver func()
}

// NewStreamRenderer creates a streaming renderer for the given mode.
// If w implements http.Flusher, content is flushed after the shell and
// after each fragment for faster time-to-first-byte.
func NewStreamRenderer(w io.Writer, mode Mode, config RendererConfig) *StreamRenderer {
	flusher, _ := w.(http.Flusher)
	return &StreamRenderer{
		Renderer: NewRenderer(config),
		mode:     mode,
		w:        w,
		flusher:  flusher,
	}
}

// RenderPage renders the complete document according to the mode.
//
// In ModeAsync, nothing is written until every loader has resolved, so
// a loader error surfaces before any byte reaches the client. In the
// streaming modes the shell is already on the wire when loaders run;
// their errors are rendered into the affected boundary instead.
func (s *StreamRenderer) RenderPage(ctx context.Context, page PageData) error {
	s.WithContext(ctx)

	boundaries := collectBoundaries(page.Body, nil)
	for i, b := range boundaries {
		b.id = fmt.Sprintf("s%d", i+1)
	}
	// Boundaries nested inside loader output are only discovered while
	// rendering; continue the id sequence past the collected ones.
	s.susCounter = uint32(len(boundaries))

	switch s.mode {
	case ModeAsync:
		return s.renderAsync(ctx, page, boundaries)
	case ModeInOrder:
		return s.renderInOrder(page)
	case ModePartiallyBlocked:
		return s.renderOutOfOrder(ctx, page, boundaries, true)
	default:
		return s.renderOutOfOrder(ctx, page, boundaries, false)
	}
}

// renderAsync resolves every boundary, then emits the full document.
func (s *StreamRenderer) renderAsync(ctx context.Context, page PageData, boundaries []*Boundary) error {
	if err := resolveAll(ctx, boundaries); err != nil {
		return err
	}

	if err := s.renderDocumentOpen(s.w, page); err != nil {
		return err
	}
	if err := s.RenderToWriter(s.w, page.Body); err != nil {
		return err
	}
	if err := s.renderDocumentClose(s.w); err != nil {
		return err
	}
	s.flush()
	return nil
}

// renderInOrder streams the document, resolving each boundary inline.
func (s *StreamRenderer) renderInOrder(page PageData) error {
	s.config.ResolveBoundaries = true
	s.onBoundary = s.flush

	if err := s.renderDocumentOpen(s.w, page); err != nil {
		return err
	}
	s.flush()

	if err := s.RenderToWriter(s.w, page.Body); err != nil {
		return err
	}

	if err := s.renderDocumentClose(s.w); err != nil {
		return err
	}
	s.flush()
	return nil
}

// renderOutOfOrder streams the shell with fallbacks, then fragment
// replacements in loader completion order. When blockFirst is set,
// blocking boundaries are resolved into the shell before it flushes.
func (s *StreamRenderer) renderOutOfOrder(ctx context.Context, page PageData, boundaries []*Boundary, blockFirst bool) error {
	pending := boundaries
	if blockFirst {
		var blocking []*Boundary
		pending = nil
		for _, b := range boundaries {
			if b.Blocking {
				blocking = append(blocking, b)
			} else {
				pending = append(pending, b)
			}
		}
		if err := resolveAll(ctx, blocking); err != nil {
			return err
		}
	}

	if err := s.renderDocumentOpen(s.w, page); err != nil {
		return err
	}
	if _, err := io.WriteString(s.w, swapScript); err != nil {
		return err
	}
	if err := s.RenderToWriter(s.w, page.Body); err != nil {
		return err
	}
	s.flush()

	// The shell is out; no later fragment can replace a fallback that
	// was not in it. Boundaries nested inside loader output therefore
	// resolve inline while their enclosing fragment renders.
	s.config.ResolveBoundaries = true

	if len(pending) > 0 {
		done := make(chan *Boundary, len(pending))
		for _, b := range pending {
			go func(b *Boundary) {
				b.resolve(ctx)
				done <- b
			}(b)
		}
		for range pending {
			b := <-done
			if err := s.writeFragment(ctx, b); err != nil {
				return err
			}
		}
	}

	if err := s.renderDocumentClose(s.w); err != nil {
		return err
	}
	s.flush()
	return nil
}

// writeFragment emits a resolved boundary as a template replacement
// plus the swap call.
func (s *StreamRenderer) writeFragment(ctx context.Context, b *Boundary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := b.resolve(ctx)
	if _, werr := fmt.Fprintf(s.w, `<template data-suspense-for="%s">`, escapeAttr(b.id)); werr != nil {
		return werr
	}
	if err != nil {
		if _, werr := fmt.Fprintf(s.w, `<span data-suspense-error>%s</span>`, escapeHTML(err.Error())); werr != nil {
			return werr
		}
	} else if werr := s.RenderToWriter(s.w, content); werr != nil {
		return werr
	}
	if _, werr := fmt.Fprintf(s.w, "</template><script>__veldt_swap(%q);</script>\n", b.id); werr != nil {
		return werr
	}
	s.flush()
	if s.FragmentObserver != nil {
		s.FragmentObserver()
	}
	return nil
}

// resolveAll runs every loader concurrently and waits. The first
// error wins; remaining loaders still run to completion.
func resolveAll(ctx context.Context, boundaries []*Boundary) error {
	if len(boundaries) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(boundaries))
	for _, b := range boundaries {
		wg.Add(1)
		go func(b *Boundary) {
			defer wg.Done()
			if _, err := b.resolve(ctx); err != nil {
				errCh <- fmt.Errorf("suspense %s: %w", b.id, err)
			}
		}(b)
	}
	wg.Wait()
	close(errCh)
	return <-errCh
}

// flush flushes the writer if it supports flushing.
func (s *StreamRenderer) flush() {
	if s.flusher != nil {
		s.flusher.Flush()
	}
}

// FlushableWriter wraps an io.Writer with flush counting.
// Useful for testing streaming behavior without an http.ResponseWriter.
type FlushableWriter struct {
	io.Writer
	FlushCount int
}

// Flush implements http.Flusher.
func (w *FlushableWriter) Flush() {
	w.FlushCount++
}
