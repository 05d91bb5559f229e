package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultMaxLength leaves room for the code fence inside a 2000-character
// message limit.
const DefaultMaxLength = 1800

var levelColors = map[slog.Level]string{
	slog.LevelDebug: "\u001b[30m",
	slog.LevelInfo:  "\u001b[34m",
	slog.LevelWarn:  "\u001b[31m",
	slog.LevelError: "\u001b[41m",
}

// WebhookConfig configures the webhook log side channel.
type WebhookConfig struct {
	URL         string
	Username    string
	MaxLength   int          // chunk size, defaults to DefaultMaxLength
	QueueSize   int          // records buffered before new ones are dropped
	MaxAttempts int          // attempts per chunk when rate limited
	Client      *http.Client // optional
}

type webhookMessage struct {
	level slog.Level
	text  string
}

// Webhook mirrors log records to a chat webhook. Delivery is best effort:
// rate limiting is honoured through Retry-After and every other failure is
// reported to the wrapped handler only.
type Webhook struct {
	cfg      WebhookConfig
	client   *http.Client
	queue    chan webhookMessage
	done     chan struct{}
	mu       sync.RWMutex
	closed   bool
	fallback atomic.Pointer[slog.Logger]
}

// NewWebhook starts the delivery goroutine. Call Close to drain it.
func NewWebhook(cfg WebhookConfig) *Webhook {
	if cfg.Username == "" {
		cfg.Username = "Console Logger"
	}
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = DefaultMaxLength
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	w := &Webhook{
		cfg:    cfg,
		client: client,
		queue:  make(chan webhookMessage, cfg.QueueSize),
		done:   make(chan struct{}),
	}
	w.fallback.Store(Discard())
	go w.run()
	return w
}

// Wrap returns a handler that writes to inner and mirrors to the webhook.
// Delivery failures are logged through inner alone.
func (w *Webhook) Wrap(inner slog.Handler) slog.Handler {
	w.fallback.Store(slog.New(inner))
	return &webhookHandler{inner: inner, webhook: w}
}

// Close stops accepting records and waits for queued ones to be sent.
func (w *Webhook) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Webhook) enqueue(m webhookMessage) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	select {
	case w.queue <- m:
	default:
	}
}

func (w *Webhook) run() {
	defer close(w.done)
	for m := range w.queue {
		formatted := levelColors[m.level] + m.text + "\u001b[0m"
		for _, part := range SplitMessage(formatted, w.cfg.MaxLength) {
			w.send("```ansi\n" + part + "\n```")
		}
	}
}

func (w *Webhook) send(content string) {
	body, err := json.Marshal(map[string]string{
		"content":  content,
		"username": w.cfg.Username,
	})
	if err != nil {
		return
	}

	for attempt := 1; attempt <= w.cfg.MaxAttempts; attempt++ {
		resp, err := w.client.Post(w.cfg.URL, "application/json", bytes.NewReader(body))
		if err != nil {
			w.fallback.Load().Error("webhook error", "error", err)
			return
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			retry := retryAfter(resp.Header.Get("Retry-After"))
			drain(resp)
			time.Sleep(retry)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			text, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
			resp.Body.Close()
			w.fallback.Load().Error("webhook send failed", "status", resp.StatusCode, "body", string(text))
			return
		}

		drain(resp)
		return
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// retryAfter parses a Retry-After header given in whole seconds,
// defaulting to one second.
func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs < 0 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}

// SplitMessage breaks message into chunks of at most maxLength characters
// on line boundaries. A single line longer than maxLength is kept whole.
func SplitMessage(message string, maxLength int) []string {
	var chunks []string
	var current strings.Builder
	for _, line := range strings.Split(message, "\n") {
		if current.Len()+len(line)+1 > maxLength {
			if current.Len() > 0 {
				chunks = append(chunks, strings.TrimRight(current.String(), " \t\r\n"))
			}
			current.Reset()
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimRight(current.String(), " \t\r\n"))
	}
	return chunks
}

type webhookHandler struct {
	inner   slog.Handler
	webhook *Webhook
	attrs   string
	prefix  string // open groups, dot separated
}

func (h *webhookHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *webhookHandler) Handle(ctx context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Level.String())
	sb.WriteString(": ")
	sb.WriteString(r.Message)
	sb.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, h.prefix, a)
		return true
	})
	h.webhook.enqueue(webhookMessage{level: r.Level, text: sb.String()})

	return h.inner.Handle(ctx, r)
}

func (h *webhookHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder
	sb.WriteString(h.attrs)
	for _, a := range attrs {
		writeAttr(&sb, h.prefix, a)
	}
	return &webhookHandler{inner: h.inner.WithAttrs(attrs), webhook: h.webhook, attrs: sb.String(), prefix: h.prefix}
}

func (h *webhookHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &webhookHandler{inner: h.inner.WithGroup(name), webhook: h.webhook, attrs: h.attrs, prefix: h.prefix + name + "."}
}

// writeAttr appends a as " key=value", qualifying the key with prefix and
// flattening nested groups.
func writeAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			writeAttr(sb, prefix, ga)
		}
		return
	}
	if a.Equal(slog.Attr{}) {
		return
	}
	fmt.Fprintf(sb, " %s%s=%v", prefix, a.Key, a.Value)
}
