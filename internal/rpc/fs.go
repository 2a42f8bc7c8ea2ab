package rpc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"rds/internal/logger"
)

func errField(err error) zap.Field { return zap.Error(err) }

// FSTransport is the real mailbox transport: requests and responses
// are atomically-written YAML files under a shared datasite directory,
// watched with fsnotify. Request files live in <baseDir>/requests and
// responses in <baseDir>/responses; the endpoint is carried inside the
// request body rather than the path, so a single watch covers every
// kind.
type FSTransport struct {
	baseDir        string
	senderEmail    string
	requestTimeout time.Duration
	pollInterval   time.Duration

	seen sync.Map // uuid.UUID -> struct{}, dedups at-least-once delivery
}

// NewFSTransport prepares the requests/ and responses/ subdirectories
// under baseDir and returns an FSTransport that stamps req.Sender from
// senderEmail.
func NewFSTransport(baseDir, senderEmail string) (*FSTransport, error) {
	for _, sub := range []string{"requests", "responses"} {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("rpc: creating %s: %w", sub, err)
		}
	}
	return &FSTransport{
		baseDir:        baseDir,
		senderEmail:    senderEmail,
		requestTimeout: 30 * time.Second,
		pollInterval:   100 * time.Millisecond,
	}, nil
}

var _ Transport = (*FSTransport)(nil)

func (t *FSTransport) requestPath(id uuid.UUID) string {
	return filepath.Join(t.baseDir, "requests", id.String()+".yaml")
}

func (t *FSTransport) responsePath(id uuid.UUID) string {
	return filepath.Join(t.baseDir, "responses", id.String()+".yaml")
}

// Send writes req as a request file and blocks until its response file
// appears, ctx is cancelled, or the request's own expiry elapses.
func (t *FSTransport) Send(ctx context.Context, req Request) (Response, error) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.Sender = t.senderEmail
	if req.SentAt.IsZero() {
		req.SentAt = time.Now().UTC()
	}
	if req.ExpiresAt.IsZero() {
		req.ExpiresAt = req.SentAt.Add(t.requestTimeout)
	}

	data, err := yaml.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("rpc: encoding request: %w", err)
	}
	if err := writeFileAtomic(t.requestPath(req.ID), data); err != nil {
		return Response{}, err
	}

	respPath := t.responsePath(req.ID)
	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		if resp, ok, err := readResponse(respPath); err != nil {
			return Response{}, err
		} else if ok {
			os.Remove(t.requestPath(req.ID))
			os.Remove(respPath)
			return resp, nil
		}

		if time.Now().UTC().After(req.ExpiresAt) {
			os.Remove(t.requestPath(req.ID))
			return Response{}, fmt.Errorf("rpc: request %s expired waiting for a response", req.ID)
		}

		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func readResponse(path string) (Response, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Response{}, false, nil
		}
		return Response{}, false, fmt.Errorf("rpc: reading response: %w", err)
	}
	var resp Response
	if err := yaml.Unmarshal(data, &resp); err != nil {
		return Response{}, false, fmt.Errorf("rpc: decoding response: %w", err)
	}
	return resp, true, nil
}

// Serve watches the requests directory and dispatches every new,
// unexpired, not-yet-seen request against router, writing its Response
// back atomically. It blocks until ctx is cancelled.
func (t *FSTransport) Serve(ctx context.Context, router *Router) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("rpc: creating watcher: %w", err)
	}
	defer watcher.Close()

	requestsDir := filepath.Join(t.baseDir, "requests")
	if err := watcher.Add(requestsDir); err != nil {
		return fmt.Errorf("rpc: watching %s: %w", requestsDir, err)
	}

	log := logger.GetLogger(ctx)

	// Drain any requests already on disk before the watch started.
	t.drainExisting(ctx, router, requestsDir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 || !strings.HasSuffix(event.Name, ".yaml") {
				continue
			}
			t.handleRequestFile(ctx, router, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("rpc: watcher error", errField(err))
		}
	}
}

func (t *FSTransport) drainExisting(ctx context.Context, router *Router, requestsDir string) {
	entries, err := os.ReadDir(requestsDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		t.handleRequestFile(ctx, router, filepath.Join(requestsDir, e.Name()))
	}
}

func (t *FSTransport) handleRequestFile(ctx context.Context, router *Router, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return // removed between event and read, or a transient race: safe to drop
	}
	var req Request
	if err := yaml.Unmarshal(data, &req); err != nil {
		logger.GetLogger(ctx).Error("rpc: malformed request file", errField(err))
		return
	}

	if _, dup := t.seen.LoadOrStore(req.ID, struct{}{}); dup {
		return
	}

	if req.Expired(time.Now().UTC()) {
		return
	}

	resp := router.Dispatch(ctx, req)
	resp.RequestID = req.ID
	resp.SentAt = time.Now().UTC()

	out, err := yaml.Marshal(resp)
	if err != nil {
		logger.GetLogger(ctx).Error("rpc: encoding response", errField(err))
		return
	}
	if err := writeFileAtomic(t.responsePath(req.ID), out); err != nil {
		logger.GetLogger(ctx).Error("rpc: writing response", errField(err))
	}
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*.yaml")
	if err != nil {
		return fmt.Errorf("rpc: creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("rpc: writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rpc: renaming into %s: %w", path, err)
	}
	return nil
}
