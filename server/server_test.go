package server

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/metoro-io/mcp-golang/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reddit-mcp-server/client"
	"reddit-mcp-server/testutils"
	"reddit-mcp-server/tools"
)

// fakeTransport stands in for stdio; Close behaves like the client closing stdin
type fakeTransport struct {
	mu           sync.Mutex
	closeHandler func()
	started      chan struct{}
	startOnce    sync.Once
	closeOnce    sync.Once
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{started: make(chan struct{})}
}

func (f *fakeTransport) Start(ctx context.Context) error {
	f.startOnce.Do(func() { close(f.started) })
	return nil
}

func (f *fakeTransport) Send(ctx context.Context, message *transport.BaseJsonRpcMessage) error {
	return nil
}

func (f *fakeTransport) Close() error {
	f.closeOnce.Do(func() {
		f.mu.Lock()
		handler := f.closeHandler
		f.mu.Unlock()
		if handler != nil {
			handler()
		}
	})
	return nil
}

func (f *fakeTransport) SetCloseHandler(handler func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeHandler = handler
}

func (f *fakeTransport) SetErrorHandler(handler func(error)) {}

func (f *fakeTransport) SetMessageHandler(handler func(ctx context.Context, message *transport.BaseJsonRpcMessage)) {
}

func newTestServer() *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testutils.LoadTestConfig("http://127.0.0.1:0")
	return New(tools.NewHandler(client.New(cfg, logger), logger), cfg, logger)
}

func TestCloseNotifier(t *testing.T) {
	fake := newFakeTransport()
	notifier := newCloseNotifier(fake)

	called := false
	notifier.SetCloseHandler(func() { called = true })

	select {
	case <-notifier.done:
		t.Fatal("done closed before the transport closed")
	default:
	}

	require.NoError(t, fake.Close())
	assert.True(t, called, "inner close handler must still run")

	select {
	case <-notifier.done:
	default:
		t.Fatal("done not closed after the transport closed")
	}
}

func TestServe_StopsWhenClientDisconnects(t *testing.T) {
	fake := newFakeTransport()
	errCh := make(chan error, 1)

	go func() {
		errCh <- newTestServer().serve(context.Background(), fake)
	}()

	select {
	case <-fake.started:
	case <-time.After(2 * time.Second):
		t.Fatal("transport was never started")
	}

	require.NoError(t, fake.Close())

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve kept running after the client disconnected")
	}
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	fake := newFakeTransport()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)

	go func() {
		errCh <- newTestServer().serve(ctx, fake)
	}()

	select {
	case <-fake.started:
	case <-time.After(2 * time.Second):
		t.Fatal("transport was never started")
	}

	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve kept running after cancellation")
	}
}
