package plugin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver map[string]*Plugin

func (r fakeResolver) Resolve(name, action string) (*Plugin, error) {
	p, ok := r[name]
	if !ok {
		return nil, ErrPluginNotFound
	}
	if !p.Supports(action) {
		return nil, ErrActionNotSupported
	}
	return p, nil
}

type fakeRunner struct {
	mu   sync.Mutex
	reqs []Request
}

func (r *fakeRunner) Execute(ctx context.Context, plugin *Plugin, req *Request) (*Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, *req)
	return &Response{Success: true}, nil
}

type result struct {
	job  Job
	resp *Response
	err  error
}

func TestDispatcher_RunsJobs(t *testing.T) {
	resolver := fakeResolver{"pointer": {Manifest: Manifest{Name: "pointer", Actions: []string{"click"}}}}
	runner := &fakeRunner{}
	results := make(chan result, 4)

	d := NewDispatcher(resolver, runner, 4, func(j Job, r *Response, err error) {
		results <- result{j, r, err}
	})

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	require.True(t, d.Submit(Job{Plugin: "pointer", Request: Request{Action: "click", Event: "click"}}))
	require.True(t, d.Submit(Job{Plugin: "missing", Request: Request{Action: "click"}}))
	require.True(t, d.Submit(Job{Plugin: "pointer", Request: Request{Action: "scroll"}}))

	got := make([]result, 0, 3)
	for i := 0; i < 3; i++ {
		select {
		case r := <-results:
			got = append(got, r)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for dispatcher")
		}
	}

	cancel()
	d.Wait()

	assert.NoError(t, got[0].err)
	assert.True(t, got[0].resp.Success)
	assert.True(t, errors.Is(got[1].err, ErrPluginNotFound))
	assert.True(t, errors.Is(got[2].err, ErrActionNotSupported))

	require.Len(t, runner.reqs, 1)
	assert.Equal(t, "click", runner.reqs[0].Event)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	resolver := fakeResolver{"pointer": {Manifest: Manifest{Name: "pointer", Actions: []string{"click"}}}}
	runner := &fakeRunner{}

	// Not started, so nothing drains the queue.
	d := NewDispatcher(resolver, runner, 1, nil)

	job := Job{Plugin: "pointer", Request: Request{Action: "click"}}
	assert.True(t, d.Submit(job))
	assert.False(t, d.Submit(job))
}

func TestDispatcher_ExecutesRealPlugin(t *testing.T) {
	plugin := scriptPlugin(t, "ok-plugin", `cat > /dev/null
echo '{"success":true}'
`, "click")

	done := make(chan result, 1)
	d := NewDispatcher(fakeResolver{"ok-plugin": plugin}, NewExecutor(5*time.Second), 1, func(j Job, r *Response, err error) {
		done <- result{j, r, err}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	require.True(t, d.Submit(Job{Plugin: "ok-plugin", Request: Request{Action: "click", Event: "click"}}))

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.True(t, r.resp.Success)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for plugin")
	}
}
