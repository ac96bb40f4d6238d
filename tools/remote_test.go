package tools

import (
	"context"
	"encoding/json"
	"sync"
)

type remoteCall struct {
	Route string
	Body  map[string]any
}

// fakeRemote records every Post and answers with a canned JSON value per route.
type fakeRemote struct {
	mu        sync.Mutex
	calls     []remoteCall
	responses map[string]any
	errs      map[string]error
}

func newFakeRemote(responses map[string]any) *fakeRemote {
	return &fakeRemote{responses: responses, errs: map[string]error{}}
}

func (f *fakeRemote) Post(ctx context.Context, route string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}

	f.mu.Lock()
	f.calls = append(f.calls, remoteCall{Route: route, Body: m})
	f.mu.Unlock()

	if err := f.errs[route]; err != nil {
		return err
	}
	resp, err := json.Marshal(f.responses[route])
	if err != nil {
		return err
	}
	return json.Unmarshal(resp, out)
}

func (f *fakeRemote) Calls() []remoteCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]remoteCall(nil), f.calls...)
}
