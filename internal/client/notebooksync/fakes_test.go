package notebooksync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/gmkitchen/internal/notebook"
)

type memLocal struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
}

func newMemLocal() *memLocal {
	return &memLocal{data: map[string][]byte{}}
}

func (m *memLocal) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *memLocal) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memLocal) raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.data[key])
}

type fakeRemote struct {
	mu        sync.Mutex
	rows      map[string]RemoteRecord
	fetchErr  error
	upsertErr error
	fetches   int
	upserts   int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{rows: map[string]RemoteRecord{}}
}

func (f *fakeRemote) FetchByIdentity(_ context.Context, id string) (*RemoteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	rec, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeRemote) Upsert(_ context.Context, id string, rec RemoteRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.rows[id] = rec
	return nil
}

func (f *fakeRemote) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches + f.upserts
}

// stepClock advances by one second on every call.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

var errBoom = errors.New("boom")

func item(id, name string) notebook.Item {
	return notebook.Item{ID: id, Name: name, CreatedAt: "2025-01-01T00:00:00.000Z"}
}

func putLocal(m *memLocal, doc notebook.Document) {
	b, err := notebook.Encode(doc)
	if err != nil {
		panic(err)
	}
	m.data[LocalKey] = b
}

func putRemote(f *fakeRemote, id string, doc notebook.Document) {
	b, err := notebook.Encode(doc)
	if err != nil {
		panic(err)
	}
	f.rows[id] = RemoteRecord{Payload: string(b), Version: doc.Version, UpdatedAt: doc.UpdatedAt}
}

func remoteDoc(f *fakeRemote, id string) notebook.Document {
	f.mu.Lock()
	rec := f.rows[id]
	f.mu.Unlock()
	doc, err := notebook.DecodeDocument([]byte(rec.Payload), time.Time{})
	if err != nil {
		panic(err)
	}
	return doc
}
