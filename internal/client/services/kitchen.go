package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gmkitchen/internal/client/notebooksync"
	"github.com/dmitrijs2005/gmkitchen/internal/notebook"
)

const (
	MsgSavedLocally = "Saved on this device."
	MsgSynced       = "Saved and synced."
	MsgCleared      = "All cleared."
)

// Outcome describes what happened to an edit.
type Outcome struct {
	Message  string
	Document notebook.Document
	Synced   bool
	// Fallback is why the edit stayed on this device, if it did.
	Fallback error
}

// KitchenService edits the notebook. It serialises every call, so edits and
// background reconciles never run concurrently.
type KitchenService struct {
	mu   sync.Mutex
	sync *notebooksync.Syncer
	now  func() time.Time
}

func NewKitchenService(s *notebooksync.Syncer) *KitchenService {
	return &KitchenService{sync: s, now: time.Now}
}

// Add records a new item at loc, most recent first.
func (k *KitchenService) Add(ctx context.Context, loc notebook.Location, name string) (notebook.Item, Outcome, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	item, err := notebook.NewItem(name, k.now())
	if err != nil {
		return notebook.Item{}, Outcome{}, err
	}

	doc, err := k.sync.Load(ctx)
	if err != nil {
		return notebook.Item{}, Outcome{}, err
	}

	out, err := k.save(ctx, doc.Inventory.Add(loc, item), MsgSavedLocally)
	if err != nil {
		return notebook.Item{}, Outcome{}, err
	}
	return item, out, nil
}

// Remove deletes the item id from loc.
func (k *KitchenService) Remove(ctx context.Context, loc notebook.Location, id string) (Outcome, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	doc, err := k.sync.Load(ctx)
	if err != nil {
		return Outcome{}, err
	}

	inv, err := doc.Inventory.Remove(loc, id)
	if err != nil {
		return Outcome{}, err
	}
	return k.save(ctx, inv, MsgSavedLocally)
}

// Clear empties every location.
func (k *KitchenService) Clear(ctx context.Context) (Outcome, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.save(ctx, notebook.EmptyInventory(), MsgCleared)
}

// List returns the items at loc.
func (k *KitchenService) List(ctx context.Context, loc notebook.Location) ([]notebook.Item, error) {
	doc, err := k.Document(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Inventory.Items(loc), nil
}

// Document returns the notebook as stored on this device.
func (k *KitchenService) Document(ctx context.Context) (notebook.Document, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.sync.Load(ctx)
}

// Reconcile syncs the notebook with the account that is logged in.
func (k *KitchenService) Reconcile(ctx context.Context) (notebooksync.Result, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.sync.ReconcileSession(ctx)
}

func (k *KitchenService) save(ctx context.Context, inv notebook.Inventory, localMsg string) (Outcome, error) {
	res, err := k.sync.SaveSession(ctx, inv)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Message: localMsg, Document: res.Document, Synced: res.Pushed, Fallback: res.Fallback}
	if res.Pushed && localMsg == MsgSavedLocally {
		out.Message = MsgSynced
	}
	return out, nil
}
