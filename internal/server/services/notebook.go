package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gmkitchen/internal/common"
	"github.com/dmitrijs2005/gmkitchen/internal/notebook"
	"github.com/dmitrijs2005/gmkitchen/internal/server/models"
	"github.com/dmitrijs2005/gmkitchen/internal/server/repositories/repomanager"
)

// WriteRecorder is told about every stored notebook.
type WriteRecorder interface {
	NotebookWritten(payloadBytes int)
}

type nopRecorder struct{}

func (nopRecorder) NotebookWritten(int) {}

// NotebookService keeps one notebook per user. It does not compare versions:
// whichever client writes last replaces the row, and clients decide between
// copies before they write.
type NotebookService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	recorder    WriteRecorder
}

func NewNotebookService(db *sql.DB, m repomanager.RepositoryManager, rec WriteRecorder) *NotebookService {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &NotebookService{db: db, repomanager: m, recorder: rec}
}

// Fetch returns common.ErrorNotFound when the user has never pushed.
func (s *NotebookService) Fetch(ctx context.Context, userID string) (*models.Notebook, error) {
	if userID == "" {
		return nil, common.ErrorUnauthorized
	}
	return s.repomanager.Notebooks(s.db).Get(ctx, userID)
}

// Upsert validates and stores a notebook row. Bad input is reported as an
// error wrapping common.ErrorInvalidArgument.
func (s *NotebookService) Upsert(ctx context.Context, userID, payload string, version int64, updatedAt string) error {
	if userID == "" {
		return common.ErrorUnauthorized
	}
	if version < 1 {
		return fmt.Errorf("%w: version must be at least 1, got %d", common.ErrorInvalidArgument, version)
	}
	if strings.TrimSpace(payload) == "" || !json.Valid([]byte(payload)) {
		return fmt.Errorf("%w: payload is not JSON", common.ErrorInvalidArgument)
	}
	ts, ok := notebook.ParseTime(updatedAt)
	if !ok {
		return fmt.Errorf("%w: bad updated_at %q", common.ErrorInvalidArgument, updatedAt)
	}

	nb := &models.Notebook{UserID: userID, Payload: payload, Version: version, UpdatedAt: ts.UTC()}
	if err := s.repomanager.Notebooks(s.db).Upsert(ctx, nb); err != nil {
		return fmt.Errorf("error storing notebook: %w", err)
	}
	s.recorder.NotebookWritten(len(payload))
	return nil
}
