package analysis

import (
	"context"

	"github.com/claude/liftcast/internal/models"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=analysis_test

// HistorySource supplies the training log. Every request reads a fresh
// snapshot, so engines never see a log that changes under them.
type HistorySource interface {
	History(ctx context.Context) (*models.History, error)
}
