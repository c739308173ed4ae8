package postgres

import (
	"context"

	"github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"
)

type JournalRepository interface {
	Save(ctx context.Context, rec *entity.EditRecord) error
	Recent(ctx context.Context, limit int) ([]*entity.EditRecord, error)
	BySession(ctx context.Context, sessionID string) ([]*entity.EditRecord, error)
}
