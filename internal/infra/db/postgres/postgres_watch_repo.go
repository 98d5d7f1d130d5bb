package postgres

import (
	"context"

	"repolingo/internal/domain"
	"repolingo/internal/domain/model"
	"repolingo/internal/domain/ports/repository"
)

var _ repository.WatchRepository = (*WatchRepo)(nil)

type WatchRepo struct {
	tm repository.TransactionManager
}

func NewWatchRepo(tm repository.TransactionManager) *WatchRepo {
	return &WatchRepo{tm: tm}
}

func (r *WatchRepo) Save(ctx context.Context, w *model.Watch) error {
	qx, err := r.tm.ActiveHandle(ctx)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO watches (user_id, source_id, chat_id, created_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (user_id, source_id) DO UPDATE SET chat_id = EXCLUDED.chat_id;`
	_, err = qx.Exec(ctx, q, w.UserID, w.SourceID, w.ChatID, w.CreatedAt)
	return err
}

func (r *WatchRepo) WatcherChats(ctx context.Context, sourceID string) ([]int64, error) {
	qx, err := r.tm.ActiveHandle(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := qx.Query(ctx, `SELECT chat_id FROM watches WHERE source_id=$1 AND chat_id <> 0;`, sourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		chats = append(chats, id)
	}
	return chats, rows.Err()
}
