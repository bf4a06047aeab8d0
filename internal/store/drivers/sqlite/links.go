package sqlite

import (
	"context"
	"database/sql"

	"github.com/meishilabs/meishi/internal/domain"
	"github.com/meishilabs/meishi/internal/store"
)

type linksRepo struct {
	db dbtx
}

func (r *linksRepo) ListByUser(ctx context.Context, userID string) ([]domain.Link, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, url FROM links WHERE user_id = ? ORDER BY position ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.Link
	for rows.Next() {
		var l domain.Link
		if err := rows.Scan(&l.ID, &l.Title, &l.URL); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// Replace swaps the full link list. Slice index becomes display position,
// which is why this must run inside the same transaction as any profile
// update that accompanies it.
func (r *linksRepo) Replace(ctx context.Context, userID string, links []domain.Link) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM links WHERE user_id = ?`, userID); err != nil {
		return err
	}

	for i, l := range links {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO links (id, user_id, title, url, position) VALUES (?, ?, ?, ?, ?)`,
			l.ID, userID, l.Title, l.URL, i,
		); err != nil {
			return mapConflict(err)
		}
	}
	return nil
}

// requireRowAffected converts a zero-row UPDATE/DELETE into ErrNotFound.
func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
