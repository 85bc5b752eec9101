package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"team-quiz-service/internal/domain"
)

// PackLoader loads question pack JSONB from Postgres.
type PackLoader struct {
	pool *pgxpool.Pool
}

func NewPackLoader(pool *pgxpool.Pool) *PackLoader {
	return &PackLoader{pool: pool}
}

func (l *PackLoader) LoadPack(ctx context.Context, packID string) (domain.QuestionPack, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_packs WHERE id=$1`, packID).Scan(&raw)
	if err != nil {
		return domain.QuestionPack{}, fmt.Errorf("load pack: %w", err)
	}
	var pack domain.QuestionPack
	if err := json.Unmarshal(raw, &pack); err != nil {
		return domain.QuestionPack{}, fmt.Errorf("unmarshal pack: %w", err)
	}
	return pack, nil
}
