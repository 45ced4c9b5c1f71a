package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"resume-builder/internal/domain"
	"resume-builder/internal/usecase"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var _ usecase.DocumentStore = (*PostgresStore)(nil)

// PostgresStore keeps each section as a JSONB document next to a text[]
// technologies column so element-level edits happen in SQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const selectSection = `SELECT doc, technologies FROM sections`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSection(row scanner) (domain.Section, error) {
	var (
		raw   []byte
		techs []string
	)
	if err := row.Scan(&raw, &techs); err != nil {
		return domain.Section{}, err
	}
	var s domain.Section
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.Section{}, fmt.Errorf("decode section: %w", err)
	}
	s.Technologies = techs
	return s.Normalize(), nil
}

// encode splits s into the JSONB document and the technologies column.
func encode(s domain.Section) ([]byte, []string, error) {
	techs := s.Technologies
	s.Technologies = nil
	doc, err := json.Marshal(s)
	return doc, techs, err
}

func (p *PostgresStore) All(ctx context.Context) ([]domain.Section, error) {
	rows, err := p.pool.Query(ctx, selectSection+` ORDER BY rank`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Section{}
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *PostgresStore) Insert(ctx context.Context, s domain.Section) (domain.Section, error) {
	doc, techs, err := encode(s)
	if err != nil {
		return domain.Section{}, err
	}
	_, err = p.pool.Exec(ctx, `INSERT INTO sections (id, type, rank, doc, technologies, created_at, updated_at)
		VALUES ($1, $2, (SELECT coalesce(max(rank), 0) + 1 FROM sections), $3, $4, now(), now())`,
		s.ID, string(s.Type), doc, techs)
	if err != nil {
		return domain.Section{}, err
	}
	return s, nil
}

func (p *PostgresStore) Get(ctx context.Context, id string) (domain.Section, error) {
	s, err := scanSection(p.pool.QueryRow(ctx, selectSection+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Section{}, domain.ErrSectionNotFound
	}
	return s, err
}

// Update reads the row under a lock, merges the patch and writes it back.
func (p *PostgresStore) Update(ctx context.Context, id string, patch domain.SectionPatch) error {
	return p.inTx(ctx, func(tx pgx.Tx) error {
		cur, err := scanSection(tx.QueryRow(ctx, selectSection+` WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		doc, techs, err := encode(patch.Apply(cur))
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE sections SET doc = $2, technologies = $3, updated_at = now() WHERE id = $1`, id, doc, techs)
		return err
	})
}

func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM sections WHERE id = $1`, id)
	return err
}

// Move swaps rank with the nearest neighbour in dir.
func (p *PostgresStore) Move(ctx context.Context, id string, dir domain.Direction) error {
	neighbour := `SELECT id, rank FROM sections WHERE rank > $1 ORDER BY rank ASC LIMIT 1 FOR UPDATE`
	if dir == domain.Up {
		neighbour = `SELECT id, rank FROM sections WHERE rank < $1 ORDER BY rank DESC LIMIT 1 FOR UPDATE`
	}
	return p.inTx(ctx, func(tx pgx.Tx) error {
		var rank int64
		err := tx.QueryRow(ctx, `SELECT rank FROM sections WHERE id = $1 FOR UPDATE`, id).Scan(&rank)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		var (
			otherID   string
			otherRank int64
		)
		err = tx.QueryRow(ctx, neighbour, rank).Scan(&otherID, &otherRank)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE sections SET rank = $2 WHERE id = $1`, id, otherRank); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE sections SET rank = $2 WHERE id = $1`, otherID, rank)
		return err
	})
}

func (p *PostgresStore) updateTechnologies(ctx context.Context, set string, id string, arg interface{}) (domain.Section, error) {
	s, err := scanSection(p.pool.QueryRow(ctx,
		`UPDATE sections SET technologies = `+set+`, updated_at = now() WHERE id = $1 RETURNING doc, technologies`, id, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Section{}, domain.ErrSectionNotFound
	}
	return s, err
}

func (p *PostgresStore) SetTechnologies(ctx context.Context, id string, techs []string) (domain.Section, error) {
	return p.updateTechnologies(ctx, `$2::text[]`, id, techs)
}

func (p *PostgresStore) AddTechnology(ctx context.Context, id, tech string) (domain.Section, error) {
	return p.updateTechnologies(ctx,
		`CASE WHEN $2::text = ANY(coalesce(technologies, '{}')) THEN technologies ELSE array_append(coalesce(technologies, '{}'), $2::text) END`,
		id, tech)
}

func (p *PostgresStore) RemoveTechnology(ctx context.Context, id, tech string) (domain.Section, error) {
	return p.updateTechnologies(ctx, `array_remove(technologies, $2::text)`, id, tech)
}

func (p *PostgresStore) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
