package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/registre/server/internal/domain/persons"
)

// PersonRepository implements persons.Repository with single-statement
// operations; the store's own locking serializes concurrent writers.
type PersonRepository struct {
	db *sql.DB
}

func (r *PersonRepository) List(ctx context.Context) ([]persons.Person, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, address FROM persons`)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	out := []persons.Person{}
	for rows.Next() {
		var p persons.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Address); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	return out, nil
}

func (r *PersonRepository) GetByID(ctx context.Context, id int64) (*persons.Person, error) {
	var p persons.Person
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, address FROM persons WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persons.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get person %d: %w", id, err)
	}
	return &p, nil
}

func (r *PersonRepository) Create(ctx context.Context, name, address string) (*persons.Person, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO persons (name, address) VALUES (?, ?)`, name, address,
	)
	if err != nil {
		return nil, fmt.Errorf("create person: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create person: %w", err)
	}
	return &persons.Person{ID: id, Name: name, Address: address}, nil
}

func (r *PersonRepository) Update(ctx context.Context, id int64, name, address string) (*persons.Person, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE persons SET name = ?, address = ? WHERE id = ?`, name, address, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update person %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update person %d: %w", id, err)
	}
	if affected == 0 {
		return nil, persons.ErrNotFound
	}
	return &persons.Person{ID: id, Name: name, Address: address}, nil
}

func (r *PersonRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM persons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete person %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete person %d: %w", id, err)
	}
	if affected == 0 {
		return persons.ErrNotFound
	}
	return nil
}
