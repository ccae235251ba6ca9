package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/goliatone/go-staff-auth/employees"
)

// BunEmployees implements employees.Store using Bun.
type BunEmployees struct {
	db *bun.DB
}

var _ employees.Store = (*BunEmployees)(nil)

// OpenSQLite opens a Bun handle on a SQLite database
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqldb.SetMaxOpenConns(1)

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// NewBunEmployees creates the repository and its table if needed
func NewBunEmployees(ctx context.Context, db *bun.DB) (*BunEmployees, error) {
	_, err := db.NewCreateTable().
		Model((*employees.Employee)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("create employees table: %w", err)
	}
	return &BunEmployees{db: db}, nil
}

func (r *BunEmployees) List(ctx context.Context, department string) ([]employees.Employee, error) {
	var items []employees.Employee

	q := r.db.NewSelect().Model(&items).OrderExpr("rowid ASC")
	if department != "" {
		q = q.Where("department = ?", department)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *BunEmployees) Get(ctx context.Context, id string) (employees.Employee, error) {
	var item employees.Employee
	err := r.db.NewSelect().
		Model(&item).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employees.Employee{}, employees.ErrNotFound
		}
		return employees.Employee{}, err
	}
	return item, nil
}

func (r *BunEmployees) Insert(ctx context.Context, employee employees.Employee) error {
	exists, err := r.db.NewSelect().
		Model((*employees.Employee)(nil)).
		Where("id = ?", employee.ID).
		Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return employees.ErrAlreadyExists
	}

	_, err = r.db.NewInsert().Model(&employee).Exec(ctx)
	return err
}

func (r *BunEmployees) Update(ctx context.Context, employee employees.Employee) error {
	res, err := r.db.NewUpdate().
		Model(&employee).
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return employees.ErrNotFound
	}
	return nil
}

func (r *BunEmployees) Delete(ctx context.Context, id string) (employees.Employee, error) {
	var deleted employees.Employee

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(&deleted).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return employees.ErrNotFound
			}
			return err
		}

		_, err := tx.NewDelete().
			Model((*employees.Employee)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
	if err != nil {
		return employees.Employee{}, err
	}

	return deleted, nil
}

// Close releases the database handle
func (r *BunEmployees) Close(_ context.Context) error {
	return r.db.Close()
}
