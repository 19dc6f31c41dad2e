package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/donatio/aidmatch/internal/domain"
)

// RequestRepo is a SQLite-backed RequestStore, used when DB_PATH is set.
type RequestRepo struct {
	db *sql.DB
}

func NewRequestRepo(db *sql.DB) *RequestRepo {
	return &RequestRepo{db: db}
}

func (r *RequestRepo) Insert(req *domain.Request) error {
	_, err := r.db.Exec(
		`INSERT INTO requests
		(id, institution_id, item, quantity, estimated_cost, fulfilled_quantity, status, created_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		req.ID, req.InstitutionID, req.Item, req.Quantity, req.EstimatedCost,
		req.FulfilledQuantity, string(req.Status), req.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

func (r *RequestRepo) GetByID(id string) (*domain.Request, error) {
	row := r.db.QueryRow(
		`SELECT id, institution_id, item, quantity, estimated_cost, fulfilled_quantity, status, created_at
		 FROM requests WHERE id = ?`, id)
	return scanRequest(row)
}

func (r *RequestRepo) List() ([]domain.Request, error) {
	rows, err := r.db.Query(
		`SELECT id, institution_id, item, quantity, estimated_cost, fulfilled_quantity, status, created_at
		 FROM requests ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (r *RequestRepo) ListByInstitution(institutionID string) ([]domain.Request, error) {
	rows, err := r.db.Query(
		`SELECT id, institution_id, item, quantity, estimated_cost, fulfilled_quantity, status, created_at
		 FROM requests WHERE institution_id = ? ORDER BY created_at`, institutionID)
	if err != nil {
		return nil, fmt.Errorf("list requests by institution: %w", err)
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (r *RequestRepo) Update(req *domain.Request) error {
	res, err := r.db.Exec(
		`UPDATE requests SET fulfilled_quantity = ?, status = ? WHERE id = ?`,
		req.FulfilledQuantity, string(req.Status), req.ID,
	)
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*domain.Request, error) {
	var req domain.Request
	var status, createdAt string
	err := row.Scan(&req.ID, &req.InstitutionID, &req.Item, &req.Quantity,
		&req.EstimatedCost, &req.FulfilledQuantity, &status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan request: %w", err)
	}
	req.Status = domain.RequestStatus(status)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		req.CreatedAt = t
	}
	return &req, nil
}

func collectRequests(rows *sql.Rows) ([]domain.Request, error) {
	var out []domain.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	return out, rows.Err()
}
