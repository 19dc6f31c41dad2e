package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/donatio/aidmatch/internal/domain"
)

// DonationRepo is a SQLite-backed DonationStore, used when DB_PATH is set.
// The shop recommendation is stored as a JSON column since it is opaque model
// output that is never queried by field.
type DonationRepo struct {
	db *sql.DB
}

func NewDonationRepo(db *sql.DB) *DonationRepo {
	return &DonationRepo{db: db}
}

func (r *DonationRepo) Insert(d *domain.Donation) error {
	var rec []byte
	if d.ShopRecommendation != nil {
		var err error
		rec, err = json.Marshal(d.ShopRecommendation)
		if err != nil {
			return fmt.Errorf("marshal shop recommendation: %w", err)
		}
	}

	_, err := r.db.Exec(
		`INSERT INTO donations
		(id, request_id, donor_name, donation_type, amount, quantity, shop_id,
		 shop_recommendation, impact_message, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		d.ID, d.RequestID, d.DonorName, string(d.Type), d.Amount, d.Quantity,
		nullableString(d.ShopID), nullableString(string(rec)), d.ImpactMessage,
		d.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert donation: %w", err)
	}
	return nil
}

func (r *DonationRepo) List() ([]domain.Donation, error) {
	rows, err := r.db.Query(
		`SELECT id, request_id, donor_name, donation_type, amount, quantity,
		        shop_id, shop_recommendation, impact_message, created_at
		 FROM donations ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	defer rows.Close()

	var out []domain.Donation
	for rows.Next() {
		var d domain.Donation
		var dtype, createdAt string
		var shopID, rec sql.NullString
		err := rows.Scan(&d.ID, &d.RequestID, &d.DonorName, &dtype, &d.Amount,
			&d.Quantity, &shopID, &rec, &d.ImpactMessage, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan donation: %w", err)
		}
		d.Type = domain.DonationType(dtype)
		d.ShopID = shopID.String
		if rec.Valid && rec.String != "" {
			var match domain.ShopMatch
			if err := json.Unmarshal([]byte(rec.String), &match); err == nil {
				d.ShopRecommendation = &match
			}
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			d.CreatedAt = t
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
