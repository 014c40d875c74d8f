package compare

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	pgUniqueCode = "23505"
)

// PostgresStore maps the three logical collections onto tables of the same
// names; price history lives in a JSONB column.
type PostgresStore struct {
	db *sql.DB
}

func OpenPostgres(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS product (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			normalized_name TEXT NOT NULL UNIQUE,
			brand           TEXT NOT NULL DEFAULT '',
			category        TEXT NOT NULL DEFAULT '',
			image           TEXT NOT NULL DEFAULT '',
			created_at      TIMESTAMPTZ NOT NULL,
			updated_at      TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS priceentry (
			id           TEXT PRIMARY KEY,
			product_id   TEXT NOT NULL REFERENCES product(id),
			platform     TEXT NOT NULL,
			price        DOUBLE PRECISION NOT NULL,
			currency     TEXT NOT NULL,
			url          TEXT NOT NULL DEFAULT '',
			rating       DOUBLE PRECISION NOT NULL DEFAULT 0,
			delivery     TEXT NOT NULL DEFAULT '',
			last_updated TIMESTAMPTZ NOT NULL,
			history      JSONB NOT NULL DEFAULT '[]',
			created_at   TIMESTAMPTZ NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS priceentry_product_idx ON priceentry (product_id);
		CREATE TABLE IF NOT EXISTS searchrecord (
			id            TEXT PRIMARY KEY,
			query         TEXT NOT NULL,
			brand         TEXT NOT NULL DEFAULT '',
			category      TEXT NOT NULL DEFAULT '',
			price_min     DOUBLE PRECISION,
			price_max     DOUBLE PRECISION,
			results_count INT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) Kind() string { return "postgres" }

func (s *PostgresStore) FindProductByKey(ctx context.Context, key string) (Product, bool, error) {
	var p Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, name, normalized_name, brand, category, image, created_at, updated_at
			FROM product
			WHERE normalized_name = $1
		`, key).Scan(&p.ID, &p.Name, &p.NormalizedName, &p.Brand, &p.Category, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	})

	if err == sql.ErrNoRows {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, err
	}
	return p, true, nil
}

func (s *PostgresStore) UpsertProduct(ctx context.Context, p Product) (Product, bool, error) {
	p.ID = "p_" + uuid.NewString()

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO product (id, name, normalized_name, brand, category, image, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, p.ID, p.Name, p.NormalizedName, p.Brand, p.Category, p.Image, p.CreatedAt, p.UpdatedAt)
		return err
	})

	if err == nil {
		return p, true, nil
	}
	if !isUniqueViolation(err) {
		return Product{}, false, err
	}

	// Lost the race on normalized_name: hand back the winner's record.
	existing, ok, err := s.FindProductByKey(ctx, p.NormalizedName)
	if err != nil {
		return Product{}, false, err
	}
	if !ok {
		return Product{}, false, fmt.Errorf("product %q missing after unique conflict", p.NormalizedName)
	}
	return existing, false, nil
}

func (s *PostgresStore) ListPrices(ctx context.Context, productID string) ([]PriceEntry, error) {
	var out []PriceEntry

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, product_id, platform, price, currency, url, rating, delivery, last_updated, history, created_at, updated_at
			FROM priceentry
			WHERE product_id = $1
			ORDER BY created_at ASC, platform ASC
		`, productID)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]PriceEntry, 0, len(Platforms))
		for rows.Next() {
			var (
				e       PriceEntry
				history []byte
			)
			if err := rows.Scan(&e.ID, &e.ProductID, &e.Platform, &e.Price, &e.Currency, &e.URL,
				&e.Rating, &e.Delivery, &e.LastUpdated, &history, &e.CreatedAt, &e.UpdatedAt); err != nil {
				return err
			}
			if err := json.Unmarshal(history, &e.History); err != nil {
				return err
			}
			out = append(out, e)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) InsertPrices(ctx context.Context, entries []PriceEntry) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO priceentry (id, product_id, platform, price, currency, url, rating, delivery, last_updated, history, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, e := range entries {
			if e.ID == "" {
				e.ID = "pe_" + uuid.NewString()
			}
			history, err := json.Marshal(e.History)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, e.ID, e.ProductID, e.Platform, e.Price, e.Currency,
				e.URL, e.Rating, e.Delivery, e.LastUpdated, history, e.CreatedAt, e.UpdatedAt); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
}

func (s *PostgresStore) InsertSearch(ctx context.Context, rec SearchRecord) error {
	if rec.ID == "" {
		rec.ID = "s_" + uuid.NewString()
	}

	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO searchrecord (id, query, brand, category, price_min, price_max, results_count, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, rec.ID, rec.Query, rec.Brand, rec.Category, rec.PriceMin, rec.PriceMax, rec.ResultsCount, rec.CreatedAt)
		return err
	})
}

func (s *PostgresStore) RecentSearches(ctx context.Context, limit int) ([]SearchRecord, error) {
	var out []SearchRecord

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, query, brand, category, price_min, price_max, results_count, created_at
			FROM searchrecord
			ORDER BY created_at DESC
			LIMIT $1
		`, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]SearchRecord, 0, limit)
		for rows.Next() {
			var rec SearchRecord
			if err := rows.Scan(&rec.ID, &rec.Query, &rec.Brand, &rec.Category,
				&rec.PriceMin, &rec.PriceMax, &rec.ResultsCount, &rec.CreatedAt); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) Collections(ctx context.Context) ([]string, error) {
	var out []string

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT table_name
			FROM information_schema.tables
			WHERE table_schema = 'public'
			ORDER BY table_name
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			out = append(out, name)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueCode
}
