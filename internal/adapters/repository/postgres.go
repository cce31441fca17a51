package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ZeusWPI/ZNS/internal/core/domain"
	"github.com/ZeusWPI/ZNS/internal/wire"
)

// PostgresRepository implements ports.Repository over a single flat
// records(name, type, class, ttl, rdata) table. Name comparisons are
// case-insensitive per RFC 1035 §2.3.3, done in SQL via LOWER() rather than
// a citext column so the schema stays driver-agnostic.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository wraps an already-opened pool. Callers open it with
// sql.Open("pgx", dsn) so the pgx/v5/stdlib driver registration above takes
// effect.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, name domain.Name, qtype *domain.RRType, class domain.Class) ([]domain.RR, error) {
	if qtype != nil {
		rows, err := r.db.QueryContext(ctx,
			`SELECT name, type, class, ttl, rdata FROM records
			 WHERE LOWER(name) = LOWER($1) AND type = $2 AND class = $3`,
			name.String(), uint16(*qtype), uint16(class))
		if err != nil {
			return nil, err
		}
		return scanRecords(rows)
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, type, class, ttl, rdata FROM records
		 WHERE LOWER(name) = LOWER($1) AND class = $2`,
		name.String(), uint16(class))
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

// GetSuffix returns every record whose name has suffix, ordered by
// descending name — AXFR's consumer relies on this ordering.
func (r *PostgresRepository) GetSuffix(ctx context.Context, suffix domain.Name, class domain.Class) ([]domain.RR, error) {
	s := suffix.String()
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, type, class, ttl, rdata FROM records
		 WHERE class = $2 AND (LOWER(name) = LOWER($1) OR LOWER(name) LIKE '%.' || LOWER($1))
		 ORDER BY name DESC`,
		s, uint16(class))
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

func (r *PostgresRepository) Insert(ctx context.Context, rr domain.RR) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO records (name, type, class, ttl, rdata) VALUES ($1, $2, $3, $4, $5)`,
		rr.Name.String(), uint16(rr.Type), uint16(rr.Class), rr.TTL, rr.RData)
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, name domain.Name, qtype *domain.RRType, class domain.Class, rdata []byte) error {
	query := `DELETE FROM records WHERE LOWER(name) = LOWER($1) AND class = $2`
	args := []any{name.String(), uint16(class)}

	if qtype != nil {
		query += " AND type = $3"
		args = append(args, uint16(*qtype))
	}
	if rdata != nil {
		query += fmt.Sprintf(" AND rdata = $%d", len(args)+1)
		args = append(args, rdata)
	}

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func scanRecords(rows *sql.Rows) ([]domain.RR, error) {
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("repository: close rows: %v", err)
		}
	}()

	var out []domain.RR
	for rows.Next() {
		var name string
		var rtype, class uint16
		var rr domain.RR
		if err := rows.Scan(&name, &rtype, &class, &rr.TTL, &rr.RData); err != nil {
			return nil, err
		}
		rr.Name = domain.ParseName(name)
		rr.Type = domain.RRType(rtype)
		rr.Class = domain.Class(class)
		if rr.Type == domain.TypeCNAME {
			if cname, err := wire.DecodeName(wire.NewReader(rr.RData)); err == nil {
				rr.CNAME = cname
			}
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}
