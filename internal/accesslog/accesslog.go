// Package accesslog is the append-only request log.
package accesslog

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// Entry is one served request. Client addresses are stored hashed.
type Entry struct {
	ID         string    `db:"id" json:"id"`
	TS         int64     `db:"ts" json:"-"` // unix millis
	Timestamp  time.Time `db:"-" json:"timestamp"`
	IPHash     string    `db:"ip_hash" json:"ip_hash"`
	Method     string    `db:"method" json:"method"`
	Path       string    `db:"path" json:"path"`
	Status     int       `db:"status" json:"status"`
	DurationMS float64   `db:"duration_ms" json:"duration_ms"`
}

// HashIP returns the first 8 hex chars of the address digest.
func HashIP(ip string) string {
	sum := blake2b.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])[:8]
}

// Appender stores entries.
type Appender interface {
	Append(ctx context.Context, e Entry) error
}

type Repo struct{ db *sqlx.DB }

func NewRepo(db *sqlx.DB) *Repo { return &Repo{db: db} }

// Append inserts e, filling in the id and timestamp when unset.
func (r *Repo) Append(ctx context.Context, e Entry) error {
	if e.ID == "" {
		// v7 ids sort by creation time within a millisecond
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "request log id")
		}
		e.ID = id.String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	e.TS = e.Timestamp.UnixMilli()
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO request_log (id, ts, ip_hash, method, path, status, duration_ms)
		 VALUES (:id, :ts, :ip_hash, :method, :path, :status, :duration_ms)`, e)
	return errors.Wrap(err, "append request log")
}

// Recent returns up to limit of the newest entries, oldest first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Entry, error) {
	var out []Entry
	q := r.db.Rebind(`SELECT id, ts, ip_hash, method, path, status, duration_ms
		FROM request_log ORDER BY ts DESC, id DESC LIMIT ?`)
	if err := r.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, errors.Wrap(err, "recent request log")
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	for i := range out {
		out[i].Timestamp = time.UnixMilli(out[i].TS).UTC()
	}
	return out, nil
}

// Counts returns the total number of entries and those for path.
func (r *Repo) Counts(ctx context.Context, path string) (total, forPath int, err error) {
	if err = r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM request_log`); err != nil {
		return 0, 0, errors.Wrap(err, "count request log")
	}
	q := r.db.Rebind(`SELECT COUNT(*) FROM request_log WHERE path = ?`)
	if err = r.db.GetContext(ctx, &forPath, q, path); err != nil {
		return 0, 0, errors.Wrap(err, "count request log")
	}
	return total, forPath, nil
}
