package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

const schemaSQL = `
create table if not exists caption_cache (
	id         uuid        not null,
	image_hash text        not null,
	model      text        not null,
	alt_text   text        not null,
	created_at timestamptz not null default now(),
	primary key (image_hash, model)
)`

// Postgres stores captions in a caption_cache table.
type Postgres struct {
	DB     *sql.DB
	MaxAge time.Duration
}

// OpenPostgres connects with the pgx driver, pings and ensures the schema.
func OpenPostgres(ctx context.Context, dsn string, maxAge time.Duration) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}
	p := NewPostgres(db, maxAge)
	if err := p.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return p, nil
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(db *sql.DB, maxAge time.Duration) *Postgres {
	return &Postgres{DB: db, MaxAge: maxAge}
}

// EnsureSchema creates the caption_cache table if needed.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.DB.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Get returns the cached caption for k. Rows older than MaxAge count as a miss.
func (p *Postgres) Get(ctx context.Context, k Key) (Entry, bool, error) {
	const q = `select id, alt_text, created_at
	           from caption_cache
	           where image_hash=$1 and model=$2`
	e := Entry{Key: k}
	if err := p.DB.QueryRowContext(ctx, q, k.ImageHash, k.Model).Scan(&e.ID, &e.AltText, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}
	if p.MaxAge > 0 && time.Since(e.CreatedAt) > p.MaxAge {
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Put inserts or refreshes a caption.
func (p *Postgres) Put(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	const q = `
insert into caption_cache(id, image_hash, model, alt_text)
values ($1,$2,$3,$4)
on conflict (image_hash, model)
do update set alt_text=excluded.alt_text, created_at=now()`
	_, err := p.DB.ExecContext(ctx, q, e.ID, e.Key.ImageHash, e.Key.Model, e.AltText)
	return err
}

func (p *Postgres) Close() error { return p.DB.Close() }
