package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"gig-scraper/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Repository is the Postgres-backed content store, for deployments that
// keep venues, bands and gigs in a local database instead of Sanity.
type Repository struct {
	logger *slog.Logger
	DB     *sqlx.DB
}

func New(logger *slog.Logger, cfg config.DBConfig) (*Repository, error) {
	op := "repositories.New()"
	log := logger.With(slog.String("op", op))

	dsn := fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Name, cfg.User, cfg.Password,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("connected to database", slog.String("host", cfg.Host), slog.String("name", cfg.Name))

	return &Repository{
		logger: logger,
		DB:     db,
	}, nil
}

func (r *Repository) Shutdown(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("force exit repository: %w", ctx.Err())
	default:
		return r.DB.Close()
	}
}
