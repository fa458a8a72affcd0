// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"codeberg.org/oliverandrich/multidomain-locale/internal/locale"
	"codeberg.org/oliverandrich/multidomain-locale/internal/models"
	"github.com/vinovest/sqlx"
)

// ErrNotFound is returned when a record is not found
var ErrNotFound = errors.New("record not found")

// Repository wraps sqlx for registry operations
type Repository struct {
	db *sqlx.DB
}

// New creates a new Repository instance
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// wrapError converts sql errors to repository errors
func wrapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// ListDomains returns all registry entries ordered by TLD.
func (r *Repository) ListDomains(ctx context.Context) ([]models.Domain, error) {
	var domains []models.Domain
	err := r.db.SelectContext(ctx, &domains,
		"SELECT tld, locales, default_locale, updated_at FROM domains ORDER BY tld")
	if err != nil {
		return nil, err
	}
	return domains, nil
}

// GetDomain returns the entry for tld.
func (r *Repository) GetDomain(ctx context.Context, tld string) (*models.Domain, error) {
	var d models.Domain
	err := r.db.GetContext(ctx, &d,
		"SELECT tld, locales, default_locale, updated_at FROM domains WHERE tld = ?", tld)
	if err != nil {
		return nil, wrapError(err)
	}
	return &d, nil
}

// UpsertDomain validates and stores an entry, replacing an existing one.
func (r *Repository) UpsertDomain(ctx context.Context, d *models.Domain) error {
	if d.TLD == "" {
		return errors.New("domain tld must not be empty")
	}
	if err := locale.ValidateDomain(d.TLD, d.Settings()); err != nil {
		return err
	}

	d.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO domains (tld, locales, default_locale, updated_at)
		VALUES (:tld, :locales, :default_locale, :updated_at)
		ON CONFLICT(tld) DO UPDATE SET
			locales = excluded.locales,
			default_locale = excluded.default_locale,
			updated_at = excluded.updated_at`, d)
	if err != nil {
		return fmt.Errorf("failed to store domain %s: %w", d.TLD, err)
	}
	return nil
}

// DeleteDomain removes the entry for tld.
func (r *Repository) DeleteDomain(ctx context.Context, tld string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM domains WHERE tld = ?", tld)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyDomains overlays the registry entries onto settings.
func (r *Repository) ApplyDomains(ctx context.Context, settings *locale.Settings) (int, error) {
	domains, err := r.ListDomains(ctx)
	if err != nil {
		return 0, err
	}
	if settings.Domains == nil {
		settings.Domains = make(map[string]locale.DomainSettings, len(domains))
	}
	for i := range domains {
		settings.Domains[domains[i].TLD] = domains[i].Settings()
	}
	return len(domains), nil
}
