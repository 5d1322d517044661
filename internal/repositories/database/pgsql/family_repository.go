package pgsql

import (
	"context"
	"errors"

	"github.com/homefin/ledger_backend/internal/apperrors"
	"github.com/homefin/ledger_backend/internal/core/domain"
	portsrepo "github.com/homefin/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxFamilyRepository implements the family repository using pgxpool.
type PgxFamilyRepository struct {
	BaseRepository
}

func newPgxFamilyRepository(pool *pgxpool.Pool) portsrepo.FamilyRepositoryFacade {
	return &PgxFamilyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FamilyRepositoryFacade = (*PgxFamilyRepository)(nil)

// SaveFamily inserts a new family.
func (r *PgxFamilyRepository) SaveFamily(ctx context.Context, family domain.Family) error {
	query := `
		INSERT INTO families (family_id, name, base_currency_code, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		family.FamilyID,
		family.Name,
		family.BaseCurrencyCode,
		family.CreatedAt,
		family.CreatedBy,
		family.LastUpdatedAt,
		family.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "family already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert family", err)
	}
	return nil
}

// FindFamilyByID retrieves a family by its ID.
func (r *PgxFamilyRepository) FindFamilyByID(ctx context.Context, familyID string) (*domain.Family, error) {
	query := `
		SELECT family_id, name, base_currency_code, created_at, created_by, last_updated_at, last_updated_by
		FROM families
		WHERE family_id = $1;
	`
	var f domain.Family
	err := r.Pool.QueryRow(ctx, query, familyID).Scan(
		&f.FamilyID, &f.Name, &f.BaseCurrencyCode,
		&f.CreatedAt, &f.CreatedBy, &f.LastUpdatedAt, &f.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("family " + familyID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find family", err)
	}
	return &f, nil
}

// DeleteFamily removes a family. Foreign keys cascade the delete to accounts,
// entries, balances, transfers and sync runs.
func (r *PgxFamilyRepository) DeleteFamily(ctx context.Context, familyID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM families WHERE family_id = $1;`, familyID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete family", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("family " + familyID + " not found")
	}
	return nil
}
