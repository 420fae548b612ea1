package repository

import (
	"context"

	"focusflow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InventoryRepository struct {
	db *pgxpool.Pool
}

func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

const inventoryColumns = `user_id, owned_themes, owned_sound_packs, streak_protection_tokens,
	xp_boost_multiplier, xp_boost_expires_at`

// Get returns the user's inventory, creating an empty one on first access.
func (r *InventoryRepository) Get(ctx context.Context, userID int64) (*domain.Inventory, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO inventories (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING `+inventoryColumns,
		userID)
	return scanInventory(row)
}

// GetForUpdate locks and loads the inventory inside an open transaction.
func (r *InventoryRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, userID int64) (*domain.Inventory, error) {
	if _, err := tx.Exec(ctx,
		`INSERT INTO inventories (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID); err != nil {
		return nil, err
	}
	row := tx.QueryRow(ctx,
		`SELECT `+inventoryColumns+` FROM inventories WHERE user_id = $1 FOR UPDATE`, userID)
	return scanInventory(row)
}

// Save writes back the full inventory state.
func (r *InventoryRepository) Save(ctx context.Context, tx pgx.Tx, inv *domain.Inventory) error {
	_, err := tx.Exec(ctx,
		`UPDATE inventories SET
			owned_themes = $2, owned_sound_packs = $3, streak_protection_tokens = $4,
			xp_boost_multiplier = $5, xp_boost_expires_at = $6
		 WHERE user_id = $1`,
		inv.UserID, inv.OwnedThemes, inv.OwnedSoundPacks, inv.StreakProtectionTokens,
		inv.XPBoostMultiplier, inv.XPBoostExpiresAt,
	)
	return err
}

func scanInventory(row pgx.Row) (*domain.Inventory, error) {
	var inv domain.Inventory
	err := row.Scan(&inv.UserID, &inv.OwnedThemes, &inv.OwnedSoundPacks,
		&inv.StreakProtectionTokens, &inv.XPBoostMultiplier, &inv.XPBoostExpiresAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
