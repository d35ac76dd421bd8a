package outreach

import "context"

// SettingsRepository defines the interface for automation settings persistence
type SettingsRepository interface {
	// FindByShop finds the settings row for a shop.
	// Returns shared.ErrNotFound when the shop has never saved settings.
	FindByShop(ctx context.Context, shop string) (*AutomationSettings, error)

	// Upsert creates or replaces the settings row for the shop
	Upsert(ctx context.Context, s *AutomationSettings) error

	// DeleteForShop deletes the settings row for a shop.
	// Returns the number of rows removed.
	DeleteForShop(ctx context.Context, shop string) (int64, error)
}
