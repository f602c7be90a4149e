package users

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/storefront/internal/repos/users"
)

func (r *usersRepo) Ensure(tx *sql.Tx, u users.User) error {
	_, err := tx.Exec(`
		INSERT INTO users (discord_id, username, email, avatar)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		ON CONFLICT (discord_id) DO NOTHING
	`, u.DiscordID, u.Username, u.Email, u.Avatar)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}

	return nil
}
