package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/storefront/internal/repos/users"
)

const selectUser = `
	SELECT discord_id, username, COALESCE(email, ''), COALESCE(avatar, ''), balance, created_at
	FROM users
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (users.User, error) {
	var u users.User

	err := row.Scan(&u.DiscordID, &u.Username, &u.Email, &u.Avatar, &u.Balance, &u.CreatedAt)

	return u, err
}

func (r *usersRepo) Get(ctx context.Context, userID string) (users.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUser+` WHERE discord_id = $1`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrUserNotFound
		}

		return users.User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}
