package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"tutorchat/internal/models"
)

// UserRepo backs the user directory. A missing user is (nil, nil).
type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, username, email, role, is_active`

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email)=LOWER($1) LIMIT 1`, strings.TrimSpace(email))
	return scanUser(row, "find user by email")
}

// FindByUsernameLike prefers an exact case-insensitive match, then the shortest
// username containing the fragment.
func (r *UserRepo) FindByUsernameLike(ctx context.Context, username string) (*models.UserProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil
	}
	row := r.db.Pool.QueryRow(ctx, `
SELECT `+userColumns+`
FROM users
WHERE username ILIKE $1 ESCAPE '\'
ORDER BY (LOWER(username) = LOWER($2)) DESC, LENGTH(username), id
LIMIT 1`, "%"+EscapeLike(username)+"%", username)
	return scanUser(row, "find user by username")
}

func (r *UserRepo) SectionsFor(ctx context.Context, userID int64) (map[string]map[string]any, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT section, data FROM user_profile_sections WHERE user_id=$1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list profile sections: %w", wrapUnavailable(err))
	}
	defer rows.Close()

	out := make(map[string]map[string]any)
	for rows.Next() {
		var (
			name string
			raw  []byte
		)
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, fmt.Errorf("scan profile section: %w", err)
		}
		fields := map[string]any{}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &fields); err != nil {
				return nil, fmt.Errorf("decode profile section %s: %w", name, err)
			}
		}
		out[name] = fields
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profile sections: %w", wrapUnavailable(err))
	}
	return out, nil
}

func scanUser(row pgx.Row, op string) (*models.UserProfile, error) {
	var u models.UserProfile
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, wrapUnavailable(err))
	}
	return &u, nil
}

// EscapeLike escapes LIKE wildcards so user input matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
