package directory

import (
	"context"
	"errors"

	"tutorchat/internal/logger"
	"tutorchat/internal/models"
	"tutorchat/internal/util"
)

const (
	MsgClarify    = "Please specify a username or email address so I can look up the user."
	MsgNotFound   = "I couldn't find a user matching that username or email address."
	MsgConnection = "I'm sorry, I couldn't reach the user directory right now. Please try again in a moment."
	MsgGeneric    = "I'm sorry, something went wrong while looking up that user."
)

// Store is the read side of the user directory. Finders return nil, nil on no match.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	FindByUsernameLike(ctx context.Context, username string) (*models.UserProfile, error)
	SectionsFor(ctx context.Context, userID int64) (map[string]map[string]any, error)
}

type Resolver struct {
	store Store
	log   *logger.Logger
}

func NewResolver(store Store, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{store: store, log: log}
}

// Resolve answers a directory query with user-facing text. Errors never escape.
func (r *Resolver) Resolve(ctx context.Context, query string) string {
	var (
		user *models.UserProfile
		err  error
	)
	switch email, username := ExtractEmail(query), ExtractUsername(query); {
	case email != "":
		user, err = r.store.FindByEmail(ctx, email)
	case username != "":
		user, err = r.store.FindByUsernameLike(ctx, username)
	default:
		return MsgClarify
	}
	if err != nil {
		return r.failure("find user", err)
	}
	if user == nil {
		return MsgNotFound
	}
	sections, err := r.store.SectionsFor(ctx, user.ID)
	if err != nil {
		return r.failure("load profile sections", err)
	}
	return FormatProfile(*user, sections)
}

func (r *Resolver) failure(op string, err error) string {
	r.log.Error("directory lookup failed", "op", op, "error", err)
	if errors.Is(err, util.ErrStoreUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return MsgConnection
	}
	return MsgGeneric
}
