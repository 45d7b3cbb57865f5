package activity

import (
	"context"
	"fmt"

	"github.com/anonto42/bookmarks/backend/internal/models"
	"github.com/anonto42/bookmarks/backend/internal/repositories"
	"github.com/rs/zerolog/log"
)

// Resolver loads the entities of one kind for the given ids. Ids with no
// matching entity are left out of the returned map.
type Resolver func(ctx context.Context, ids []uint) (map[uint]any, error)

// Registry maps target kinds to their resolvers. It is filled at startup and
// read-only afterwards.
type Registry struct {
	resolvers map[string]Resolver
}

func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]Resolver)}
}

// Register installs the resolver for kind, replacing any previous one.
func (r *Registry) Register(kind string, resolve Resolver) {
	r.resolvers[kind] = resolve
}

// Resolve loads every target with one resolver call per kind.
func (r *Registry) Resolve(ctx context.Context, targets []models.Target) (map[models.Target]any, error) {
	byKind := make(map[string][]uint)
	for _, t := range targets {
		byKind[t.Kind] = append(byKind[t.Kind], t.ID)
	}

	resolved := make(map[models.Target]any, len(targets))
	for kind, ids := range byKind {
		resolve, ok := r.resolvers[kind]
		if !ok {
			log.Warn().Str("kind", kind).Msg("no resolver registered for action target kind")
			continue
		}
		objects, err := resolve(ctx, dedupe(ids))
		if err != nil {
			return nil, fmt.Errorf("resolve %s targets: %w", kind, err)
		}
		for id, obj := range objects {
			resolved[models.Target{Kind: kind, ID: id}] = obj
		}
	}
	return resolved, nil
}

// UserResolver resolves user targets through the identity store.
func UserResolver(users repositories.UserRepository) Resolver {
	return func(ctx context.Context, ids []uint) (map[uint]any, error) {
		found, err := users.GetUsersByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		out := make(map[uint]any, len(found))
		for i := range found {
			out[found[i].ID] = &found[i]
		}
		return out, nil
	}
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
