package api

import (
	"context" // Request context

	"shop_api/internal/domain" // Domain models and errors

	"github.com/graph-gophers/graphql-go" // ID scalar
	"github.com/sirupsen/logrus"          // Logging
)

// Users lists every account for permission managers
func (r *Resolver) Users(ctx context.Context) ([]*userResolver, error) {
	const op = "users"
	user, err := requireUser(ctx, op)
	if err != nil {
		return nil, err
	}
	if err := domain.HasPermission(user, domain.PermissionAdmin, domain.PermissionPermissionUpdate); err != nil {
		return nil, err
	}
	users, err := r.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*userResolver, len(users))
	for i := range users {
		out[i] = &userResolver{r: r, u: &users[i]}
	}
	return out, nil
}

// UpdatePermissions replaces the target user's permission set
func (r *Resolver) UpdatePermissions(ctx context.Context, args struct {
	Permissions []string
	UserID      graphql.ID
}) (*userResolver, error) {
	const op = "updatePermissions"
	user, err := requireUser(ctx, op)
	if err != nil {
		return nil, err
	}
	if err := domain.HasPermission(user, domain.PermissionAdmin, domain.PermissionPermissionUpdate); err != nil {
		return nil, err
	}

	perms := make(domain.Permissions, 0, len(args.Permissions))
	seen := make(map[domain.Permission]bool, len(args.Permissions))
	for _, label := range args.Permissions {
		p, ok := domain.ParsePermission(label)
		if !ok {
			return nil, domain.Errorf(domain.EVALIDATION, op, "Unknown permission: %s", label)
		}
		if !seen[p] {
			seen[p] = true
			perms = append(perms, p)
		}
	}

	target, err := r.store.UpdatePermissions(ctx, string(args.UserID), perms)
	if domain.IsCode(err, domain.ENOTFOUND) {
		return nil, domain.Errorf(domain.ENOTFOUND, op, "No user found for ID %s", args.UserID)
	}
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"actor_id":    user.ID,
		"target_id":   target.ID,
		"permissions": perms.String(),
	}).Info("Permissions updated")
	return &userResolver{r: r, u: target}, nil
}
