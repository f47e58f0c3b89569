package api

import (
	"context"
	"time"

	"shop_api/internal/domain"

	"github.com/graph-gophers/graphql-go"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

type successMessage struct {
	message string
}

func (m *successMessage) Message() string { return m.message }

// userResolver resolves User
type userResolver struct {
	r *Resolver
	u *domain.User
}

func (u *userResolver) ID() graphql.ID { return graphql.ID(u.u.ID) }
func (u *userResolver) Name() string   { return u.u.Name }
func (u *userResolver) Email() string  { return u.u.Email }

func (u *userResolver) Permissions() []string {
	out := make([]string, len(u.u.Permissions))
	for i, p := range u.u.Permissions {
		out[i] = string(p)
	}
	return out
}

// Cart is private to the user and admins
func (u *userResolver) Cart(ctx context.Context) ([]*cartItemResolver, error) {
	if err := domain.OwnerOr(domain.UserFromContext(ctx), u.u.ID, domain.PermissionAdmin); err != nil {
		return nil, err
	}
	cart, err := u.r.store.CartItems(ctx, u.u.ID)
	if err != nil {
		return nil, err
	}
	out := make([]*cartItemResolver, len(cart))
	for i := range cart {
		out[i] = &cartItemResolver{r: u.r, ci: &cart[i]}
	}
	return out, nil
}

// Orders is private to the user and admins
func (u *userResolver) Orders(ctx context.Context) ([]*orderResolver, error) {
	if err := domain.OwnerOr(domain.UserFromContext(ctx), u.u.ID, domain.PermissionAdmin); err != nil {
		return nil, err
	}
	orders, err := u.r.store.OrdersByUser(ctx, u.u.ID)
	if err != nil {
		return nil, err
	}
	return u.r.orderResolvers(orders), nil
}

// itemResolver resolves Item
type itemResolver struct {
	r    *Resolver
	item *domain.Item
}

func (i *itemResolver) ID() graphql.ID      { return graphql.ID(i.item.ID) }
func (i *itemResolver) Title() string       { return i.item.Title }
func (i *itemResolver) Description() string { return i.item.Description }
func (i *itemResolver) Image() *string      { return optional(i.item.Image) }
func (i *itemResolver) LargeImage() *string { return optional(i.item.LargeImage) }
func (i *itemResolver) Price() int32        { return int32(i.item.Price) }
func (i *itemResolver) CreatedAt() string   { return timestamp(i.item.CreatedAt) }
func (i *itemResolver) UpdatedAt() string   { return timestamp(i.item.UpdatedAt) }

// User is the owner, null once the account is gone
func (i *itemResolver) User(ctx context.Context) (*userResolver, error) {
	u, err := i.r.store.UserByID(ctx, i.item.UserID)
	if domain.IsCode(err, domain.ENOTFOUND) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &userResolver{r: i.r, u: u}, nil
}

func (r *Resolver) itemResolvers(items []domain.Item) []*itemResolver {
	out := make([]*itemResolver, len(items))
	for i := range items {
		out[i] = &itemResolver{r: r, item: &items[i]}
	}
	return out
}

// cartItemResolver resolves CartItem
type cartItemResolver struct {
	r  *Resolver
	ci *domain.CartItem
}

func (c *cartItemResolver) ID() graphql.ID  { return graphql.ID(c.ci.ID) }
func (c *cartItemResolver) Quantity() int32 { return int32(c.ci.Quantity) }

// Item uses the preloaded row when present and is null once the item is deleted
func (c *cartItemResolver) Item(ctx context.Context) (*itemResolver, error) {
	if c.ci.Item != nil {
		return &itemResolver{r: c.r, item: c.ci.Item}, nil
	}
	item, err := c.r.store.ItemByID(ctx, c.ci.ItemID)
	if domain.IsCode(err, domain.ENOTFOUND) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &itemResolver{r: c.r, item: item}, nil
}

func (c *cartItemResolver) User(ctx context.Context) (*userResolver, error) {
	u, err := c.r.store.UserByID(ctx, c.ci.UserID)
	if err != nil {
		return nil, err
	}
	return &userResolver{r: c.r, u: u}, nil
}

// orderResolver resolves Order
type orderResolver struct {
	r *Resolver
	o *domain.Order
}

func (o *orderResolver) ID() graphql.ID    { return graphql.ID(o.o.ID) }
func (o *orderResolver) Total() int32      { return int32(o.o.Total) }
func (o *orderResolver) Charge() string    { return o.o.Charge }
func (o *orderResolver) CreatedAt() string { return timestamp(o.o.CreatedAt) }
func (o *orderResolver) UpdatedAt() string { return timestamp(o.o.UpdatedAt) }

func (o *orderResolver) Items() []*orderItemResolver {
	out := make([]*orderItemResolver, len(o.o.Items))
	for i := range o.o.Items {
		out[i] = &orderItemResolver{oi: &o.o.Items[i]}
	}
	return out
}

func (o *orderResolver) User(ctx context.Context) (*userResolver, error) {
	u, err := o.r.store.UserByID(ctx, o.o.UserID)
	if err != nil {
		return nil, err
	}
	return &userResolver{r: o.r, u: u}, nil
}

func (r *Resolver) orderResolvers(orders []domain.Order) []*orderResolver {
	out := make([]*orderResolver, len(orders))
	for i := range orders {
		out[i] = &orderResolver{r: r, o: &orders[i]}
	}
	return out
}

// orderItemResolver resolves OrderItem
type orderItemResolver struct {
	oi *domain.OrderItem
}

func (o *orderItemResolver) ID() graphql.ID      { return graphql.ID(o.oi.ID) }
func (o *orderItemResolver) Title() string       { return o.oi.Title }
func (o *orderItemResolver) Description() string { return o.oi.Description }
func (o *orderItemResolver) Image() *string      { return optional(o.oi.Image) }
func (o *orderItemResolver) LargeImage() *string { return optional(o.oi.LargeImage) }
func (o *orderItemResolver) Price() int32        { return int32(o.oi.Price) }
func (o *orderItemResolver) Quantity() int32     { return int32(o.oi.Quantity) }

// Connection types for itemsConnection

type pageInfoResolver struct {
	next, prev bool
}

func (p *pageInfoResolver) HasNextPage() bool     { return p.next }
func (p *pageInfoResolver) HasPreviousPage() bool { return p.prev }

type aggregateResolver struct {
	count int64
}

func (a *aggregateResolver) Count() int32 { return int32(a.count) }

type itemConnectionResolver struct {
	pageInfo  *pageInfoResolver
	aggregate *aggregateResolver
}

func (c *itemConnectionResolver) PageInfo() *pageInfoResolver   { return c.pageInfo }
func (c *itemConnectionResolver) Aggregate() *aggregateResolver { return c.aggregate }
