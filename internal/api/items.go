package api

import (
	"context" // Request context

	"shop_api/internal/domain" // Domain models and errors
	"shop_api/internal/store"  // Item filters

	"github.com/graph-gophers/graphql-go" // ID scalar
	"github.com/sirupsen/logrus"          // Logging
)

type itemWhereInput struct {
	Search *string
}

func (w *itemWhereInput) search() string {
	if w == nil || w.Search == nil {
		return ""
	}
	return *w.Search
}

func deref(p *int32) int {
	if p == nil {
		return 0
	}
	return int(*p)
}

// Items lists items, newest first by default
func (r *Resolver) Items(ctx context.Context, args struct {
	Where   *itemWhereInput
	OrderBy *string
	Skip    *int32
	First   *int32
}) ([]*itemResolver, error) {
	filter := store.ItemFilter{
		Search: args.Where.search(),
		Skip:   deref(args.Skip),
		First:  deref(args.First),
	}
	if args.OrderBy != nil {
		filter.OrderBy = *args.OrderBy
	}
	items, err := r.store.Items(ctx, filter)
	if err != nil {
		return nil, err
	}
	return r.itemResolvers(items), nil
}

// Item looks up a single item, null when it does not exist
func (r *Resolver) Item(ctx context.Context, args struct {
	Where struct{ ID graphql.ID }
}) (*itemResolver, error) {
	item, err := r.store.ItemByID(ctx, string(args.Where.ID))
	if domain.IsCode(err, domain.ENOTFOUND) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &itemResolver{r: r, item: item}, nil
}

// ItemsConnection reports the total count and paging state for a listing
func (r *Resolver) ItemsConnection(ctx context.Context, args struct {
	Where *itemWhereInput
	Skip  *int32
	First *int32
}) (*itemConnectionResolver, error) {
	count, err := r.store.CountItems(ctx, args.Where.search())
	if err != nil {
		return nil, err
	}
	skip := deref(args.Skip)
	if skip < 0 {
		skip = 0
	}
	first := deref(args.First)
	if first <= 0 || first > store.MaxPageSize {
		first = store.MaxPageSize
	}
	return &itemConnectionResolver{
		pageInfo: &pageInfoResolver{
			next: int64(skip+first) < count,
			prev: skip > 0,
		},
		aggregate: &aggregateResolver{count: count},
	}, nil
}

type createItemArgs struct {
	Title       string `validate:"required,max=255"`
	Description string `validate:"required"`
	Price       int32  `validate:"gte=0"`
	Image       *string
	LargeImage  *string
}

// CreateItem lists a new item owned by the caller
func (r *Resolver) CreateItem(ctx context.Context, args createItemArgs) (*itemResolver, error) {
	const op = "createItem"
	user, err := requireUser(ctx, op)
	if err != nil {
		return nil, err
	}
	if err := r.check(op, args); err != nil {
		return nil, err
	}
	item := &domain.Item{
		Title:       args.Title,
		Description: args.Description,
		Price:       int64(args.Price),
		UserID:      user.ID,
	}
	if args.Image != nil {
		item.Image = *args.Image
	}
	if args.LargeImage != nil {
		item.LargeImage = *args.LargeImage
	}
	if err := r.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"item_id": item.ID,
		"user_id": user.ID,
		"price":   item.Price,
	}).Info("Item created")
	return &itemResolver{r: r, item: item}, nil
}

type updateItemArgs struct {
	ID          graphql.ID
	Title       *string `validate:"omitnil,min=1,max=255"`
	Description *string `validate:"omitnil,min=1"`
	Price       *int32  `validate:"omitnil,gte=0"`
	Image       *string
	LargeImage  *string
}

// UpdateItem edits an item. The id selects the row and is never written.
func (r *Resolver) UpdateItem(ctx context.Context, args updateItemArgs) (*itemResolver, error) {
	const op = "updateItem"
	user, err := requireUser(ctx, op)
	if err != nil {
		return nil, err
	}
	if err := r.check(op, args); err != nil {
		return nil, err
	}
	item, err := r.loadItem(ctx, op, args.ID)
	if err != nil {
		return nil, err
	}
	if err := domain.OwnerOr(user, item.UserID, domain.PermissionAdmin, domain.PermissionItemUpdate); err != nil {
		return nil, err
	}
	upd := domain.ItemUpdate{
		Title:       args.Title,
		Description: args.Description,
		Image:       args.Image,
		LargeImage:  args.LargeImage,
	}
	if args.Price != nil {
		price := int64(*args.Price)
		upd.Price = &price
	}
	updated, err := r.store.UpdateItem(ctx, item.ID, upd)
	if err != nil {
		return nil, err
	}
	return &itemResolver{r: r, item: updated}, nil
}

// DeleteItem removes an item the caller owns or may moderate
func (r *Resolver) DeleteItem(ctx context.Context, args struct{ ID graphql.ID }) (*itemResolver, error) {
	const op = "deleteItem"
	item, err := r.loadItem(ctx, op, args.ID)
	if err != nil {
		return nil, err
	}
	user := domain.UserFromContext(ctx)
	if err := domain.OwnerOr(user, item.UserID, domain.PermissionAdmin, domain.PermissionItemDelete); err != nil {
		return nil, err
	}
	if err := r.store.DeleteItem(ctx, item.ID); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"item_id":  item.ID,
		"owner_id": item.UserID,
		"user_id":  user.ID,
	}).Info("Item deleted")
	return &itemResolver{r: r, item: item}, nil
}

// loadItem fetches an item, reporting absence with the item id
func (r *Resolver) loadItem(ctx context.Context, op string, id graphql.ID) (*domain.Item, error) {
	item, err := r.store.ItemByID(ctx, string(id))
	if domain.IsCode(err, domain.ENOTFOUND) {
		return nil, domain.Errorf(domain.ENOTFOUND, op, "No item found for ID %s", id)
	}
	return item, err
}
