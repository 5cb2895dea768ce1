package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/inkwell/app/models"
	"github.com/shashiranjanraj/inkwell/pkg/metrics"
)

const mongoDriver = "mongo"

var (
	byNewest = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	byOldest = bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
)

// NewMongoStore serves every repository from collections of db.
func NewMongoStore(db *mongo.Database) *Store {
	accounts := db.Collection("accounts")
	books := db.Collection("books")
	addresses := db.Collection("addresses")
	orders := db.Collection("orders")

	return &Store{
		Driver:    mongoDriver,
		Accounts:  &mongoAccounts{coll: accounts},
		Books:     &mongoBooks{coll: books},
		Addresses: &mongoAddresses{coll: addresses},
		Orders:    &mongoOrders{coll: orders},
		migrate: func(ctx context.Context) error {
			indexes := []struct {
				coll  *mongo.Collection
				model mongo.IndexModel
			}{
				{accounts, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
				{books, mongo.IndexModel{Keys: byNewest}},
				{addresses, mongo.IndexModel{Keys: bson.D{{Key: "accountId", Value: 1}, {Key: "createdAt", Value: 1}}}},
				{orders, mongo.IndexModel{Keys: bson.D{{Key: "accountId", Value: 1}, {Key: "createdAt", Value: -1}}}},
				{orders, mongo.IndexModel{Keys: byNewest}},
			}
			for _, ix := range indexes {
				if _, err := ix.coll.Indexes().CreateOne(ctx, ix.model); err != nil {
					return fmt.Errorf("mongo: create index on %s: %w", ix.coll.Name(), err)
				}
			}
			return nil
		},
	}
}

func observe(op string) func() {
	start := time.Now()
	return func() { metrics.ObserveStore(mongoDriver, op, start) }
}

// now is truncated to what BSON dates keep so returned records match the
// stored ones.
func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

func mongoErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, op string, filter bson.M) (*T, error) {
	var out T
	if err := coll.FindOne(ctx, filter).Decode(&out); err != nil {
		return nil, mongoErr(op, err)
	}
	return &out, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, op string, filter bson.M, sort bson.D) ([]T, error) {
	cur, err := coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, mongoErr(op, err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoErr(op, err)
	}
	return out, nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, op string, filter bson.M) error {
	res, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		return mongoErr(op, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func updateOne(ctx context.Context, coll *mongo.Collection, op string, filter, set bson.M) error {
	set["updatedAt"] = now()
	res, err := coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return mongoErr(op, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ─── Accounts ─────────────────────────────────────────────────────────────────

type mongoAccounts struct{ coll *mongo.Collection }

func (r *mongoAccounts) Create(ctx context.Context, a *models.Account) error {
	defer observe("accounts.create")()
	if a.ID == "" {
		a.ID = newID()
	}
	ts := now()
	a.CreatedAt, a.UpdatedAt = ts, ts
	_, err := r.coll.InsertOne(ctx, a)
	return mongoErr("accounts.create", err)
}

func (r *mongoAccounts) FindByID(ctx context.Context, id string) (*models.Account, error) {
	defer observe("accounts.find")()
	return findOne[models.Account](ctx, r.coll, "accounts.find", bson.M{"_id": id})
}

func (r *mongoAccounts) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	defer observe("accounts.find_email")()
	return findOne[models.Account](ctx, r.coll, "accounts.find_email", bson.M{"email": email})
}

func (r *mongoAccounts) FindByIDs(ctx context.Context, ids []string) (map[string]*models.Account, error) {
	defer observe("accounts.find_many")()
	out := map[string]*models.Account{}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	list, err := findAll[models.Account](ctx, r.coll, "accounts.find_many", bson.M{"_id": bson.M{"$in": ids}}, byOldest)
	if err != nil {
		return nil, err
	}
	for i := range list {
		out[list[i].ID] = &list[i]
	}
	return out, nil
}

// ─── Books ────────────────────────────────────────────────────────────────────

type mongoBooks struct{ coll *mongo.Collection }

func (r *mongoBooks) Create(ctx context.Context, b *models.Book) error {
	defer observe("books.create")()
	if b.ID == "" {
		b.ID = newID()
	}
	ts := now()
	b.CreatedAt, b.UpdatedAt = ts, ts
	_, err := r.coll.InsertOne(ctx, b)
	return mongoErr("books.create", err)
}

func (r *mongoBooks) All(ctx context.Context) ([]models.Book, error) {
	defer observe("books.all")()
	return findAll[models.Book](ctx, r.coll, "books.all", bson.M{}, byNewest)
}

func (r *mongoBooks) FindByID(ctx context.Context, id string) (*models.Book, error) {
	defer observe("books.find")()
	return findOne[models.Book](ctx, r.coll, "books.find", bson.M{"_id": id})
}

func (r *mongoBooks) FindByIDs(ctx context.Context, ids []string) (map[string]*models.Book, error) {
	defer observe("books.find_many")()
	out := map[string]*models.Book{}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	list, err := findAll[models.Book](ctx, r.coll, "books.find_many", bson.M{"_id": bson.M{"$in": ids}}, byNewest)
	if err != nil {
		return nil, err
	}
	for i := range list {
		out[list[i].ID] = &list[i]
	}
	return out, nil
}

func (r *mongoBooks) Update(ctx context.Context, b *models.Book) error {
	defer observe("books.update")()
	return updateOne(ctx, r.coll, "books.update", bson.M{"_id": b.ID}, bson.M{
		"title":      b.Title,
		"author":     b.Author,
		"price":      b.Price,
		"category":   b.Category,
		"coverImage": b.CoverImage,
	})
}

func (r *mongoBooks) Delete(ctx context.Context, id string) error {
	defer observe("books.delete")()
	return deleteOne(ctx, r.coll, "books.delete", bson.M{"_id": id})
}

func (r *mongoBooks) Count(ctx context.Context) (int64, error) {
	defer observe("books.count")()
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	return n, mongoErr("books.count", err)
}

// ─── Addresses ────────────────────────────────────────────────────────────────

type mongoAddresses struct{ coll *mongo.Collection }

func (r *mongoAddresses) Create(ctx context.Context, a *models.Address) error {
	defer observe("addresses.create")()
	if a.ID == "" {
		a.ID = newID()
	}
	ts := now()
	a.CreatedAt, a.UpdatedAt = ts, ts
	_, err := r.coll.InsertOne(ctx, a)
	return mongoErr("addresses.create", err)
}

func (r *mongoAddresses) ListByAccount(ctx context.Context, accountID string) ([]models.Address, error) {
	defer observe("addresses.list")()
	return findAll[models.Address](ctx, r.coll, "addresses.list", bson.M{"accountId": accountID}, byOldest)
}

func (r *mongoAddresses) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	defer observe("addresses.count")()
	n, err := r.coll.CountDocuments(ctx, bson.M{"accountId": accountID})
	return n, mongoErr("addresses.count", err)
}

func (r *mongoAddresses) FindOwned(ctx context.Context, id, accountID string) (*models.Address, error) {
	defer observe("addresses.find")()
	return findOne[models.Address](ctx, r.coll, "addresses.find", bson.M{"_id": id, "accountId": accountID})
}

func (r *mongoAddresses) Update(ctx context.Context, a *models.Address) error {
	defer observe("addresses.update")()
	return updateOne(ctx, r.coll, "addresses.update", bson.M{"_id": a.ID, "accountId": a.AccountID}, bson.M{
		"name":    a.Name,
		"phone":   a.Phone,
		"street":  a.Street,
		"city":    a.City,
		"state":   a.State,
		"pincode": a.Pincode,
	})
}

func (r *mongoAddresses) DeleteOwned(ctx context.Context, id, accountID string) error {
	defer observe("addresses.delete")()
	return deleteOne(ctx, r.coll, "addresses.delete", bson.M{"_id": id, "accountId": accountID})
}

// ─── Orders ───────────────────────────────────────────────────────────────────

type mongoOrders struct{ coll *mongo.Collection }

func (r *mongoOrders) Create(ctx context.Context, o *models.Order) error {
	defer observe("orders.create")()
	if o.ID == "" {
		o.ID = newID()
	}
	ts := now()
	o.CreatedAt, o.UpdatedAt = ts, ts
	_, err := r.coll.InsertOne(ctx, o)
	return mongoErr("orders.create", err)
}

func (r *mongoOrders) ListByAccount(ctx context.Context, accountID string) ([]models.Order, error) {
	defer observe("orders.list")()
	return findAll[models.Order](ctx, r.coll, "orders.list", bson.M{"accountId": accountID}, byNewest)
}

func (r *mongoOrders) All(ctx context.Context) ([]models.Order, error) {
	defer observe("orders.all")()
	return findAll[models.Order](ctx, r.coll, "orders.all", bson.M{}, byNewest)
}

func (r *mongoOrders) FindByID(ctx context.Context, id string) (*models.Order, error) {
	defer observe("orders.find")()
	return findOne[models.Order](ctx, r.coll, "orders.find", bson.M{"_id": id})
}

func (r *mongoOrders) TransitionStatus(ctx context.Context, id, from, to string) (*models.Order, error) {
	defer observe("orders.transition")()
	var o models.Order
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if err == nil {
		return &o, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, mongoErr("orders.transition", err)
	}

	current, err := findOne[models.Order](ctx, r.coll, "orders.transition", bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	return current, ErrStale
}
