package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/galwaybites/storefront/internal/models"
)

func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if _, err := s.orders.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Order{}, fmt.Errorf("%w: bad order id %q", ErrNotFound, id)
	}

	var o models.Order
	err = s.orders.FindOne(ctx, bson.M{"_id": oid}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("find order: %w", err)
	}
	return o, nil
}

func (s *Store) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.orders.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// ListOrders returns all orders newest-first; a non-zero since bounds the
// creation time (the admin dashboard's date-range filter).
func (s *Store) ListOrders(ctx context.Context, since time.Time) ([]models.Order, error) {
	filter := bson.M{}
	if !since.IsZero() {
		filter["created_at"] = bson.M{"$gte": since}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus writes the new status as a single $set patch. There is no
// version predicate: concurrent transitions are last-write-wins, matching the
// backing store's per-document semantics.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, completed bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: bad order id %q", ErrNotFound, id)
	}

	set := bson.M{"status": status, "updated_at": time.Now().UTC()}
	if completed {
		set["is_completed"] = true
	}

	res, err := s.orders.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	return nil
}

func (s *Store) SetTrackingNumber(ctx context.Context, id, tracking string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: bad order id %q", ErrNotFound, id)
	}

	set := bson.M{"tracking_number": tracking, "updated_at": time.Now().UTC()}
	res, err := s.orders.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("set tracking number: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	return nil
}

// WatchOrders streams order changes to fn until ctx is done. Each event
// carries the full post-change document. The callback is owned by the
// caller; the core stays callable without any live stream.
func (s *Store) WatchOrders(ctx context.Context, fn func(models.Order)) error {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := s.orders.Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		return fmt.Errorf("watch orders: %w", err)
	}
	defer stream.Close(ctx)

	for stream.Next(ctx) {
		var ev struct {
			FullDocument models.Order `bson:"fullDocument"`
		}
		if err := stream.Decode(&ev); err != nil {
			continue
		}
		if !ev.FullDocument.ID.IsZero() {
			fn(ev.FullDocument)
		}
	}
	return stream.Err()
}
