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

func (s *Store) CreateFood(ctx context.Context, f *models.Food) error {
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now

	if _, err := s.foods.InsertOne(ctx, f); err != nil {
		return fmt.Errorf("insert food: %w", err)
	}
	return nil
}

func (s *Store) GetFood(ctx context.Context, id string) (models.Food, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Food{}, fmt.Errorf("%w: bad food id %q", ErrNotFound, id)
	}

	var f models.Food
	err = s.foods.FindOne(ctx, bson.M{"_id": oid}).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Food{}, fmt.Errorf("%w: food %s", ErrNotFound, id)
	}
	if err != nil {
		return models.Food{}, fmt.Errorf("find food: %w", err)
	}
	return f, nil
}

func (s *Store) ListFoods(ctx context.Context) ([]models.Food, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.foods.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	defer cursor.Close(ctx)

	var foods []models.Food
	if err := cursor.All(ctx, &foods); err != nil {
		return nil, fmt.Errorf("decode foods: %w", err)
	}
	return foods, nil
}

func (s *Store) UpdateFood(ctx context.Context, f models.Food, updatedBy string) (models.Food, error) {
	if f.ID.IsZero() {
		return models.Food{}, fmt.Errorf("%w: food id missing", ErrNotFound)
	}
	f.UpdatedAt = time.Now().UTC()
	f.UpdatedBy = updatedBy

	set := bson.M{
		"name":         f.Name,
		"description":  f.Description,
		"price":        f.Price,
		"category":     f.Category,
		"image_path":   f.ImagePath,
		"is_available": f.IsAvailable,
		"addons":       f.Addons,
		"updated_at":   f.UpdatedAt,
		"updated_by":   f.UpdatedBy,
	}
	res, err := s.foods.UpdateOne(ctx, bson.M{"_id": f.ID}, bson.M{"$set": set})
	if err != nil {
		return models.Food{}, fmt.Errorf("update food: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.Food{}, fmt.Errorf("%w: food %s", ErrNotFound, f.ID.Hex())
	}
	return f, nil
}

func (s *Store) DeleteFood(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: bad food id %q", ErrNotFound, id)
	}
	res, err := s.foods.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete food: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: food %s", ErrNotFound, id)
	}
	return nil
}
