package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/galwaybites/storefront/internal/models"
)

// GetSettings reads the singleton settings document. A missing document is
// not an error: checkout degrades to "delivery unavailable" on the zero
// value instead of crashing.
func (s *Store) GetSettings(ctx context.Context) (models.Settings, error) {
	var out models.Settings
	err := s.settings.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Settings{ID: settingsDocID}, nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("find settings: %w", err)
	}
	return out, nil
}

func (s *Store) UpdateSettings(ctx context.Context, in models.Settings, updatedBy string) (models.Settings, error) {
	in.ID = settingsDocID
	in.UpdatedAt = time.Now().UTC()
	in.UpdatedBy = updatedBy

	opts := options.Replace().SetUpsert(true)
	if _, err := s.settings.ReplaceOne(ctx, bson.M{"_id": settingsDocID}, in, opts); err != nil {
		return models.Settings{}, fmt.Errorf("update settings: %w", err)
	}
	return in, nil
}

// WatchSettings streams settings changes to fn until ctx is done. Feeds the
// in-process snapshot cache so pricing always reads a consistent snapshot.
func (s *Store) WatchSettings(ctx context.Context, fn func(models.Settings)) error {
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := s.settings.Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		return fmt.Errorf("watch settings: %w", err)
	}
	defer stream.Close(ctx)

	for stream.Next(ctx) {
		var ev struct {
			FullDocument models.Settings `bson:"fullDocument"`
		}
		if err := stream.Decode(&ev); err != nil {
			continue
		}
		if ev.FullDocument.ID == settingsDocID {
			fn(ev.FullDocument)
		}
	}
	return stream.Err()
}
