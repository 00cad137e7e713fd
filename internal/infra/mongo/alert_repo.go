package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NasaVasa/coinwatch/internal/domain"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type alertDocument struct {
	ID             primitive.ObjectID    `bson:"_id,omitempty"`
	UserID         int64                 `bson:"user_id"`
	TokenID        string                `bson:"token_id"`
	TokenName      string                `bson:"token_name"`
	PriceThreshold primitive.Decimal128  `bson:"price_threshold"`
	LastPrice      *primitive.Decimal128 `bson:"last_price,omitempty"`
	CreatedAt      time.Time             `bson:"created_at"`
	UpdatedAt      time.Time             `bson:"updated_at"`
}

type AlertRepository struct {
	collection *mongo.Collection
}

func NewAlertRepository(database *Database) *AlertRepository {
	return &AlertRepository{collection: database.db.Collection(alertsCollection)}
}

func (r *AlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	doc, err := mapAlertToDocument(*alert)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}

	alert.ID = doc.ID.Hex()
	alert.CreatedAt = now
	alert.UpdatedAt = now
	return nil
}

func (r *AlertRepository) Get(ctx context.Context, id string) (*domain.Alert, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	var doc alertDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	alert, err := mapAlertToDomain(doc)
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *AlertRepository) ListAll(ctx context.Context) ([]domain.Alert, error) {
	return r.find(ctx, bson.M{})
}

func (r *AlertRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Alert, error) {
	return r.find(ctx, bson.M{"user_id": ownerID})
}

func (r *AlertRepository) Update(ctx context.Context, alert domain.Alert) error {
	objectID, err := primitive.ObjectIDFromHex(alert.ID)
	if err != nil {
		return domain.ErrNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	update := bson.M{"$set": set}
	if alert.LastPrice == nil {
		update["$unset"] = bson.M{"last_price": ""}
	} else {
		lastPrice, err := toDecimal128(*alert.LastPrice)
		if err != nil {
			return err
		}
		set["last_price"] = lastPrice
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AlertRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AlertRepository) find(ctx context.Context, filter bson.M) ([]domain.Alert, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []alertDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	alerts := make([]domain.Alert, 0, len(docs))
	for _, doc := range docs {
		alert, err := mapAlertToDomain(doc)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

func mapAlertToDocument(alert domain.Alert) (alertDocument, error) {
	threshold, err := toDecimal128(alert.Threshold)
	if err != nil {
		return alertDocument{}, err
	}
	doc := alertDocument{
		UserID:         alert.OwnerID,
		TokenID:        alert.TokenID,
		TokenName:      alert.TokenName,
		PriceThreshold: threshold,
	}
	if alert.LastPrice != nil {
		lastPrice, err := toDecimal128(*alert.LastPrice)
		if err != nil {
			return alertDocument{}, err
		}
		doc.LastPrice = &lastPrice
	}
	return doc, nil
}

func mapAlertToDomain(doc alertDocument) (domain.Alert, error) {
	threshold, err := fromDecimal128(doc.PriceThreshold)
	if err != nil {
		return domain.Alert{}, fmt.Errorf("alert %s threshold: %w", doc.ID.Hex(), err)
	}
	alert := domain.Alert{
		ID:        doc.ID.Hex(),
		OwnerID:   doc.UserID,
		TokenID:   doc.TokenID,
		TokenName: doc.TokenName,
		Threshold: threshold,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	if doc.LastPrice != nil {
		lastPrice, err := fromDecimal128(*doc.LastPrice)
		if err != nil {
			return domain.Alert{}, fmt.Errorf("alert %s last price: %w", doc.ID.Hex(), err)
		}
		alert.LastPrice = &lastPrice
	}
	return alert, nil
}

func toDecimal128(value decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(value.String())
}

func fromDecimal128(value primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(value.String())
}
