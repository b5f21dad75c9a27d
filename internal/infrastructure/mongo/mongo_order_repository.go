package mongo

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"furniture-admin/internal/domain/aggregate"
	"furniture-admin/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOrderRepository reads orders straight from the store database. The
// credential is still required on every call so both order sources honour
// the same contract; it is not checked against the database.
type MongoOrderRepository struct {
	collection *mongo.Collection
	log        logrus.FieldLogger
}

// NewMongoOrderRepository creates a new MongoDB order repository
func NewMongoOrderRepository(database *mongo.Database, collection string, log logrus.FieldLogger) *MongoOrderRepository {
	return &MongoOrderRepository{
		collection: database.Collection(collection),
		log:        log,
	}
}

var _ repository.OrderSource = (*MongoOrderRepository)(nil)

// ListOrders retrieves every order, newest first
func (r *MongoOrderRepository) ListOrders(ctx context.Context, credential string) ([]aggregate.Order, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, repository.ErrMissingCredential
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, sourceError("failed to query orders", err)
	}
	defer cursor.Close(ctx)

	orders := make([]aggregate.Order, 0)
	for cursor.Next(ctx) {
		var doc orderDocument
		if err := cursor.Decode(&doc); err != nil {
			r.log.WithError(err).Warn("skipping undecodable order document")
			continue
		}
		order := doc.toOrder()
		if order.ID == "" {
			r.log.Warn("skipping order document without a usable _id")
			continue
		}
		orders = append(orders, order)
	}

	if err := cursor.Err(); err != nil {
		return nil, sourceError("cursor error", err)
	}

	return orders, nil
}

// GetOrder retrieves one order by store id or business order id
func (r *MongoOrderRepository) GetOrder(ctx context.Context, credential, orderID string) (*aggregate.Order, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, repository.ErrMissingCredential
	}

	var doc orderDocument
	err := r.collection.FindOne(ctx, idFilter(orderID)).Decode(&doc)
	if err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", repository.ErrOrderNotFound, orderID)
		}
		return nil, sourceError("failed to get order", err)
	}

	order := doc.toOrder()
	return &order, nil
}

// UpdateOrderStatus sets the status and returns the updated order
func (r *MongoOrderRepository) UpdateOrderStatus(ctx context.Context, credential, orderID string, status aggregate.OrderStatus) (*aggregate.Order, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, repository.ErrMissingCredential
	}

	update := bson.M{
		"$set": bson.M{
			"status":    string(status),
			"updatedAt": time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDocument
	err := r.collection.FindOneAndUpdate(ctx, idFilter(orderID), update, opts).Decode(&doc)
	if err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", repository.ErrOrderNotFound, orderID)
		}
		return nil, sourceError("failed to update order status", err)
	}

	order := doc.toOrder()
	return &order, nil
}

func sourceError(message string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", message, err)
	}
	return fmt.Errorf("%w: %s: %v", repository.ErrSourceUnavailable, message, err)
}
