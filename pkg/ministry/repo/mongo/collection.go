package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

type collection[T any] struct {
	coll *mongo.Collection
}

func newCollection[T any](coll *mongo.Collection) *collection[T] {
	return &collection[T]{coll: coll}
}

func (c *collection[T]) fail(op string, err error) error {
	return &ministry.StorageError{Collection: c.coll.Name(), Op: op, Err: err}
}

func (c *collection[T]) Insert(ctx context.Context, doc *T) error {
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return c.fail("insert", err)
	}
	return nil
}

func (c *collection[T]) Find(ctx context.Context, q ministry.Query) ([]*T, error) {
	filter, err := buildFilter(q.Filters)
	if err != nil {
		return nil, c.fail("find", err)
	}

	cursor, err := c.coll.Find(ctx, filter, findOptions(q))
	if err != nil {
		return nil, c.fail("find", err)
	}
	defer cursor.Close(ctx)

	results := make([]*T, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, c.fail("find", err)
	}
	return results, nil
}

func (c *collection[T]) Count(ctx context.Context, q ministry.Query) (int64, error) {
	filter, err := buildFilter(q.Filters)
	if err != nil {
		return 0, c.fail("count", err)
	}

	count, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, c.fail("count", err)
	}
	return count, nil
}

func (c *collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	record := new(T)
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ministry.ErrNotFound
		}
		return nil, c.fail("find_by_id", err)
	}
	return record, nil
}

func (c *collection[T]) UpdateByID(ctx context.Context, id string, fields ministry.Fields) (*T, error) {
	update := bson.M{"$set": bson.M(fields)}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	record := new(T)
	err := c.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ministry.ErrNotFound
		}
		return nil, c.fail("update", err)
	}
	return record, nil
}

func (c *collection[T]) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, c.fail("delete", err)
	}
	return res.DeletedCount > 0, nil
}

// buildFilter translates query filters into a mongo filter document
func buildFilter(filters []ministry.Filter) (bson.D, error) {
	filter := bson.D{}
	for _, f := range filters {
		switch f.Op {
		case ministry.OpContainsFold:
			term := fmt.Sprint(f.Value)
			filter = append(filter, bson.E{Key: f.Field, Value: primitive.Regex{
				Pattern: regexp.QuoteMeta(term),
				Options: "i",
			}})
		case ministry.OpGreaterOrEqual:
			bound, ok := f.Value.(time.Time)
			if !ok {
				return nil, fmt.Errorf("filter %s on %s needs a time value", f.Op, f.Field)
			}
			filter = append(filter, bson.E{Key: f.Field, Value: bson.M{"$gte": bound}})
		default:
			return nil, fmt.Errorf("unsupported filter op %q", f.Op)
		}
	}
	return filter, nil
}

// findOptions maps sort and paging onto find options. Without a sort field
// documents come back in natural (insertion) order.
func findOptions(q ministry.Query) *options.FindOptions {
	opts := options.Find()
	if q.Sort.Field == "" {
		opts.SetSort(bson.D{{Key: "$natural", Value: 1}})
	} else {
		direction := 1
		if q.Sort.Desc {
			direction = -1
		}
		opts.SetSort(bson.D{{Key: q.Sort.Field, Value: direction}, {Key: "_id", Value: 1}})
	}
	if q.Limit > 0 {
		opts.SetSkip(int64(q.Skip()))
		opts.SetLimit(int64(q.Limit))
	}
	return opts
}
