package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tendant/ministry-hub/pkg/ministry"
)

// document is the stored form of a record, keyed by its JSON field names
type document map[string]interface{}

// collection keeps documents in insertion order so that a read without a
// sort returns them the way they were written
type collection[T any] struct {
	name string

	mu    sync.RWMutex
	order []string
	docs  map[string]document
}

func newCollection[T any](name string) *collection[T] {
	return &collection[T]{
		name: name,
		docs: make(map[string]document),
	}
}

func (c *collection[T]) Insert(ctx context.Context, doc *T) error {
	stored, err := toDocument(doc)
	if err != nil {
		return &ministry.StorageError{Collection: c.name, Op: "insert", Err: err}
	}

	id, _ := stored["id"].(string)
	if id == "" {
		return &ministry.StorageError{Collection: c.name, Op: "insert", Err: errors.New("document id is required")}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.docs[id]; exists {
		return &ministry.StorageError{Collection: c.name, Op: "insert", Err: fmt.Errorf("duplicate id %s", id)}
	}
	c.docs[id] = stored
	c.order = append(c.order, id)
	return nil
}

func (c *collection[T]) Find(ctx context.Context, q ministry.Query) ([]*T, error) {
	c.mu.RLock()
	matched, err := c.match(q.Filters)
	c.mu.RUnlock()
	if err != nil {
		return nil, &ministry.StorageError{Collection: c.name, Op: "find", Err: err}
	}

	if q.Sort.Field != "" {
		field := q.Sort.Field
		sort.SliceStable(matched, func(i, j int) bool {
			cmp := compareValues(matched[i][field], matched[j][field])
			if q.Sort.Desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if q.Limit > 0 {
		skip := q.Skip()
		if skip >= len(matched) {
			matched = nil
		} else {
			end := skip + q.Limit
			if end > len(matched) {
				end = len(matched)
			}
			matched = matched[skip:end]
		}
	}

	results := make([]*T, 0, len(matched))
	for _, d := range matched {
		record, err := fromDocument[T](d)
		if err != nil {
			return nil, &ministry.StorageError{Collection: c.name, Op: "find", Err: err}
		}
		results = append(results, record)
	}
	return results, nil
}

func (c *collection[T]) Count(ctx context.Context, q ministry.Query) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	matched, err := c.match(q.Filters)
	if err != nil {
		return 0, &ministry.StorageError{Collection: c.name, Op: "count", Err: err}
	}
	return int64(len(matched)), nil
}

func (c *collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, exists := c.docs[id]
	if !exists {
		return nil, ministry.ErrNotFound
	}
	record, err := fromDocument[T](d)
	if err != nil {
		return nil, &ministry.StorageError{Collection: c.name, Op: "find_by_id", Err: err}
	}
	return record, nil
}

func (c *collection[T]) UpdateByID(ctx context.Context, id string, fields ministry.Fields) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, exists := c.docs[id]
	if !exists {
		return nil, ministry.ErrNotFound
	}

	updated := make(document, len(existing)+len(fields))
	for k, v := range existing {
		updated[k] = v
	}
	for k, v := range fields {
		value, err := toJSONValue(v)
		if err != nil {
			return nil, &ministry.StorageError{Collection: c.name, Op: "update", Err: err}
		}
		updated[k] = value
	}

	record, err := fromDocument[T](updated)
	if err != nil {
		return nil, &ministry.StorageError{Collection: c.name, Op: "update", Err: err}
	}
	c.docs[id] = updated
	return record, nil
}

func (c *collection[T]) DeleteByID(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.docs[id]; !exists {
		return false, nil
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// match returns the documents satisfying every filter, in insertion order.
// Callers hold the read lock.
func (c *collection[T]) match(filters []ministry.Filter) ([]document, error) {
	matched := make([]document, 0, len(c.order))
	for _, id := range c.order {
		d := c.docs[id]
		ok, err := matchesAll(d, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, d)
		}
	}
	return matched, nil
}

func matchesAll(d document, filters []ministry.Filter) (bool, error) {
	for _, f := range filters {
		ok, err := matches(d[f.Field], f)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matches(value interface{}, f ministry.Filter) (bool, error) {
	switch f.Op {
	case ministry.OpContainsFold:
		s, _ := value.(string)
		term := fmt.Sprint(f.Value)
		return strings.Contains(strings.ToLower(s), strings.ToLower(term)), nil
	case ministry.OpGreaterOrEqual:
		bound, ok := f.Value.(time.Time)
		if !ok {
			return false, fmt.Errorf("filter %s on %s needs a time value", f.Op, f.Field)
		}
		stored, ok := parseTime(value)
		if !ok {
			return false, nil
		}
		return !stored.Before(bound), nil
	default:
		return false, fmt.Errorf("unsupported filter op %q", f.Op)
	}
}

// compareValues orders two document values. Timestamps compare
// chronologically, everything else by its string form.
func compareValues(a, b interface{}) int {
	ta, aok := parseTime(a)
	tb, bok := parseTime(b)
	if aok && bok {
		return ta.Compare(tb)
	}
	if fa, ok := a.(float64); ok {
		if fb, ok := b.(float64); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func parseTime(v interface{}) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func toDocument(v interface{}) (document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var d document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return d, nil
}

func fromDocument[T any](d document) (*T, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	record := new(T)
	if err := json.Unmarshal(data, record); err != nil {
		return nil, err
	}
	return record, nil
}

func toJSONValue(v interface{}) (interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
