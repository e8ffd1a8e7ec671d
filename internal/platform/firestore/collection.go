package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// Snapshot is one document's fields with its identity and last write time.
type Snapshot struct {
	ID         string
	Fields     map[string]any
	UpdateTime time.Time
}

// Equal is a server-side equality predicate.
type Equal struct {
	Field string
	Value any
}

// Collection reads and writes schemaless documents in one collection.
type Collection struct {
	provider *Provider
	name     string
}

// NewCollection binds a collection name to the provider's client.
func NewCollection(provider *Provider, name string) *Collection {
	return &Collection{provider: provider, name: strings.TrimSpace(name)}
}

// Find returns the documents matching every predicate. A positive limit caps
// the result size.
func (c *Collection) Find(ctx context.Context, where []Equal, limit int) ([]Snapshot, error) {
	ref, err := c.ref(ctx)
	if err != nil {
		return nil, err
	}
	query := ref.Query
	for _, eq := range where {
		query = query.Where(eq.Field, "==", eq.Value)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var out []Snapshot
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, WrapError(c.op("find"), err)
		}
		fields := doc.Data()
		if fields == nil {
			fields = map[string]any{}
		}
		out = append(out, Snapshot{ID: doc.Ref.ID, Fields: fields, UpdateTime: doc.UpdateTime})
	}
}

// Upsert replaces the document stored under id.
func (c *Collection) Upsert(ctx context.Context, id string, fields map[string]any) (time.Time, error) {
	if strings.TrimSpace(id) == "" {
		return time.Time{}, WrapError(c.op("upsert"), errors.New("document id is required"))
	}
	ref, err := c.ref(ctx)
	if err != nil {
		return time.Time{}, err
	}
	result, err := ref.Doc(id).Set(ctx, fields)
	if err != nil {
		return time.Time{}, WrapError(c.op("upsert"), err)
	}
	return result.UpdateTime, nil
}

// UpsertAll writes every document through a BulkWriter and returns the
// number written. The first failing document aborts the report but writes
// already queued still complete.
func (c *Collection) UpsertAll(ctx context.Context, docs map[string]map[string]any) (int, error) {
	ref, err := c.ref(ctx)
	if err != nil {
		return 0, err
	}
	client, err := c.provider.Client(ctx)
	if err != nil {
		return 0, err
	}

	writer := client.BulkWriter(ctx)
	jobs := make(map[string]*firestore.BulkWriterJob, len(docs))
	for id, fields := range docs {
		job, err := writer.Set(ref.Doc(id), fields)
		if err != nil {
			writer.End()
			return 0, WrapError(c.op("upsert_all"), fmt.Errorf("queue %s: %w", id, err))
		}
		jobs[id] = job
	}
	writer.End()

	written := 0
	for id, job := range jobs {
		if _, err := job.Results(); err != nil {
			return written, WrapError(c.op("upsert_all"), fmt.Errorf("write %s: %w", id, err))
		}
		written++
	}
	return written, nil
}

func (c *Collection) ref(ctx context.Context) (*firestore.CollectionRef, error) {
	if c == nil || c.provider == nil {
		return nil, errors.New("firestore: provider is nil")
	}
	if c.name == "" {
		return nil, WrapError(c.op("collection"), errors.New("collection name is required"))
	}
	client, err := c.provider.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Collection(c.name), nil
}

func (c *Collection) op(action string) string {
	name := "firestore"
	if c != nil && c.name != "" {
		name = c.name
	}
	return name + "." + action
}
