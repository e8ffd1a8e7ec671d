package contentstore

import (
	"context"
	"errors"

	fsplatform "github.com/bandipurcablecar/website-sub001/internal/platform/firestore"
)

// Firestore serves content from Cloud Firestore collections named after the
// content types. Each document's fields form one Record.
type Firestore struct {
	provider *fsplatform.Provider
}

// NewFirestore constructs a Firestore-backed Client.
func NewFirestore(provider *fsplatform.Provider) (*Firestore, error) {
	if provider == nil {
		return nil, errors.New("contentstore: firestore provider is required")
	}
	return &Firestore{provider: provider}, nil
}

// Query implements Client. Equality filters run server-side; ordering is
// applied after the read because Firestore omits documents that lack an
// order-by field, and a record missing menu_order must still be returned.
func (f *Firestore) Query(ctx context.Context, collection string, filters []Filter, orderBy []Order) ([]Record, error) {
	records, err := f.query(ctx, collection, filters, 0)
	if err != nil {
		return nil, err
	}
	SortRecords(records, orderBy)
	return records, nil
}

// QueryOne implements Client.
func (f *Firestore) QueryOne(ctx context.Context, collection string, filters []Filter) (Record, error) {
	records, err := f.query(ctx, collection, filters, 1)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return records[0], nil
}

// Put upserts record under id. The id field itself is not stored.
func (f *Firestore) Put(ctx context.Context, collection, id string, record Record) error {
	_, err := fsplatform.NewCollection(f.provider, collection).Upsert(ctx, id, storedFields(record))
	return classify(err)
}

// PutAll upserts records keyed by their id field and returns how many were
// written. Records without an id are skipped.
func (f *Firestore) PutAll(ctx context.Context, collection string, records []Record) (int, error) {
	docs := make(map[string]map[string]any, len(records))
	for _, record := range records {
		if id := record.String("id"); id != "" {
			docs[id] = storedFields(record)
		}
	}
	if len(docs) == 0 {
		return 0, nil
	}
	n, err := fsplatform.NewCollection(f.provider, collection).UpsertAll(ctx, docs)
	return n, classify(err)
}

// Ping verifies the backend answers a minimal query.
func (f *Firestore) Ping(ctx context.Context) error {
	_, err := f.query(ctx, "site_settings", nil, 1)
	return err
}

func (f *Firestore) query(ctx context.Context, collection string, filters []Filter, limit int) ([]Record, error) {
	where := make([]fsplatform.Equal, 0, len(filters))
	for _, filter := range filters {
		where = append(where, fsplatform.Equal{Field: filter.Field, Value: filter.Value})
	}
	docs, err := fsplatform.NewCollection(f.provider, collection).Find(ctx, where, limit)
	if err != nil {
		return nil, classify(err)
	}

	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		record := Record(doc.Fields)
		if _, ok := record["id"]; !ok {
			record["id"] = doc.ID
		}
		if _, ok := record["updated_at"]; !ok && !doc.UpdateTime.IsZero() {
			record["updated_at"] = doc.UpdateTime
		}
		records = append(records, record)
	}
	return records, nil
}

func storedFields(record Record) map[string]any {
	data := map[string]any(record.Clone())
	delete(data, "id")
	return data
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	if fsplatform.IsUnavailable(err) {
		return errors.Join(ErrUnavailable, err)
	}
	return err
}
