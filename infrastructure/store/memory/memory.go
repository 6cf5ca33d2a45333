package memory

import (
	"context"
	"sort"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/cirod-kpi-engine/infrastructure/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store mantém os registros serializados em memória, o que devolve sempre cópias independentes
type Store struct {
	mu   sync.RWMutex
	data map[store.Collection]map[string][]byte
}

func New() *Store {
	return &Store{data: make(map[store.Collection]map[string][]byte)}
}

func (s *Store) Get(ctx context.Context, collection store.Collection, id string) (store.Record, error) {
	if err := store.CheckContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	raw, ok := s.data[collection][id]
	s.mu.RUnlock()
	if !ok {
		return nil, store.ErrNotFound
	}

	return decode(raw)
}

func (s *Store) Put(ctx context.Context, collection store.Collection, id string, record store.Record) error {
	if err := store.CheckContext(ctx); err != nil {
		return err
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bucket(collection)[id] = raw
	return nil
}

func (s *Store) Update(ctx context.Context, collection store.Collection, id string, fields store.Record) error {
	if err := store.CheckContext(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := store.Record{}
	if raw, ok := s.bucket(collection)[id]; ok {
		decoded, err := decode(raw)
		if err != nil {
			return err
		}
		current = decoded
	}

	for k, v := range fields {
		current[k] = v
	}

	raw, err := json.Marshal(current)
	if err != nil {
		return err
	}
	s.bucket(collection)[id] = raw
	return nil
}

// Scan devolve os registros ordenados pelo id
func (s *Store) Scan(ctx context.Context, collection store.Collection) ([]store.Record, error) {
	if err := store.CheckContext(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket := s.data[collection]
	ids := make([]string, 0, len(bucket))
	for id := range bucket {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]store.Record, 0, len(ids))
	for _, id := range ids {
		record, err := decode(bucket[id])
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *Store) Query(ctx context.Context, collection store.Collection, filters []store.Filter) ([]store.Record, error) {
	records, err := s.Scan(ctx, collection)
	if err != nil {
		return nil, err
	}

	matched := make([]store.Record, 0)
	for _, record := range records {
		ok, err := store.Match(record, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

func (s *Store) bucket(collection store.Collection) map[string][]byte {
	bucket, ok := s.data[collection]
	if !ok {
		bucket = make(map[string][]byte)
		s.data[collection] = bucket
	}
	return bucket
}

func decode(raw []byte) (store.Record, error) {
	record := store.Record{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	return record, nil
}
