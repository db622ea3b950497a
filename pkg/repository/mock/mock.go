package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/garnizeh/portfolio/pkg/models"
	"github.com/garnizeh/portfolio/pkg/repository"
)

// Test helpers and mocks
type Mocks struct {
	Store     *Store
	Operators *OperatorRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Store:     NewStore(),
		Operators: &OperatorRepo{},
	}
}

// Store is an in-memory repository.DocumentStore. Error fields, when set, are
// returned by the matching operation without touching the data.
type Store struct {
	mu     sync.Mutex
	data   map[string][]models.Document
	nextID int

	ListErr   error
	GetErr    error
	CreateErr error
	UpdateErr error
	DeleteErr error
	SetErr    error

	Calls map[string]int
}

var _ repository.DocumentStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{data: map[string][]models.Document{}, Calls: map[string]int{}}
}

// Seed appends a document with the given fields and returns its id.
func (s *Store) Seed(collection string, fields models.Fields) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(collection, fields)
}

// Count returns the number of documents in collection.
func (s *Store) Count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data[collection])
}

// CallCount returns how many times op was invoked, e.g. "delete:skills".
func (s *Store) CallCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls[op]
}

func (s *Store) insert(collection string, fields models.Fields) string {
	s.nextID++
	id := fmt.Sprintf("doc-%d", s.nextID)
	s.data[collection] = append(s.data[collection], models.Document{ID: id, Fields: copyFields(fields)})
	return id
}

func (s *Store) record(op, collection string) {
	s.Calls[op+":"+collection]++
}

func (s *Store) check(collection string) error {
	if !models.IsCollection(collection) {
		return repository.ErrUnknownCollection
	}
	return nil
}

func (s *Store) List(ctx context.Context, collection string) ([]models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("list", collection)
	if err := s.check(collection); err != nil {
		return nil, err
	}
	if s.ListErr != nil {
		return nil, &repository.StoreError{Op: "list", Collection: collection, Err: s.ListErr}
	}
	out := make([]models.Document, 0, len(s.data[collection]))
	for _, d := range s.data[collection] {
		out = append(out, models.Document{ID: d.ID, Fields: copyFields(d.Fields)})
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("get", collection)
	if err := s.check(collection); err != nil {
		return nil, err
	}
	if s.GetErr != nil {
		return nil, &repository.StoreError{Op: "get", Collection: collection, Err: s.GetErr}
	}
	for _, d := range s.data[collection] {
		if d.ID == id {
			return &models.Document{ID: d.ID, Fields: copyFields(d.Fields)}, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) Create(ctx context.Context, collection string, fields models.Fields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("create", collection)
	if err := s.check(collection); err != nil {
		return "", err
	}
	if s.CreateErr != nil {
		return "", &repository.StoreError{Op: "create", Collection: collection, Err: s.CreateErr}
	}
	return s.insert(collection, fields), nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields models.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("update", collection)
	if err := s.check(collection); err != nil {
		return err
	}
	if s.UpdateErr != nil {
		return &repository.StoreError{Op: "update", Collection: collection, Err: s.UpdateErr}
	}
	for i, d := range s.data[collection] {
		if d.ID == id {
			s.data[collection][i].Fields = copyFields(fields)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("delete", collection)
	if err := s.check(collection); err != nil {
		return err
	}
	if s.DeleteErr != nil {
		return &repository.StoreError{Op: "delete", Collection: collection, Err: s.DeleteErr}
	}
	docs := s.data[collection]
	for i, d := range docs {
		if d.ID == id {
			s.data[collection] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Store) SetSingleton(ctx context.Context, collection, key string, fields models.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("set", collection)
	if err := s.check(collection); err != nil {
		return err
	}
	if s.SetErr != nil {
		return &repository.StoreError{Op: "set", Collection: collection, Err: s.SetErr}
	}
	for i, d := range s.data[collection] {
		if d.ID == key {
			s.data[collection][i].Fields = copyFields(fields)
			return nil
		}
	}
	s.data[collection] = append(s.data[collection], models.Document{ID: key, Fields: copyFields(fields)})
	return nil
}

func copyFields(in models.Fields) models.Fields {
	out := make(models.Fields, len(in))
	for k, v := range in {
		if l, ok := v.([]string); ok {
			v = append([]string{}, l...)
		}
		out[k] = v
	}
	return out
}

// OperatorRepo keeps at most one operator in memory.
type OperatorRepo struct {
	Stored    *models.Operator
	CreateErr error
	GetErr    error
}

var _ repository.OperatorRepo = (*OperatorRepo)(nil)

func (m *OperatorRepo) CreateOperator(ctx context.Context, o *models.Operator) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.Stored = &models.Operator{ID: 1, Email: o.Email, PasswordHash: o.PasswordHash, Disabled: o.Disabled}
	return 1, nil
}

func (m *OperatorRepo) GetOperatorByEmail(ctx context.Context, email string) (*models.Operator, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Stored != nil && strings.EqualFold(m.Stored.Email, email) {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *OperatorRepo) UpdateOperator(ctx context.Context, o *models.Operator) error {
	m.Stored = o
	return nil
}
