package state

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
)

var (
	_ Store      = (*MemoryStore)(nil)
	_ Observable = (*MemoryStore)(nil)
)

// MemoryStore is the in-process live-state map with a case-insensitive
// plate index. Plate lookups are the hot path of ingest.
type MemoryStore struct {
	mu       sync.RWMutex
	vehicles map[string]domain.Vehicle
	byPlate  map[string]string // lowercase plate -> id

	subMu   sync.Mutex
	subs    map[int]func(domain.Vehicle)
	nextSub int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		vehicles: make(map[string]domain.Vehicle),
		byPlate:  make(map[string]string),
		subs:     make(map[int]func(domain.Vehicle)),
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vehicles[id]
	if !ok {
		return nil, ErrVehicleNotFound
	}
	return &v, nil
}

func (s *MemoryStore) FindByPlate(_ context.Context, plate string) (*domain.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byPlate[strings.ToLower(plate)]
	if !ok {
		return nil, ErrVehicleNotFound
	}
	v := s.vehicles[id]
	return &v, nil
}

func (s *MemoryStore) Put(_ context.Context, v *domain.Vehicle) error {
	s.mu.Lock()
	if old, ok := s.vehicles[v.ID]; ok && !strings.EqualFold(old.LicensePlate, v.LicensePlate) {
		delete(s.byPlate, strings.ToLower(old.LicensePlate))
	}
	s.vehicles[v.ID] = *v
	s.byPlate[strings.ToLower(v.LicensePlate)] = v.ID
	s.mu.Unlock()

	s.notify(*v)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vehicles[id]
	if !ok {
		return ErrVehicleNotFound
	}
	delete(s.vehicles, id)
	delete(s.byPlate, strings.ToLower(v.LicensePlate))
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]domain.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Subscribe registers fn for every Put. The returned cancel detaches it.
func (s *MemoryStore) Subscribe(fn func(domain.Vehicle)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *MemoryStore) notify(v domain.Vehicle) {
	s.subMu.Lock()
	fns := make([]func(domain.Vehicle), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
