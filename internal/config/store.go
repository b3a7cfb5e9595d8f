package config

import "sync"

// Store holds the live parameter record and notifies subscribers with the
// complete new record after every accepted change.
type Store struct {
	mu       sync.RWMutex
	params   Params
	handlers []func(Params)
}

// NewStore validates initial and returns a store holding it.
func NewStore(initial Params) (*Store, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	return &Store{params: initial}, nil
}

func (s *Store) Get() Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// Subscribe registers fn to receive every accepted record.
func (s *Store) Subscribe(fn func(Params)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, fn)
}

// Replace swaps in p if it validates. A rejected record leaves the store
// unchanged and notifies nobody.
func (s *Store) Replace(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.params = p
	handlers := append([]func(Params){}, s.handlers...)
	s.mu.Unlock()

	for _, h := range handlers {
		h(p)
	}
	return nil
}

// Set changes a single field.
func (s *Store) Set(name string, value float64) error {
	p, err := s.Get().With(name, value)
	if err != nil {
		return err
	}
	return s.Replace(p)
}

// Nudge moves a single field by dir panel steps.
func (s *Store) Nudge(name string, dir int) error {
	p, err := s.Get().Nudge(name, dir)
	if err != nil {
		return err
	}
	return s.Replace(p)
}
