package store

import (
	"fmt"
)

type InMemoryStore[T any] struct {
	Db map[string]T
}

func NewInMemoryStore[T any]() *InMemoryStore[T] {
	return &InMemoryStore[T]{
		Db: make(map[string]T),
	}
}

func (i *InMemoryStore[T]) Count() (int, error) {
	return len(i.Db), nil
}

func (i *InMemoryStore[T]) Get(key string) (v T, err error) {

	v, ok := i.Db[key]
	if !ok {
		return v, fmt.Errorf("key %s not found", key)
	}

	return v, nil
}

func (i *InMemoryStore[T]) List() ([]T, error) {

	var vs []T
	for _, v := range i.Db {
		vs = append(vs, v)
	}

	return vs, nil
}

func (i *InMemoryStore[T]) Put(key string, value T) error {
	i.Db[key] = value
	return nil
}
