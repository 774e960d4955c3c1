package store

import (
	"encoding/json"
	"fmt"
	"os"

	"go.etcd.io/bbolt"
)

type PersistentStore[T any] struct {
	Db       *bbolt.DB
	DbFile   string
	FileMode os.FileMode
	Bucket   string
}

func NewPersistentStore[T any](file string, mode os.FileMode, bucket string) (*PersistentStore[T], error) {

	db, err := bbolt.Open(file, mode, nil)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", file, err)
	}

	p := &PersistentStore[T]{
		Db:       db,
		DbFile:   file,
		FileMode: mode,
		Bucket:   bucket,
	}

	err = p.Db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket %s: %w", bucket, err)
	}

	return p, nil
}

func (p *PersistentStore[T]) Count() (int, error) {

	count := 0

	err := p.Db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(p.Bucket))
		return b.ForEach(func(k, v []byte) error {
			count++
			return nil
		})
	})

	if err != nil {
		return -1, err
	}

	return count, nil
}

func (p *PersistentStore[T]) Get(key string) (v T, err error) {

	err = p.Db.View(func(tx *bbolt.Tx) error {

		b := tx.Bucket([]byte(p.Bucket))
		raw := b.Get([]byte(key))
		if raw == nil {
			return fmt.Errorf("key %s not found", key)
		}

		return json.Unmarshal(raw, &v)
	})

	return
}

func (p *PersistentStore[T]) List() (vs []T, err error) {

	err = p.Db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(p.Bucket))
		return b.ForEach(func(k, raw []byte) error {

			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return err
			}

			vs = append(vs, v)
			return nil
		})
	})

	return
}

func (p *PersistentStore[T]) Put(key string, value T) error {

	return p.Db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(p.Bucket))

		buf, err := json.Marshal(value)
		if err != nil {
			return err
		}

		return b.Put([]byte(key), buf)
	})
}

func (p *PersistentStore[T]) Close() error {
	return p.Db.Close()
}
