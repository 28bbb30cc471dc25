// Copyright 2023 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stats

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/boltdb/bolt"
	yaml "gopkg.in/yaml.v2"

	"github.com/dolthub/go-join-planner/sql"
)

var tableStatsBucket = []byte("table_stats")

// BoltProvider is a Provider persisting statistics in a bolt database.
type BoltProvider struct {
	mu      sync.RWMutex
	db      *bolt.DB
	version atomic.Uint64
}

var _ Provider = (*BoltProvider)(nil)
var _ Versioned = (*BoltProvider)(nil)

// OpenBoltProvider opens or creates the statistics database at path.
func OpenBoltProvider(path string) (*BoltProvider, error) {
	db, err := bolt.Open(path, 0640, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(tableStatsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltProvider{db: db}, nil
}

func (p *BoltProvider) query(fn func(db *bolt.DB) error) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.db == nil {
		return ErrStatsStoreClosed.New()
	}
	return fn(p.db)
}

// Put stores the statistics of a table.
func (p *BoltProvider) Put(table string, s TableStats) error {
	value, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return p.update(func(tx *bolt.Tx) error {
		return tx.Bucket(tableStatsBucket).Put([]byte(table), value)
	})
}

// PutAll stores the statistics of several tables in one transaction.
func (p *BoltProvider) PutAll(tables map[string]TableStats) error {
	return p.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(tableStatsBucket)
		for name, s := range tables {
			value, err := yaml.Marshal(s)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(name), value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *BoltProvider) update(fn func(tx *bolt.Tx) error) error {
	return p.query(func(db *bolt.DB) error {
		if err := db.Update(fn); err != nil {
			return err
		}
		p.version.Add(1)
		return nil
	})
}

// Version implements the Versioned interface.
func (p *BoltProvider) Version() uint64 {
	return p.version.Load()
}

// TableStats implements the Provider interface.
func (p *BoltProvider) TableStats(_ *sql.Context, table string) (TableStats, bool, error) {
	var (
		s     TableStats
		found bool
	)

	err := p.query(func(db *bolt.DB) error {
		return db.View(func(tx *bolt.Tx) error {
			value := tx.Bucket(tableStatsBucket).Get([]byte(table))
			if value == nil {
				return nil
			}
			found = true
			if err := yaml.Unmarshal(value, &s); err != nil {
				return ErrInvalidStats.Wrap(err, table)
			}
			return nil
		})
	})
	if err != nil {
		return TableStats{}, false, err
	}

	return s, found, nil
}

// Close closes the database. Further calls fail with ErrStatsStoreClosed.
func (p *BoltProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}
