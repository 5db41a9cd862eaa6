// Copyright 2023-2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package store implements folio.Store on PostgreSQL via pgx.
package store

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog/log"

	"github.com/folio-vault/folio-api/database"
	"github.com/folio-vault/folio-api/folio"
)

const uniqueViolation = "23505"

// PgStore runs each operation in its own transaction against the pool.
// Inside Atomic, a child store shares one serializable transaction for every
// operation instead.
type PgStore struct {
	trx        pgx.Tx
	assetCache *lru.Cache
}

func New(assetCacheSize int) (*PgStore, error) {
	cache, err := lru.New(assetCacheSize)
	if err != nil {
		log.Error().Err(err).Msg("could not create asset LRU cache")
		return nil, err
	}
	return &PgStore{assetCache: cache}, nil
}

// run executes fn against the ambient transaction when inside Atomic,
// otherwise against a fresh single-use transaction.
func (s *PgStore) run(ctx context.Context, fn func(pgx.Tx) error) error {
	if s.trx != nil {
		return fn(s.trx)
	}

	trx, err := database.Trx(ctx)
	if err != nil {
		return err
	}
	if err := fn(trx); err != nil {
		if rerr := trx.Rollback(ctx); rerr != nil {
			log.Error().Stack().Err(rerr).Msg("could not rollback transaction")
		}
		return err
	}
	return trx.Commit(ctx)
}

// Atomic runs fn against a store bound to one serializable transaction.
// Nested calls join the enclosing transaction.
func (s *PgStore) Atomic(ctx context.Context, fn func(folio.Store) error) error {
	if s.trx != nil {
		return fn(s)
	}

	trx, err := database.SerializableTrx(ctx)
	if err != nil {
		return err
	}

	child := &PgStore{trx: trx, assetCache: s.assetCache}
	if err := fn(child); err != nil {
		if rerr := trx.Rollback(ctx); rerr != nil {
			log.Error().Stack().Err(rerr).Msg("could not rollback transaction")
		}
		return err
	}
	return trx.Commit(ctx)
}

// mapError converts pgx/postgres failures into the folio error taxonomy
func mapError(err error, entity string, key string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, key, folio.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s %s: %w", entity, key, folio.ErrDuplicate)
	}
	return err
}
