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

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/folio-vault/folio-api/folio"
)

// AssetByID looks an asset up by id; assets are write-once so hits are
// served from the LRU cache.
func (s *PgStore) AssetByID(ctx context.Context, id uuid.UUID) (*folio.Asset, error) {
	if cached, ok := s.assetCache.Get(id); ok {
		return cached.(*folio.Asset), nil
	}

	asset := &folio.Asset{}
	err := s.run(ctx, func(trx pgx.Tx) error {
		row := trx.QueryRow(ctx, `SELECT id, name FROM assets WHERE id=$1`, id)
		if err := row.Scan(&asset.ID, &asset.Name); err != nil {
			return mapError(err, "asset", id.String())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.assetCache.Add(id, asset)
	return asset, nil
}

func (s *PgStore) AssetByName(ctx context.Context, name string) (*folio.Asset, error) {
	asset := &folio.Asset{}
	err := s.run(ctx, func(trx pgx.Tx) error {
		row := trx.QueryRow(ctx, `SELECT id, name FROM assets WHERE name=$1`, name)
		if err := row.Scan(&asset.ID, &asset.Name); err != nil {
			return mapError(err, "asset", name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.assetCache.Add(asset.ID, asset)
	return asset, nil
}

func (s *PgStore) CreateAsset(ctx context.Context, name string) (*folio.Asset, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, fmt.Errorf("asset name must be at least 2 characters long: %w", folio.ErrValidation)
	}

	asset := &folio.Asset{ID: uuid.New(), Name: name}
	err := s.run(ctx, func(trx pgx.Tx) error {
		_, err := trx.Exec(ctx, `INSERT INTO assets (id, name) VALUES ($1, $2)`, asset.ID, asset.Name)
		if err != nil {
			return mapError(err, "asset", name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}
