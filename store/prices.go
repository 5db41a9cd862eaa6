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
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"

	"github.com/folio-vault/folio-api/folio"
)

func (s *PgStore) PriceOn(ctx context.Context, assetID uuid.UUID, date time.Time) (*folio.Price, error) {
	date = folio.NormalizeDate(date)
	price := &folio.Price{}
	err := s.run(ctx, func(trx pgx.Tx) error {
		row := trx.QueryRow(ctx, `SELECT id, asset_id, date, price FROM prices WHERE asset_id=$1 AND date=$2`, assetID, date)
		if err := row.Scan(&price.ID, &price.AssetID, &price.Date, &price.Price); err != nil {
			return mapError(err, "price", fmt.Sprintf("%s@%s", assetID, date.Format("2006-01-02")))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	price.Date = folio.NormalizeDate(price.Date)
	return price, nil
}

func (s *PgStore) LatestPrice(ctx context.Context, assetID uuid.UUID) (*folio.Price, error) {
	price := &folio.Price{}
	err := s.run(ctx, func(trx pgx.Tx) error {
		row := trx.QueryRow(ctx, `SELECT id, asset_id, date, price FROM prices WHERE asset_id=$1 ORDER BY date DESC LIMIT 1`, assetID)
		if err := row.Scan(&price.ID, &price.AssetID, &price.Date, &price.Price); err != nil {
			return mapError(err, "price", assetID.String())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	price.Date = folio.NormalizeDate(price.Date)
	return price, nil
}

// PricesInRange returns prices for the given assets within [start, end]
// inclusive, ordered by date ascending.
func (s *PgStore) PricesInRange(ctx context.Context, assetIDs []uuid.UUID, start, end time.Time) ([]*folio.Price, error) {
	start = folio.NormalizeDate(start)
	end = folio.NormalizeDate(end)

	prices := make([]*folio.Price, 0)
	if len(assetIDs) == 0 {
		return prices, nil
	}

	// pgx has no codec for a slice of uuid.UUID; send text and cast
	ids := make([]string, len(assetIDs))
	for idx, id := range assetIDs {
		ids[idx] = id.String()
	}

	err := s.run(ctx, func(trx pgx.Tx) error {
		rows, err := trx.Query(ctx,
			`SELECT id, asset_id, date, price FROM prices WHERE asset_id = ANY($1::uuid[]) AND date BETWEEN $2 AND $3 ORDER BY date`,
			ids, start, end)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			price := &folio.Price{}
			if err := rows.Scan(&price.ID, &price.AssetID, &price.Date, &price.Price); err != nil {
				return err
			}
			price.Date = folio.NormalizeDate(price.Date)
			prices = append(prices, price)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return prices, nil
}

func (s *PgStore) CreatePrice(ctx context.Context, assetID uuid.UUID, date time.Time, priceValue decimal.Decimal) (*folio.Price, error) {
	date = folio.NormalizeDate(date)
	if !priceValue.IsPositive() {
		return nil, fmt.Errorf("price must be positive: %w", folio.ErrValidation)
	}
	if date.After(folio.NormalizeDate(time.Now())) {
		return nil, fmt.Errorf("price date cannot be in the future: %w", folio.ErrValidation)
	}

	price := &folio.Price{ID: uuid.New(), AssetID: assetID, Date: date, Price: priceValue}
	err := s.run(ctx, func(trx pgx.Tx) error {
		_, err := trx.Exec(ctx, `INSERT INTO prices (id, asset_id, date, price) VALUES ($1, $2, $3, $4)`,
			price.ID, price.AssetID, price.Date, price.Price)
		if err != nil {
			return mapError(err, "price", fmt.Sprintf("%s@%s", assetID, date.Format("2006-01-02")))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return price, nil
}
