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

func scanWeights(rows pgx.Rows) ([]*folio.Weight, error) {
	defer rows.Close()

	weights := make([]*folio.Weight, 0)
	for rows.Next() {
		weight := &folio.Weight{}
		if err := rows.Scan(&weight.ID, &weight.PortfolioID, &weight.AssetID, &weight.Date, &weight.Weight); err != nil {
			return nil, err
		}
		weight.Date = folio.NormalizeDate(weight.Date)
		weights = append(weights, weight)
	}
	return weights, rows.Err()
}

func (s *PgStore) WeightsOn(ctx context.Context, portfolioID uuid.UUID, date time.Time) ([]*folio.Weight, error) {
	date = folio.NormalizeDate(date)
	var weights []*folio.Weight
	err := s.run(ctx, func(trx pgx.Tx) error {
		rows, err := trx.Query(ctx,
			`SELECT id, portfolio_id, asset_id, date, weight FROM weights WHERE portfolio_id=$1 AND date=$2`,
			portfolioID, date)
		if err != nil {
			return err
		}
		weights, err = scanWeights(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return weights, nil
}

func (s *PgStore) LatestWeights(ctx context.Context, portfolioID uuid.UUID) ([]*folio.Weight, error) {
	var weights []*folio.Weight
	err := s.run(ctx, func(trx pgx.Tx) error {
		rows, err := trx.Query(ctx,
			`SELECT id, portfolio_id, asset_id, date, weight FROM weights WHERE portfolio_id=$1 ORDER BY date DESC`,
			portfolioID)
		if err != nil {
			return err
		}
		weights, err = scanWeights(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return weights, nil
}

func (s *PgStore) CreateWeight(ctx context.Context, portfolioID, assetID uuid.UUID, date time.Time, weightValue decimal.Decimal) (*folio.Weight, error) {
	date = folio.NormalizeDate(date)
	if !weightValue.IsPositive() || weightValue.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("weight must be in (0, 1]: %w", folio.ErrValidation)
	}
	if date.After(folio.NormalizeDate(time.Now())) {
		return nil, fmt.Errorf("weight date cannot be in the future: %w", folio.ErrValidation)
	}

	weight := &folio.Weight{ID: uuid.New(), PortfolioID: portfolioID, AssetID: assetID, Date: date, Weight: weightValue}
	err := s.run(ctx, func(trx pgx.Tx) error {
		_, err := trx.Exec(ctx,
			`INSERT INTO weights (id, portfolio_id, asset_id, date, weight) VALUES ($1, $2, $3, $4, $5)`,
			weight.ID, weight.PortfolioID, weight.AssetID, weight.Date, weight.Weight)
		if err != nil {
			return mapError(err, "weight", fmt.Sprintf("%s/%s@%s", portfolioID, assetID, date.Format("2006-01-02")))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return weight, nil
}
