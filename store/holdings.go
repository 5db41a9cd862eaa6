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
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"

	"github.com/folio-vault/folio-api/folio"
)

func scanHoldings(rows pgx.Rows) ([]*folio.Holding, error) {
	defer rows.Close()

	holdings := make([]*folio.Holding, 0)
	for rows.Next() {
		holding := &folio.Holding{}
		if err := rows.Scan(&holding.ID, &holding.PortfolioID, &holding.AssetID, &holding.Date, &holding.Quantity); err != nil {
			return nil, err
		}
		holding.Date = folio.NormalizeDate(holding.Date)
		holdings = append(holdings, holding)
	}
	return holdings, rows.Err()
}

// HoldingsOn returns holdings dated exactly at date with quantity > 0
func (s *PgStore) HoldingsOn(ctx context.Context, portfolioID uuid.UUID, date time.Time) ([]*folio.Holding, error) {
	date = folio.NormalizeDate(date)
	var holdings []*folio.Holding
	err := s.run(ctx, func(trx pgx.Tx) error {
		rows, err := trx.Query(ctx,
			`SELECT id, portfolio_id, asset_id, date, quantity FROM holdings WHERE portfolio_id=$1 AND date=$2 AND quantity > 0`,
			portfolioID, date)
		if err != nil {
			return err
		}
		holdings, err = scanHoldings(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return holdings, nil
}

func (s *PgStore) Holdings(ctx context.Context, portfolioID uuid.UUID) ([]*folio.Holding, error) {
	var holdings []*folio.Holding
	err := s.run(ctx, func(trx pgx.Tx) error {
		rows, err := trx.Query(ctx,
			`SELECT id, portfolio_id, asset_id, date, quantity FROM holdings WHERE portfolio_id=$1 ORDER BY date`,
			portfolioID)
		if err != nil {
			return err
		}
		holdings, err = scanHoldings(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return holdings, nil
}

// EarliestHolding returns the portfolio's first holding by date; its date is
// the reference date for metrics.
func (s *PgStore) EarliestHolding(ctx context.Context, portfolioID uuid.UUID) (*folio.Holding, error) {
	holding := &folio.Holding{}
	err := s.run(ctx, func(trx pgx.Tx) error {
		row := trx.QueryRow(ctx,
			`SELECT id, portfolio_id, asset_id, date, quantity FROM holdings WHERE portfolio_id=$1 ORDER BY date LIMIT 1`,
			portfolioID)
		if err := row.Scan(&holding.ID, &holding.PortfolioID, &holding.AssetID, &holding.Date, &holding.Quantity); err != nil {
			return mapError(err, "holdings for portfolio", portfolioID.String())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	holding.Date = folio.NormalizeDate(holding.Date)
	return holding, nil
}

// LatestHoldingAtOrBefore returns the most recent holding for the asset
// dated at or before date, or (nil, nil) when none exists.
func (s *PgStore) LatestHoldingAtOrBefore(ctx context.Context, portfolioID, assetID uuid.UUID, date time.Time) (*folio.Holding, error) {
	date = folio.NormalizeDate(date)
	holding := &folio.Holding{}
	found := true
	err := s.run(ctx, func(trx pgx.Tx) error {
		row := trx.QueryRow(ctx,
			`SELECT id, portfolio_id, asset_id, date, quantity FROM holdings WHERE portfolio_id=$1 AND asset_id=$2 AND date <= $3 ORDER BY date DESC LIMIT 1`,
			portfolioID, assetID, date)
		if err := row.Scan(&holding.ID, &holding.PortfolioID, &holding.AssetID, &holding.Date, &holding.Quantity); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				found = false
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	holding.Date = folio.NormalizeDate(holding.Date)
	return holding, nil
}

func (s *PgStore) CreateHolding(ctx context.Context, portfolioID, assetID uuid.UUID, date time.Time, quantity decimal.Decimal) (*folio.Holding, error) {
	date = folio.NormalizeDate(date)
	if quantity.IsNegative() {
		return nil, fmt.Errorf("holding quantity cannot be negative: %w", folio.ErrValidation)
	}
	if date.After(folio.NormalizeDate(time.Now())) {
		return nil, fmt.Errorf("holding date cannot be in the future: %w", folio.ErrValidation)
	}

	holding := &folio.Holding{ID: uuid.New(), PortfolioID: portfolioID, AssetID: assetID, Date: date, Quantity: quantity}
	err := s.run(ctx, func(trx pgx.Tx) error {
		_, err := trx.Exec(ctx,
			`INSERT INTO holdings (id, portfolio_id, asset_id, date, quantity) VALUES ($1, $2, $3, $4, $5)`,
			holding.ID, holding.PortfolioID, holding.AssetID, holding.Date, holding.Quantity)
		if err != nil {
			return mapError(err, "holding", fmt.Sprintf("%s/%s@%s", portfolioID, assetID, date.Format("2006-01-02")))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return holding, nil
}

// UpdateHoldingQuantity sets the row's quantity in place; the row's date is
// never changed by transactions.
func (s *PgStore) UpdateHoldingQuantity(ctx context.Context, holdingID uuid.UUID, quantity decimal.Decimal) (*folio.Holding, error) {
	if quantity.IsNegative() {
		return nil, fmt.Errorf("holding quantity cannot be negative: %w", folio.ErrValidation)
	}

	holding := &folio.Holding{}
	err := s.run(ctx, func(trx pgx.Tx) error {
		row := trx.QueryRow(ctx,
			`UPDATE holdings SET quantity=$1 WHERE id=$2 RETURNING id, portfolio_id, asset_id, date, quantity`,
			quantity, holdingID)
		if err := row.Scan(&holding.ID, &holding.PortfolioID, &holding.AssetID, &holding.Date, &holding.Quantity); err != nil {
			return mapError(err, "holding", holdingID.String())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	holding.Date = folio.NormalizeDate(holding.Date)
	return holding, nil
}
