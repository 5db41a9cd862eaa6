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
	"github.com/shopspring/decimal"

	"github.com/folio-vault/folio-api/folio"
)

func scanPortfolio(row pgx.Row, entity, key string) (*folio.Portfolio, error) {
	portfolio := &folio.Portfolio{}
	var initialValue decimal.NullDecimal
	if err := row.Scan(&portfolio.ID, &portfolio.Name, &initialValue); err != nil {
		return nil, mapError(err, entity, key)
	}
	if initialValue.Valid {
		portfolio.InitialValue = &initialValue.Decimal
	}
	return portfolio, nil
}

func (s *PgStore) PortfolioByID(ctx context.Context, id uuid.UUID) (*folio.Portfolio, error) {
	var portfolio *folio.Portfolio
	err := s.run(ctx, func(trx pgx.Tx) error {
		row := trx.QueryRow(ctx, `SELECT id, name, initial_value FROM portfolios WHERE id=$1`, id)
		var err error
		portfolio, err = scanPortfolio(row, "portfolio", id.String())
		return err
	})
	if err != nil {
		return nil, err
	}
	return portfolio, nil
}

func (s *PgStore) PortfolioByName(ctx context.Context, name string) (*folio.Portfolio, error) {
	var portfolio *folio.Portfolio
	err := s.run(ctx, func(trx pgx.Tx) error {
		row := trx.QueryRow(ctx, `SELECT id, name, initial_value FROM portfolios WHERE name=$1`, name)
		var err error
		portfolio, err = scanPortfolio(row, "portfolio", name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return portfolio, nil
}

// Portfolios returns one page of portfolios ordered by name plus the total
// count across all pages.
func (s *PgStore) Portfolios(ctx context.Context, limit, offset int) ([]*folio.Portfolio, int, error) {
	portfolios := make([]*folio.Portfolio, 0, limit)
	count := 0
	err := s.run(ctx, func(trx pgx.Tx) error {
		row := trx.QueryRow(ctx, `SELECT count(*) FROM portfolios`)
		if err := row.Scan(&count); err != nil {
			return err
		}

		rows, err := trx.Query(ctx, `SELECT id, name, initial_value FROM portfolios ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			portfolio := &folio.Portfolio{}
			var initialValue decimal.NullDecimal
			if err := rows.Scan(&portfolio.ID, &portfolio.Name, &initialValue); err != nil {
				return err
			}
			if initialValue.Valid {
				portfolio.InitialValue = &initialValue.Decimal
			}
			portfolios = append(portfolios, portfolio)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return portfolios, count, nil
}

func (s *PgStore) CreatePortfolio(ctx context.Context, name string, initialValue *decimal.Decimal) (*folio.Portfolio, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, fmt.Errorf("portfolio name must be at least 2 characters long: %w", folio.ErrValidation)
	}
	if initialValue != nil && !initialValue.IsPositive() {
		return nil, fmt.Errorf("initial value must be positive: %w", folio.ErrValidation)
	}

	portfolio := &folio.Portfolio{ID: uuid.New(), Name: name, InitialValue: initialValue}
	err := s.run(ctx, func(trx pgx.Tx) error {
		nullValue := decimal.NullDecimal{}
		if initialValue != nil {
			nullValue = decimal.NullDecimal{Decimal: *initialValue, Valid: true}
		}
		_, err := trx.Exec(ctx, `INSERT INTO portfolios (id, name, initial_value) VALUES ($1, $2, $3)`,
			portfolio.ID, portfolio.Name, nullValue)
		if err != nil {
			return mapError(err, "portfolio", name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return portfolio, nil
}

func (s *PgStore) SetPortfolioInitialValue(ctx context.Context, id uuid.UUID, initialValue decimal.Decimal) (*folio.Portfolio, error) {
	if !initialValue.IsPositive() {
		return nil, fmt.Errorf("initial value must be positive: %w", folio.ErrValidation)
	}

	var portfolio *folio.Portfolio
	err := s.run(ctx, func(trx pgx.Tx) error {
		row := trx.QueryRow(ctx, `UPDATE portfolios SET initial_value=$1 WHERE id=$2 RETURNING id, name, initial_value`,
			initialValue, id)
		var err error
		portfolio, err = scanPortfolio(row, "portfolio", id.String())
		return err
	})
	if err != nil {
		return nil, err
	}
	return portfolio, nil
}
