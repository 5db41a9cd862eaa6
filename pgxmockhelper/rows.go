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

// Package pgxmockhelper builds pgxmock row fixtures for the entity tables
// and wraps the begin/commit expectations every store operation carries.
package pgxmockhelper

import (
	"github.com/pashagolub/pgxmock"

	"github.com/folio-vault/folio-api/folio"
)

// decimal columns are passed to the mock as strings; decimal.Decimal scans
// them back on the other side

func AssetRows(assets ...*folio.Asset) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "name"})
	for _, asset := range assets {
		rows.AddRow(asset.ID, asset.Name)
	}
	return rows
}

func PortfolioRows(portfolios ...*folio.Portfolio) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "name", "initial_value"})
	for _, portfolio := range portfolios {
		if portfolio.InitialValue != nil {
			rows.AddRow(portfolio.ID, portfolio.Name, portfolio.InitialValue.String())
		} else {
			rows.AddRow(portfolio.ID, portfolio.Name, nil)
		}
	}
	return rows
}

func PriceRows(prices ...*folio.Price) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "asset_id", "date", "price"})
	for _, price := range prices {
		rows.AddRow(price.ID, price.AssetID, price.Date, price.Price.String())
	}
	return rows
}

func WeightRows(weights ...*folio.Weight) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "portfolio_id", "asset_id", "date", "weight"})
	for _, weight := range weights {
		rows.AddRow(weight.ID, weight.PortfolioID, weight.AssetID, weight.Date, weight.Weight.String())
	}
	return rows
}

func HoldingRows(holdings ...*folio.Holding) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "portfolio_id", "asset_id", "date", "quantity"})
	for _, holding := range holdings {
		rows.AddRow(holding.ID, holding.PortfolioID, holding.AssetID, holding.Date, holding.Quantity.String())
	}
	return rows
}

func CountRows(count int) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"count"}).AddRow(count)
}

// ExpectQueryTx registers the begin/query/commit sequence a single-operation
// store query produces.
func ExpectQueryTx(mock pgxmock.PgxConnIface, sql string, rows *pgxmock.Rows) {
	mock.ExpectBegin()
	mock.ExpectQuery(sql).WillReturnRows(rows)
	mock.ExpectCommit()
}

// ExpectExecTx registers the begin/exec/commit sequence a single-operation
// store insert produces.
func ExpectExecTx(mock pgxmock.PgxConnIface, sql string) {
	mock.ExpectBegin()
	mock.ExpectExec(sql).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
}
