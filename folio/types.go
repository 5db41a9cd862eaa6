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

package folio

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Asset is a tradeable instrument with a unique name
type Asset struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Portfolio is a named collection of holdings. InitialValue is the cash
// basis used when constructing initial holdings from target weights; it is
// nil until the portfolio has been funded.
type Portfolio struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	InitialValue *decimal.Decimal `json:"initial_value"`
}

// Price is the market price of an asset on a date. Prices are write-once;
// there is no update operation.
type Price struct {
	ID      uuid.UUID       `json:"id"`
	AssetID uuid.UUID       `json:"asset_id"`
	Date    time.Time       `json:"date"`
	Price   decimal.Decimal `json:"price"`
}

// Weight is the target allocation fraction, in (0, 1], of a portfolio's
// initial value to an asset on a date.
type Weight struct {
	ID          uuid.UUID       `json:"id"`
	PortfolioID uuid.UUID       `json:"portfolio_id"`
	AssetID     uuid.UUID       `json:"asset_id"`
	Date        time.Time       `json:"date"`
	Weight      decimal.Decimal `json:"weight"`
}

// Holding is the quantity of an asset owned by a portfolio as of a date.
// Holdings are not an append-only ledger: a buy or sell mutates the row with
// the latest date at or before the transaction date.
type Holding struct {
	ID          uuid.UUID       `json:"id"`
	PortfolioID uuid.UUID       `json:"portfolio_id"`
	AssetID     uuid.UUID       `json:"asset_id"`
	Date        time.Time       `json:"date"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// TransactionResult reports a completed buy or sell. Total is the cash
// amount requested; Quantity the resulting unit delta at Price.
type TransactionResult struct {
	Message     string          `json:"message"`
	PortfolioID uuid.UUID       `json:"portfolio_id"`
	AssetID     uuid.UUID       `json:"asset_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

// MetricsPoint is one row of the valuation time series. Weights are
// fractions in [0, 1] keyed by asset name and sum to 1 for every emitted
// date.
type MetricsPoint struct {
	Date       time.Time                  `json:"date"`
	TotalValue decimal.Decimal            `json:"total_value"`
	Weights    map[string]decimal.Decimal `json:"weights"`
}

// RebalanceResult bundles the two transactions of a rebalance with the
// metrics series computed after both applied.
type RebalanceResult struct {
	SellTransaction *TransactionResult `json:"sell_transaction"`
	BuyTransaction  *TransactionResult `json:"buy_transaction"`
	Metrics         []*MetricsPoint    `json:"metrics"`
}

// AssetPosition is one line of a portfolio composition report valued at the
// asset's most recent price.
type AssetPosition struct {
	AssetID   uuid.UUID       `json:"asset_id"`
	AssetName string          `json:"asset_name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Value     decimal.Decimal `json:"value"`
	Date      time.Time       `json:"date"`
}

// NormalizeDate strips the time-of-day so dates compare and round-trip
// through the DATE column cleanly.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
