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
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Metrics computes the portfolio's (date, total value, per-asset weight)
// series over [start, end]. The composition is frozen at the reference date
// -- the portfolio's earliest holding date -- and only prices vary per date;
// quantities are not re-derived. Dates where no held asset has a price, or
// where the total value would be zero, produce no row.
func (s *Service) Metrics(ctx context.Context, portfolioID uuid.UUID, start, end time.Time) ([]*MetricsPoint, error) {
	start = NormalizeDate(start)
	end = NormalizeDate(end)
	subLog := log.With().
		Str("PortfolioID", portfolioID.String()).
		Time("StartDate", start).
		Time("EndDate", end).Logger()

	portfolio, err := s.store.PortfolioByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	first, err := s.store.EarliestHolding(ctx, portfolio.ID)
	if err != nil {
		return nil, err
	}
	referenceDate := first.Date

	if start.Before(referenceDate) {
		return nil, fmt.Errorf("start date %s is before reference date %s: %w",
			start.Format("2006-01-02"), referenceDate.Format("2006-01-02"), ErrValidation)
	}

	holdings, err := s.store.HoldingsOn(ctx, portfolio.ID, referenceDate)
	if err != nil {
		return nil, err
	}

	quantities := make(map[uuid.UUID]decimal.Decimal, len(holdings))
	assetIDs := make([]uuid.UUID, 0, len(holdings))
	for _, holding := range holdings {
		quantities[holding.AssetID] = holding.Quantity
		assetIDs = append(assetIDs, holding.AssetID)
	}

	prices, err := s.store.PricesInRange(ctx, assetIDs, start, end)
	if err != nil {
		return nil, err
	}

	pricesByDate := make(map[time.Time]map[uuid.UUID]decimal.Decimal)
	for _, price := range prices {
		onDate, ok := pricesByDate[price.Date]
		if !ok {
			onDate = make(map[uuid.UUID]decimal.Decimal)
			pricesByDate[price.Date] = onDate
		}
		onDate[price.AssetID] = price.Price
	}

	dates := make([]time.Time, 0, len(pricesByDate))
	for date := range pricesByDate {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	results := make([]*MetricsPoint, 0, len(dates))
	for _, date := range dates {
		assetValues := make(map[uuid.UUID]decimal.Decimal)
		totalValue := decimal.Zero

		for assetID, price := range pricesByDate[date] {
			quantity, ok := quantities[assetID]
			if !ok {
				continue
			}
			value := quantity.Mul(price)
			assetValues[assetID] = value
			totalValue = totalValue.Add(value)
		}

		// a zero total would divide by zero below; emit no row for the date
		if len(assetValues) == 0 || totalValue.IsZero() {
			continue
		}

		weights := make(map[string]decimal.Decimal, len(assetValues))
		for assetID, value := range assetValues {
			asset, err := s.store.AssetByID(ctx, assetID)
			if err != nil {
				return nil, err
			}
			weights[asset.Name] = value.Div(totalValue)
		}

		results = append(results, &MetricsPoint{
			Date:       date,
			TotalValue: totalValue,
			Weights:    weights,
		})
	}

	subLog.Info().Int("NumDates", len(results)).Msg("computed portfolio metrics")
	return results, nil
}
