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

package folio_test

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/folio-vault/folio-api/folio"
)

var _ = Describe("Metrics", func() {
	var (
		store *memStore
		svc   *folio.Service
		ctx   context.Context

		portfolio *folio.Portfolio
		stocks    *folio.Asset
		bonds     *folio.Asset
		day0      time.Time
		day1      time.Time
		day2      time.Time
	)

	BeforeEach(func() {
		store = newMemStore()
		svc = folio.NewService(store)
		ctx = context.Background()
		day0 = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
		day1 = time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)
		day2 = time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC)

		var err error
		portfolio, err = store.CreatePortfolio(ctx, "growth", nil)
		Expect(err).To(BeNil())
		stocks, err = store.CreateAsset(ctx, "stocks")
		Expect(err).To(BeNil())
		bonds, err = store.CreateAsset(ctx, "bonds")
		Expect(err).To(BeNil())

		// 50 units of stocks and 25 units of bonds held from day0
		_, err = store.CreateHolding(ctx, portfolio.ID, stocks.ID, day0, decimal.NewFromInt(50))
		Expect(err).To(BeNil())
		_, err = store.CreateHolding(ctx, portfolio.ID, bonds.ID, day0, decimal.NewFromInt(25))
		Expect(err).To(BeNil())

		_, err = store.CreatePrice(ctx, stocks.ID, day0, decimal.NewFromInt(10))
		Expect(err).To(BeNil())
		_, err = store.CreatePrice(ctx, bonds.ID, day0, decimal.NewFromInt(20))
		Expect(err).To(BeNil())
		_, err = store.CreatePrice(ctx, stocks.ID, day1, decimal.NewFromInt(12))
		Expect(err).To(BeNil())
		_, err = store.CreatePrice(ctx, bonds.ID, day1, decimal.NewFromInt(24))
		Expect(err).To(BeNil())
	})

	It("values the frozen composition at each date's prices", func() {
		metrics, err := svc.Metrics(ctx, portfolio.ID, day0, day1)
		Expect(err).To(BeNil())
		Expect(metrics).To(HaveLen(2))

		Expect(metrics[0].Date).To(Equal(day0))
		Expect(metrics[0].TotalValue.Equal(decimal.NewFromInt(1000))).To(BeTrue())
		Expect(metrics[1].Date).To(Equal(day1))
		Expect(metrics[1].TotalValue.Equal(decimal.NewFromInt(1200))).To(BeTrue())
	})

	It("emits weights as fractions of total value that sum to 1", func() {
		metrics, err := svc.Metrics(ctx, portfolio.ID, day0, day1)
		Expect(err).To(BeNil())

		for _, point := range metrics {
			sum := decimal.Zero
			for _, w := range point.Weights {
				sum = sum.Add(w)
			}
			Expect(sum.Equal(decimal.NewFromInt(1))).To(BeTrue())
		}

		Expect(metrics[0].Weights["stocks"].Equal(decimal.NewFromFloat(0.5))).To(BeTrue())
		Expect(metrics[0].Weights["bonds"].Equal(decimal.NewFromFloat(0.5))).To(BeTrue())
	})

	It("accepts a start equal to the reference date", func() {
		metrics, err := svc.Metrics(ctx, portfolio.ID, day0, day0)
		Expect(err).To(BeNil())
		Expect(metrics).To(HaveLen(1))
	})

	It("rejects a start before the reference date", func() {
		before := day0.AddDate(0, 0, -1)
		_, err := svc.Metrics(ctx, portfolio.ID, before, day1)
		Expect(err).To(MatchError(folio.ErrValidation))
	})

	It("produces no row for dates where no held asset has a price", func() {
		metrics, err := svc.Metrics(ctx, portfolio.ID, day0, day2)
		Expect(err).To(BeNil())
		Expect(metrics).To(HaveLen(2)) // day2 has no prices
	})

	It("uses only the priced assets on a partially priced date", func() {
		_, err := store.CreatePrice(ctx, stocks.ID, day2, decimal.NewFromInt(14))
		Expect(err).To(BeNil())

		metrics, err := svc.Metrics(ctx, portfolio.ID, day2, day2)
		Expect(err).To(BeNil())
		Expect(metrics).To(HaveLen(1))
		Expect(metrics[0].TotalValue.Equal(decimal.NewFromInt(700))).To(BeTrue())
		Expect(metrics[0].Weights).To(HaveLen(1))
		Expect(metrics[0].Weights["stocks"].Equal(decimal.NewFromInt(1))).To(BeTrue())
	})

	It("does not re-derive quantities from later transactions' holdings", func() {
		// a holding dated after the reference date is not part of the frozen
		// composition
		other, err := store.CreateAsset(ctx, "gold")
		Expect(err).To(BeNil())
		_, err = store.CreateHolding(ctx, portfolio.ID, other.ID, day1, decimal.NewFromInt(10))
		Expect(err).To(BeNil())
		_, err = store.CreatePrice(ctx, other.ID, day1, decimal.NewFromInt(100))
		Expect(err).To(BeNil())

		metrics, err := svc.Metrics(ctx, portfolio.ID, day1, day1)
		Expect(err).To(BeNil())
		Expect(metrics).To(HaveLen(1))
		Expect(metrics[0].TotalValue.Equal(decimal.NewFromInt(1200))).To(BeTrue())
		Expect(metrics[0].Weights).NotTo(HaveKey("gold"))
	})

	It("fails for a portfolio with no holdings", func() {
		empty, err := store.CreatePortfolio(ctx, "empty", nil)
		Expect(err).To(BeNil())

		_, err = svc.Metrics(ctx, empty.ID, day0, day1)
		Expect(err).To(MatchError(folio.ErrNotFound))
	})
})

var _ = Describe("Performance", func() {
	var (
		store *memStore
		svc   *folio.Service
		ctx   context.Context

		portfolio *folio.Portfolio
		stocks    *folio.Asset
		day0      time.Time
	)

	BeforeEach(func() {
		store = newMemStore()
		svc = folio.NewService(store)
		ctx = context.Background()
		day0 = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

		var err error
		portfolio, err = store.CreatePortfolio(ctx, "growth", nil)
		Expect(err).To(BeNil())
		stocks, err = store.CreateAsset(ctx, "stocks")
		Expect(err).To(BeNil())
		_, err = store.CreateHolding(ctx, portfolio.ID, stocks.ID, day0, decimal.NewFromInt(100))
		Expect(err).To(BeNil())
	})

	It("computes returns and drawdown over the series", func() {
		// total values 1000, 1200, 900
		for idx, price := range []int64{10, 12, 9} {
			_, err := store.CreatePrice(ctx, stocks.ID, day0.AddDate(0, 0, idx), decimal.NewFromInt(price))
			Expect(err).To(BeNil())
		}

		summary, err := svc.Performance(ctx, portfolio.ID, day0, day0.AddDate(0, 0, 2))
		Expect(err).To(BeNil())
		Expect(summary.NumPeriods).To(Equal(2))
		Expect(summary.StartDate).To(Equal(day0))
		Expect(summary.EndDate).To(Equal(day0.AddDate(0, 0, 2)))
		Expect(summary.CumulativeReturn).To(BeNumerically("~", -0.1, 1e-9))
		Expect(summary.MeanReturn).To(BeNumerically("~", -0.025, 1e-9))
		Expect(summary.MaxDrawdown).To(BeNumerically("~", -0.25, 1e-9))
	})

	It("reports zero drawdown for a rising series", func() {
		for idx, price := range []int64{10, 11, 12} {
			_, err := store.CreatePrice(ctx, stocks.ID, day0.AddDate(0, 0, idx), decimal.NewFromInt(price))
			Expect(err).To(BeNil())
		}

		summary, err := svc.Performance(ctx, portfolio.ID, day0, day0.AddDate(0, 0, 2))
		Expect(err).To(BeNil())
		Expect(summary.MaxDrawdown).To(BeZero())
		Expect(summary.CumulativeReturn).To(BeNumerically("~", 0.2, 1e-9))
	})

	It("reports a zero std dev for the minimum two-point series", func() {
		// a single return has no sample standard deviation; the summary must
		// still hold finite values and encode as JSON
		for idx, price := range []int64{10, 12} {
			_, err := store.CreatePrice(ctx, stocks.ID, day0.AddDate(0, 0, idx), decimal.NewFromInt(price))
			Expect(err).To(BeNil())
		}

		summary, err := svc.Performance(ctx, portfolio.ID, day0, day0.AddDate(0, 0, 1))
		Expect(err).To(BeNil())
		Expect(summary.NumPeriods).To(Equal(1))
		Expect(summary.StdDevReturn).To(BeZero())
		Expect(summary.MeanReturn).To(BeNumerically("~", 0.2, 1e-9))

		_, err = json.Marshal(summary)
		Expect(err).To(BeNil())
	})

	It("requires at least two valuation points", func() {
		_, err := store.CreatePrice(ctx, stocks.ID, day0, decimal.NewFromInt(10))
		Expect(err).To(BeNil())

		_, err = svc.Performance(ctx, portfolio.ID, day0, day0)
		Expect(err).To(MatchError(folio.ErrValidation))
	})
})
