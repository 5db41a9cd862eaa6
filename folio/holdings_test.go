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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/folio-vault/folio-api/folio"
)

var _ = Describe("BuildInitialHoldings", func() {
	var (
		store *memStore
		svc   *folio.Service
		ctx   context.Context

		portfolio *folio.Portfolio
		stocks    *folio.Asset
		bonds     *folio.Asset
		date      time.Time
	)

	BeforeEach(func() {
		store = newMemStore()
		svc = folio.NewService(store)
		ctx = context.Background()
		date = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

		initialValue := decimal.NewFromInt(1000)
		var err error
		portfolio, err = store.CreatePortfolio(ctx, "growth", &initialValue)
		Expect(err).To(BeNil())

		stocks, err = store.CreateAsset(ctx, "stocks")
		Expect(err).To(BeNil())
		bonds, err = store.CreateAsset(ctx, "bonds")
		Expect(err).To(BeNil())
	})

	Context("with a single full-weight asset", func() {
		BeforeEach(func() {
			_, err := store.CreateWeight(ctx, portfolio.ID, stocks.ID, date, decimal.NewFromInt(1))
			Expect(err).To(BeNil())
			_, err = store.CreatePrice(ctx, stocks.ID, date, decimal.NewFromInt(10))
			Expect(err).To(BeNil())
		})

		It("derives quantity = weight * initial_value / price", func() {
			outcomes, err := svc.BuildInitialHoldings(ctx, portfolio.ID, date)
			Expect(err).To(BeNil())
			Expect(outcomes).To(HaveLen(1))
			Expect(outcomes[0].Status).To(Equal(folio.HoldingCreated))
			Expect(outcomes[0].Holding.Quantity.Equal(decimal.NewFromInt(100))).To(BeTrue())
		})

		It("round-trips the initial value through the holding", func() {
			outcomes, err := svc.BuildInitialHoldings(ctx, portfolio.ID, date)
			Expect(err).To(BeNil())

			holding := outcomes[0].Holding
			price, err := store.PriceOn(ctx, stocks.ID, date)
			Expect(err).To(BeNil())
			Expect(holding.Quantity.Mul(price.Price).Equal(decimal.NewFromInt(1000))).To(BeTrue())
		})
	})

	Context("with two assets split 60/40", func() {
		BeforeEach(func() {
			_, err := store.CreateWeight(ctx, portfolio.ID, stocks.ID, date, decimal.NewFromFloat(0.6))
			Expect(err).To(BeNil())
			_, err = store.CreateWeight(ctx, portfolio.ID, bonds.ID, date, decimal.NewFromFloat(0.4))
			Expect(err).To(BeNil())
			_, err = store.CreatePrice(ctx, stocks.ID, date, decimal.NewFromInt(10))
			Expect(err).To(BeNil())
			_, err = store.CreatePrice(ctx, bonds.ID, date, decimal.NewFromInt(20))
			Expect(err).To(BeNil())
		})

		It("creates one holding per weight", func() {
			outcomes, err := svc.BuildInitialHoldings(ctx, portfolio.ID, date)
			Expect(err).To(BeNil())
			Expect(folio.CreatedHoldings(outcomes)).To(HaveLen(2))

			quantities := make(map[string]decimal.Decimal)
			for _, h := range folio.CreatedHoldings(outcomes) {
				asset, err := store.AssetByID(ctx, h.AssetID)
				Expect(err).To(BeNil())
				quantities[asset.Name] = h.Quantity
			}
			Expect(quantities["stocks"].Equal(decimal.NewFromInt(60))).To(BeTrue())
			Expect(quantities["bonds"].Equal(decimal.NewFromInt(20))).To(BeTrue())
		})

		It("skips an asset whose holding already exists and creates the rest", func() {
			_, err := store.CreateHolding(ctx, portfolio.ID, stocks.ID, date, decimal.NewFromInt(5))
			Expect(err).To(BeNil())

			outcomes, err := svc.BuildInitialHoldings(ctx, portfolio.ID, date)
			Expect(err).To(BeNil())
			Expect(outcomes).To(HaveLen(2))

			created := folio.CreatedHoldings(outcomes)
			Expect(created).To(HaveLen(1))
			Expect(created[0].AssetID).To(Equal(bonds.ID))

			// the pre-existing holding is untouched
			existing, err := store.LatestHoldingAtOrBefore(ctx, portfolio.ID, stocks.ID, date)
			Expect(err).To(BeNil())
			Expect(existing.Quantity.Equal(decimal.NewFromInt(5))).To(BeTrue())
		})

		It("aborts the batch when a price is missing", func() {
			store.prices = store.prices[:1] // drop the bonds price

			_, err := svc.BuildInitialHoldings(ctx, portfolio.ID, date)
			Expect(err).To(MatchError(folio.ErrValidation))
		})
	})

	It("fails when the portfolio has no weights", func() {
		_, err := svc.BuildInitialHoldings(ctx, portfolio.ID, date)
		Expect(err).To(MatchError(folio.ErrNotFound))
	})

	It("fails when the portfolio has no initial value", func() {
		unfunded, err := store.CreatePortfolio(ctx, "unfunded", nil)
		Expect(err).To(BeNil())

		_, err = svc.BuildInitialHoldings(ctx, unfunded.ID, date)
		Expect(err).To(MatchError(folio.ErrValidation))
	})
})
