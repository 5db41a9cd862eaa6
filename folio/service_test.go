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

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/folio-vault/folio-api/folio"
)

var _ = Describe("PortfolioAssets", func() {
	var (
		store *memStore
		svc   *folio.Service
		ctx   context.Context

		portfolio *folio.Portfolio
		stocks    *folio.Asset
		bonds     *folio.Asset
		day0      time.Time
		day1      time.Time
	)

	BeforeEach(func() {
		store = newMemStore()
		svc = folio.NewService(store)
		ctx = context.Background()
		day0 = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
		day1 = time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)

		var err error
		portfolio, err = store.CreatePortfolio(ctx, "growth", nil)
		Expect(err).To(BeNil())
		stocks, err = store.CreateAsset(ctx, "stocks")
		Expect(err).To(BeNil())
		bonds, err = store.CreateAsset(ctx, "bonds")
		Expect(err).To(BeNil())

		_, err = store.CreateHolding(ctx, portfolio.ID, stocks.ID, day0, decimal.NewFromInt(50))
		Expect(err).To(BeNil())
	})

	It("values each holding at the asset's most recent price", func() {
		_, err := store.CreatePrice(ctx, stocks.ID, day0, decimal.NewFromInt(10))
		Expect(err).To(BeNil())
		_, err = store.CreatePrice(ctx, stocks.ID, day1, decimal.NewFromInt(12))
		Expect(err).To(BeNil())

		positions, err := svc.PortfolioAssets(ctx, portfolio.ID)
		Expect(err).To(BeNil())
		Expect(positions).To(HaveLen(1))
		Expect(positions[0].AssetName).To(Equal("stocks"))
		Expect(positions[0].Price.Equal(decimal.NewFromInt(12))).To(BeTrue())
		Expect(positions[0].Value.Equal(decimal.NewFromInt(600))).To(BeTrue())
		Expect(positions[0].Date).To(Equal(day1))
	})

	It("leaves out assets with no price at all", func() {
		_, err := store.CreateHolding(ctx, portfolio.ID, bonds.ID, day0, decimal.NewFromInt(25))
		Expect(err).To(BeNil())
		_, err = store.CreatePrice(ctx, stocks.ID, day0, decimal.NewFromInt(10))
		Expect(err).To(BeNil())

		positions, err := svc.PortfolioAssets(ctx, portfolio.ID)
		Expect(err).To(BeNil())
		Expect(positions).To(HaveLen(1))
		Expect(positions[0].AssetName).To(Equal("stocks"))
	})

	It("returns an empty report for a portfolio with no holdings", func() {
		empty, err := store.CreatePortfolio(ctx, "empty", nil)
		Expect(err).To(BeNil())

		positions, err := svc.PortfolioAssets(ctx, empty.ID)
		Expect(err).To(BeNil())
		Expect(positions).To(BeEmpty())
	})

	It("fails for an unknown portfolio", func() {
		_, err := svc.PortfolioAssets(ctx, uuid.New())
		Expect(err).To(MatchError(folio.ErrNotFound))
	})
})
