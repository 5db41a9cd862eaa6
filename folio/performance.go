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
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

// PerformanceSummary reports simple statistics over the valuation series.
// Returns are arithmetic period-over-period returns between consecutive
// series points.
type PerformanceSummary struct {
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	NumPeriods       int       `json:"num_periods"`
	CumulativeReturn float64   `json:"cumulative_return"`
	MeanReturn       float64   `json:"mean_return"`
	StdDevReturn     float64   `json:"std_dev_return"`
	MaxDrawdown      float64   `json:"max_drawdown"`
}

// Performance computes summary statistics from the metrics series over
// [start, end]. At least two series points are required.
func (s *Service) Performance(ctx context.Context, portfolioID uuid.UUID, start, end time.Time) (*PerformanceSummary, error) {
	metrics, err := s.Metrics(ctx, portfolioID, start, end)
	if err != nil {
		return nil, err
	}
	if len(metrics) < 2 {
		return nil, fmt.Errorf("need at least 2 valuation points to compute performance, got %d: %w", len(metrics), ErrValidation)
	}

	values := make([]float64, len(metrics))
	for idx, point := range metrics {
		values[idx] = point.TotalValue.InexactFloat64()
	}

	returns := make([]float64, len(values)-1)
	for idx := 1; idx < len(values); idx++ {
		returns[idx-1] = values[idx]/values[idx-1] - 1.0
	}

	// the sample standard deviation of a single return is undefined (NaN,
	// which does not JSON-encode); report 0 until there are two returns
	stdDev := 0.0
	if len(returns) > 1 {
		stdDev = stat.StdDev(returns, nil)
	}

	return &PerformanceSummary{
		StartDate:        metrics[0].Date,
		EndDate:          metrics[len(metrics)-1].Date,
		NumPeriods:       len(returns),
		CumulativeReturn: values[len(values)-1]/values[0] - 1.0,
		MeanReturn:       stat.Mean(returns, nil),
		StdDevReturn:     stdDev,
		MaxDrawdown:      maxDrawdown(values),
	}, nil
}

// maxDrawdown is the largest peak-to-trough loss fraction in the series,
// reported as a negative number (0 when the series never declines).
func maxDrawdown(values []float64) float64 {
	peak := values[0]
	maxDD := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		dd := v/peak - 1.0
		if dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
