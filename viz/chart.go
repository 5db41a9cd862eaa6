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

// Package viz renders valuation metrics as PNG charts.
package viz

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/folio-vault/folio-api/folio"
)

var palette = []string{
	"2563eb", "16a34a", "dc2626", "9333ea", "ea580c",
	"0891b2", "4d7c0f", "be185d", "854d0e", "475569",
}

// RenderMetricsChart renders the valuation series as a PNG: the total-value
// line on the primary axis and one weight series per asset on the secondary
// axis. Returns raw PNG bytes; at least 2 data points are required.
func RenderMetricsChart(portfolioName string, metrics []*folio.MetricsPoint) ([]byte, error) {
	if len(metrics) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d: %w", len(metrics), folio.ErrValidation)
	}

	xValues := make([]time.Time, len(metrics))
	valueY := make([]float64, len(metrics))
	assetNames := make(map[string]bool)

	for idx, point := range metrics {
		xValues[idx] = point.Date
		valueY[idx] = point.TotalValue.InexactFloat64()
		for name := range point.Weights {
			assetNames[name] = true
		}
	}

	names := make([]string, 0, len(assetNames))
	for name := range assetNames {
		names = append(names, name)
	}
	sort.Strings(names)

	series := make([]chart.Series, 0, len(names)+1)
	series = append(series, chart.TimeSeries{
		Name: "Total Value",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("1f2937"),
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: valueY,
	})

	for idx, name := range names {
		weightY := make([]float64, len(metrics))
		for pidx, point := range metrics {
			// a missing weight means the asset had no price on that date
			if w, ok := point.Weights[name]; ok {
				weightY[pidx] = w.InexactFloat64()
			}
		}
		series = append(series, chart.TimeSeries{
			Name: name,
			Style: chart.Style{
				StrokeColor:     drawing.ColorFromHex(palette[idx%len(palette)]),
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{5.0, 3.0},
			},
			YAxis:   chart.YAxisSecondary,
			XValues: xValues,
			YValues: weightY,
		})
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Portfolio %s", portfolioName),
		Width:  900,
		Height: 500,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		YAxisSecondary: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0.0, Max: 1.0},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f%%", f*100)
				}
				return ""
			},
		},
		Series: series,
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
