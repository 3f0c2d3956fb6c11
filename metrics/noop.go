// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

// noop is the backend active before InitializePrometheusMetrics. Every meter
// it hands out discards its samples.
type noop struct{}

func (noop) GetOrCreateCountMeter(string) CountMeter { return nopMeter{} }

func (noop) GetOrCreateCountVecMeter(string, []string) CountVecMeter { return nopMeter{} }

func (noop) GetOrCreateGaugeMeter(string) GaugeMeter { return nopMeter{} }

func (noop) GetOrCreateGaugeVecMeter(string, []string) GaugeVecMeter { return nopMeter{} }

func (noop) GetOrCreateHistogramMeter(string, []int64) HistogramMeter { return nopMeter{} }

func (noop) GetOrCreateHistogramVecMeter(string, []string, []int64) HistogramVecMeter {
	return nopMeter{}
}

func (noop) GetOrCreateHandler() http.Handler { return nil }

// nopMeter satisfies every meter interface.
type nopMeter struct{}

func (nopMeter) Add(int64) {}

func (nopMeter) Set(int64) {}

func (nopMeter) Observe(int64) {}

func (nopMeter) AddWithLabel(int64, map[string]string) {}

func (nopMeter) SetWithLabel(int64, map[string]string) {}

func (nopMeter) ObserveWithLabels(int64, map[string]string) {}
