// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import "github.com/whoosh-bridge/whoosh/metrics"

var metricCacheHitMiss = metrics.LazyLoadGaugeVec("subscriptions_cache_hit_miss_count", []string{"type", "event"})
