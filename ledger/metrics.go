// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import "github.com/whoosh-bridge/whoosh/metrics"

var (
	metricRequestCount     = metrics.LazyLoadCounterVec("ledger_request_count", []string{"kind", "outcome"})
	metricExecuteDuration  = metrics.LazyLoadHistogram("ledger_execute_duration_ms", metrics.Bucket10s)
	metricHeadVersion      = metrics.LazyLoadGauge("ledger_head_version")
	metricPoolBalance      = metrics.LazyLoadGauge("ledger_pool_balance")
	metricTotalStaked      = metrics.LazyLoadGauge("ledger_total_staked")
	metricJournalTruncated = metrics.LazyLoadCounter("ledger_journal_truncate_count")
)
