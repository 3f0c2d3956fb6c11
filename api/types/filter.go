// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"fmt"
	"math"

	"github.com/whoosh-bridge/whoosh/bridgedb"
	"github.com/whoosh-bridge/whoosh/whoosh"
)

// MessageCriteria matches messages by source account and/or destination
// chain. Criteria in a set are OR-ed, fields within one criteria are AND-ed.
type MessageCriteria struct {
	Source    *whoosh.Address `json:"source"`
	DestChain *uint16         `json:"destChain"`
}

type Options struct {
	Offset uint64  `json:"offset,omitempty"`
	Limit  *uint64 `json:"limit,omitempty"`
}

func (o *Options) Validate(limit uint64) error {
	if o == nil {
		return nil
	}
	if o.Limit != nil && *o.Limit > limit {
		return fmt.Errorf("options.limit exceeds the maximum allowed value of %d", limit)
	}
	if o.Offset > math.MaxInt64 {
		return fmt.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64))
	}

	return nil
}

type RangeType string

const (
	VersionRangeType RangeType = "version"
	TimeRangeType    RangeType = "time"
)

type Range struct {
	Unit RangeType `json:"unit,omitempty"`
	From *uint64   `json:"from,omitempty"`
	To   *uint64   `json:"to,omitempty"`
}

func (r *Range) Validate() error {
	if r == nil {
		return nil
	}
	if r.Unit != "" {
		if r.Unit != VersionRangeType && r.Unit != TimeRangeType {
			return fmt.Errorf("filter.Range.Unit must be either 'version' or 'time', got '%s'", r.Unit)
		}
	}

	if r.From == nil || r.To == nil {
		return nil
	}
	if *r.From > *r.To {
		return fmt.Errorf("filter.Range.To must be greater than or equal to filter.Range.From")
	}

	return nil
}

type MessageFilter struct {
	RequestID   *whoosh.Bytes32    `json:"requestID,omitempty"`
	CriteriaSet []*MessageCriteria `json:"criteriaSet,omitempty"`
	Range       *Range             `json:"range,omitempty"`
	Options     *Options           `json:"options,omitempty"`
	Order       bridgedb.Order     `json:"order,omitempty"`
}

// ConvertMessageFilter converts a json format filter into a journal filter.
// Options must be non-nil with Limit set, validated or defaulted at the API
// level.
func ConvertMessageFilter(filter *MessageFilter) *bridgedb.MessageFilter {
	f := &bridgedb.MessageFilter{
		RequestID: filter.RequestID,
		Options: &bridgedb.Options{
			Offset: filter.Options.Offset,
			Limit:  *filter.Options.Limit,
		},
		Order: filter.Order,
	}
	if filter.Range != nil {
		r := &bridgedb.Range{
			Unit: bridgedb.RangeType(filter.Range.Unit),
			To:   math.MaxInt64,
		}
		if r.Unit == "" {
			r.Unit = bridgedb.Version
		}
		if filter.Range.From != nil {
			r.From = *filter.Range.From
		}
		if filter.Range.To != nil {
			r.To = *filter.Range.To
		}
		f.Range = r
	}
	if len(filter.CriteriaSet) > 0 {
		f.CriteriaSet = make([]*bridgedb.MessageCriteria, len(filter.CriteriaSet))
		for i, criterion := range filter.CriteriaSet {
			f.CriteriaSet[i] = &bridgedb.MessageCriteria{
				Source:    criterion.Source,
				DestChain: criterion.DestChain,
			}
		}
	}
	return f
}
