// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package messages exposes filtered access to the journaled bridge messages.
package messages

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/whoosh-bridge/whoosh/api/restutil"
	"github.com/whoosh-bridge/whoosh/api/types"
	"github.com/whoosh-bridge/whoosh/bridgedb"
)

type Messages struct {
	db    *bridgedb.BridgeDB
	limit uint64
}

func New(db *bridgedb.BridgeDB, messagesLimit uint64) *Messages {
	return &Messages{
		db,
		messagesLimit,
	}
}

func (m *Messages) filter(ctx context.Context, mf *types.MessageFilter) ([]*types.Message, error) {
	msgs, err := m.db.Filter(ctx, types.ConvertMessageFilter(mf))
	if err != nil {
		return nil, err
	}
	converted := make([]*types.Message, len(msgs))
	for i, msg := range msgs {
		converted[i] = types.ConvertMessage(msg)
	}
	return converted, nil
}

func (m *Messages) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter types.MessageFilter
	if err := restutil.ParseJSON(req.Body, &filter); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := filter.Options.Validate(m.limit); err != nil {
		return restutil.BadRequest(err)
	}
	if err := filter.Range.Validate(); err != nil {
		return restutil.BadRequest(err)
	}
	if filter.Order != "" && filter.Order != bridgedb.ASC && filter.Order != bridgedb.DESC {
		return restutil.BadRequest(fmt.Errorf("order must be either 'asc' or 'desc', got '%s'", filter.Order))
	}
	// reject null element in CriteriaSet, {} will be unmarshaled to default value and will be accepted/handled by the filter engine
	for i, criterion := range filter.CriteriaSet {
		if criterion == nil {
			return restutil.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
	}
	if filter.Options == nil {
		filter.Options = &types.Options{}
	}
	if filter.Options.Limit == nil {
		// set to the limit +1 to detect whether there are more messages
		// than the allowed maximum
		limit := m.limit + 1
		filter.Options.Limit = &limit
	}

	msgs, err := m.filter(req.Context(), &filter)
	if err != nil {
		return err
	}

	// ensure the result size is less than the configured limit
	if len(msgs) > int(m.limit) {
		return restutil.Forbidden(fmt.Errorf("the number of filtered messages exceeds the maximum allowed value of %d, please use pagination", m.limit))
	}

	return restutil.WriteJSON(w, msgs)
}

func (m *Messages) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /messages").
		HandlerFunc(restutil.WrapHandlerFunc(m.handleFilter))
}
