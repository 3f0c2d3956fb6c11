// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bridgedb

// one row per emitted bridge message. seq packs (version, index), see
// sequence.go.
const messageTableSchema = `
create table if not exists message (
	seq integer primary key,
	ts integer not null,
	requestID blob(32),
	source blob(32),
	amount blob,
	fee blob,
	destAccount blob,
	destChain integer
);

CREATE INDEX if not exists messageTsIndex on message(ts);
CREATE INDEX if not exists messageSourceIndex on message(source);
CREATE INDEX if not exists messageDestChainIndex on message(destChain);
`
