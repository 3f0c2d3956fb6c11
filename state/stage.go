// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

// Stage abstracts the set of journaled changes ready to be committed.
type Stage struct {
	commit func() error
}

// Commit commits all changes into the underlying store in one batch.
func (s *Stage) Commit() error {
	if err := s.commit(); err != nil {
		return &Error{err}
	}
	return nil
}
