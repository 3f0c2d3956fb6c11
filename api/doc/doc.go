// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package doc

import (
	"embed"

	"gopkg.in/yaml.v3"
)

// FS embeds the Open API description served under the doc/ route.
//
//go:embed whoosh.yaml
var FS embed.FS

// version is stamped from the info block of the embedded description.
var version string

func init() {
	content, err := FS.ReadFile("whoosh.yaml")
	if err != nil {
		panic(err)
	}

	var parsed struct {
		Info struct {
			Version string `yaml:"version"`
		} `yaml:"info"`
	}
	if err := yaml.Unmarshal(content, &parsed); err != nil {
		panic(err)
	}
	version = parsed.Info.Version
}

// Version reports the version of the embedded Open API description.
func Version() string {
	return version
}
