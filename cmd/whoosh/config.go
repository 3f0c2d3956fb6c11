// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"math/big"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/whoosh-bridge/whoosh/ledger"
	"github.com/whoosh-bridge/whoosh/vault"
	"github.com/whoosh-bridge/whoosh/whoosh"
	cli "gopkg.in/urfave/cli.v1"
)

type paramsConfig struct {
	MinTransferAmount string `yaml:"minTransferAmount,omitempty"`
	MinServiceFee     string `yaml:"minServiceFee,omitempty"`
}

type allocationConfig struct {
	Address string `yaml:"address"`
	Balance string `yaml:"balance"`
}

// vaultConfig is the operator-facing deployment config.
type vaultConfig struct {
	ChainTag    uint8              `yaml:"chainTag"`
	Owner       string             `yaml:"owner"`
	Params      paramsConfig       `yaml:"params,omitempty"`
	Allocations []allocationConfig `yaml:"allocations,omitempty"`
}

func loadVaultConfig(ctx *cli.Context) *vaultConfig {
	if ctx.Bool(devFlag.Name) {
		return devVaultConfig()
	}

	path := ctx.String(configFlag.Name)
	if path == "" {
		fatal(fmt.Sprintf("config file not specified, use -%s to specify", configFlag.Name))
	}

	file, err := os.Open(path)
	if err != nil {
		fatal(fmt.Sprintf("open config file: %v", err))
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var config vaultConfig
	if err := decoder.Decode(&config); err != nil {
		fatal(fmt.Sprintf("decode config file: %v", err))
	}

	if config.ChainTag == 0 {
		fatal("config: chainTag not set")
	}
	if config.Owner == "" {
		fatal("config: owner not set")
	}
	return &config
}

// ledgerConfig converts the textual config into ledger settings.
func (c *vaultConfig) ledgerConfig() (ledger.Config, error) {
	owner, err := whoosh.ParseAddress(c.Owner)
	if err != nil {
		return ledger.Config{}, fmt.Errorf("owner: %w", err)
	}

	var params vault.Params
	if c.Params.MinTransferAmount != "" {
		if params.MinTransferAmount, err = parseAmount(c.Params.MinTransferAmount); err != nil {
			return ledger.Config{}, fmt.Errorf("params.minTransferAmount: %w", err)
		}
	}
	if c.Params.MinServiceFee != "" {
		if params.MinServiceFee, err = parseAmount(c.Params.MinServiceFee); err != nil {
			return ledger.Config{}, fmt.Errorf("params.minServiceFee: %w", err)
		}
	}

	var allocs []ledger.Allocation
	for i, a := range c.Allocations {
		addr, err := whoosh.ParseAddress(a.Address)
		if err != nil {
			return ledger.Config{}, fmt.Errorf("allocations[%d].address: %w", i, err)
		}
		balance, err := parseAmount(a.Balance)
		if err != nil {
			return ledger.Config{}, fmt.Errorf("allocations[%d].balance: %w", i, err)
		}
		allocs = append(allocs, ledger.Allocation{Address: *addr, Balance: balance})
	}

	return ledger.Config{
		ChainTag:    c.ChainTag,
		Owner:       *owner,
		Params:      params,
		Allocations: allocs,
	}, nil
}

func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("malformed amount %q", s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %q", s)
	}
	return v, nil
}
