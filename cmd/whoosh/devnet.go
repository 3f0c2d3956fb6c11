// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"crypto/ecdsa"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/whoosh-bridge/whoosh/whoosh"
)

// devChainTag tags the throwaway dev deployment.
const devChainTag = 0xf6

// devAccountBalance funds each dev account on bootstrap.
const devAccountBalance = "1000000000000"

// DevAccount account for development.
type DevAccount struct {
	Address    whoosh.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for dev mode.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"7b3261febcd26d5e0056171280cff065f1d39adc3dd9f42bf922475a6e68bb2b",
		"521fb4c7a1b7b2a5563da3d5cd22b26b6f0cbad0b5d2e52d64b448de9b85f334",
		"134d43044df337db9a4cd049319d1fdcbbde940be44d1bdd7e44b37b77d46218",
		"e487923f63e5c2b576bd3ed96e0c9a27302cf2b5ab6a5fcff23b2df0f0896d5e",
		"93791fab8378d2243f3e6a0fd2830dd04b1dac471bd40a527643029f38b38bc4",
		"41829e2a8a0617e5e0402e23a4b6430ccb9b158fc42cbd43dbea046a65c617d9",
		"2b301153abae0b0cdbbba6a7087cbd949ee5e5e4dd1a29c1067ee4a2d4b0e689",
		"0ca204d33af2c694812f880c1a14cbda64abb8a42da049676cc1e91ed83b5ecd",
		"6ba3b9e59ffaf2159a0b9d05d47dfba187eb5b131c2e368e82b86b1a301a4c7d",
		"a8cf16ec0b082d76fdc491ffe5f83aea52ee30bc0b43a0e9f2b81a5e66d48c42",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		accs = append(accs, DevAccount{whoosh.AddressFromPubKey(&pk.PublicKey), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// devVaultConfig is the implied config of dev mode. The first dev account
// owns the vault.
func devVaultConfig() *vaultConfig {
	config := vaultConfig{
		ChainTag: devChainTag,
		Owner:    DevAccounts()[0].Address.String(),
	}
	for _, acc := range DevAccounts() {
		config.Allocations = append(config.Allocations, allocationConfig{
			Address: acc.Address.String(),
			Balance: devAccountBalance,
		})
	}
	return &config
}
