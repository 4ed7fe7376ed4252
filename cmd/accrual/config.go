// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/accrual/engine"
	"github.com/vechain/accrual/thor"
)

// Amount is a decimal or 0x-prefixed integer. An "ether" suffix scales it by 1e18.
type Amount struct {
	*big.Int
}

func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	v, err := parseAmount(node.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d", node.Line)
	}
	a.Int = v
	return nil
}

func parseAmount(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	scaled := false
	if trimmed, ok := strings.CutSuffix(s, "ether"); ok {
		s, scaled = strings.TrimSpace(trimmed), true
	}
	v, ok := math.ParseBig256(s)
	if !ok {
		return nil, errors.Errorf("invalid amount %q", s)
	}
	if scaled {
		v.Mul(v, thor.Scale)
	}
	return v, nil
}

// Value returns the amount, zero when unset.
func (a Amount) Value() *big.Int {
	if a.Int == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.Int)
}

type Account struct {
	Address string `yaml:"address"`
	Native  Amount `yaml:"native"`
	Stake   Amount `yaml:"stake"`
	Reward  Amount `yaml:"reward"`
}

type Payee struct {
	Address string `yaml:"address"`
	Shares  uint64 `yaml:"shares"`
}

type StakingConfig struct {
	RewardsDuration uint64 `yaml:"rewardsDuration"`
}

type FeesConfig struct {
	OraclePrice          Amount  `yaml:"oraclePrice"`
	RequiredFeeUSD       Amount  `yaml:"requiredFeeUSD"`
	MinFee               Amount  `yaml:"minFee"`
	EpochLength          uint64  `yaml:"epochLength"`
	GraceLength          uint64  `yaml:"graceLength"`
	DistributionInterval uint64  `yaml:"distributionInterval"`
	Channels             []Payee `yaml:"channels"`
}

type KeeperConfig struct {
	Caller   string        `yaml:"caller"`
	Interval time.Duration `yaml:"interval"`
}

// Config seeds a fresh state. Zero values keep the contract defaults.
type Config struct {
	Admin       string        `yaml:"admin"`
	GenesisTime uint64        `yaml:"genesisTime"`
	Accounts    []Account     `yaml:"accounts"`
	Staking     StakingConfig `yaml:"staking"`
	Fees        FeesConfig    `yaml:"fees"`
	Validators  []Payee       `yaml:"validators"`
	Keeper      KeeperConfig  `yaml:"keeper"`
}

func defaultConfig() *Config {
	return &Config{
		Admin:       "admin",
		GenesisTime: uint64(time.Now().Unix()),
		Keeper:      KeeperConfig{Caller: "keeper", Interval: time.Minute},
	}
}

// loadConfig reads the YAML file at path over the defaults. An empty path returns the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Admin == "" {
		return errors.New("admin is required")
	}
	for i, p := range append(append([]Payee{}, c.Validators...), c.Fees.Channels...) {
		if p.Address == "" {
			return errors.Errorf("payee %d: address is required", i)
		}
		if p.Shares == 0 {
			return errors.Errorf("payee %s: shares must be positive", p.Address)
		}
	}
	if len(c.Fees.Channels) > thor.MaxChannels {
		return errors.Errorf("at most %d fee channels", thor.MaxChannels)
	}
	return nil
}

func (c *Config) admin() thor.Address {
	return thor.NamedAddress(c.Admin)
}

// apply writes the configuration through the admin account in one transaction.
func (c *Config) apply(e *engine.Engine) error {
	admin := c.admin()
	st := e.Runtime().State()

	for _, acc := range c.Accounts {
		addr := thor.NamedAddress(acc.Address)
		if err := st.SetBalance(addr, acc.Native.Value()); err != nil {
			return err
		}
		if acc.Stake.Value().Sign() > 0 {
			if err := e.StakeToken.Mint(admin, addr, acc.Stake.Value()); err != nil {
				return errors.Wrapf(err, "mint stake token to %s", acc.Address)
			}
		}
		if acc.Reward.Value().Sign() > 0 {
			if err := e.RewardToken.Mint(admin, addr, acc.Reward.Value()); err != nil {
				return errors.Wrapf(err, "mint reward token to %s", acc.Address)
			}
		}
	}

	if c.Staking.RewardsDuration > 0 {
		if err := e.Staking.SetRewardsDuration(admin, c.Staking.RewardsDuration); err != nil {
			return errors.Wrap(err, "rewards duration")
		}
	}

	fees := c.Fees
	if fees.OraclePrice.Value().Sign() > 0 {
		if err := e.Oracle.Update(admin, fees.OraclePrice.Value(), e.Runtime().BlockTime()); err != nil {
			return errors.Wrap(err, "oracle price")
		}
	}
	if err := e.Fees.SetRequiredFeeUSD(admin, fees.RequiredFeeUSD.Value()); err != nil {
		return errors.Wrap(err, "required fee")
	}
	if err := e.Fees.SetMinFee(admin, fees.MinFee.Value()); err != nil {
		return errors.Wrap(err, "min fee")
	}
	for _, o := range []struct {
		name  string
		value uint64
		set   func(thor.Address, uint64) error
	}{
		{"epoch length", fees.EpochLength, e.Fees.SetEpochLength},
		{"grace length", fees.GraceLength, e.Fees.SetGraceLength},
		{"distribution interval", fees.DistributionInterval, e.Fees.SetDistributionInterval},
	} {
		if o.value == 0 {
			continue
		}
		if err := o.set(admin, o.value); err != nil {
			return errors.Wrap(err, o.name)
		}
	}
	for _, ch := range fees.Channels {
		if err := e.Fees.AddChannel(admin, thor.NamedAddress(ch.Address), ch.Shares); err != nil {
			return errors.Wrapf(err, "channel %s", ch.Address)
		}
	}
	for _, v := range c.Validators {
		if err := e.Validators.AddValidator(admin, thor.NamedAddress(v.Address), v.Shares); err != nil {
			return errors.Wrapf(err, "validator %s", v.Address)
		}
	}
	return nil
}
