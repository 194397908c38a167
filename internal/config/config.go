// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rovshanmuradov/tokensim/internal/dex/cpmm"
	"github.com/rovshanmuradov/tokensim/internal/fee"
	"github.com/rovshanmuradov/tokensim/internal/token"
)

const EnvPrefix = "TOKENSIM"

// Имена кластеров; custom требует rpc_url
const (
	NetworkMainnet = "mainnet-beta"
	NetworkDevnet  = "devnet"
	NetworkTestnet = "testnet"
	NetworkCustom  = "custom"
)

// Действия сценария
const (
	ActionSwap     = "swap"
	ActionDeposit  = "deposit"
	ActionWithdraw = "withdraw"
	ActionRevoke   = "revoke"
	ActionEnable   = "enable"
	ActionUndo     = "undo"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Network  NetworkConfig  `mapstructure:"network"`
	Scenario ScenarioConfig `mapstructure:"scenario"`
}

type AppConfig struct {
	DebugLogging bool   `mapstructure:"debug_logging"`
	LogFile      string `mapstructure:"log_file"`
	Output       string `mapstructure:"output" validate:"oneof=text json yaml"`
}

type NetworkConfig struct {
	Name   string `mapstructure:"name" validate:"oneof=mainnet-beta devnet testnet custom"`
	RPCURL string `mapstructure:"rpc_url" validate:"required_if=Name custom,omitempty,url"`
}

// Endpoint возвращает RPC адрес кластера. Используется только как метка в превью.
func (n NetworkConfig) Endpoint() string {
	switch n.Name {
	case NetworkDevnet:
		return rpc.DevNet_RPC
	case NetworkTestnet:
		return rpc.TestNet_RPC
	case NetworkCustom:
		return n.RPCURL
	default:
		return rpc.MainNetBeta_RPC
	}
}

type ScenarioConfig struct {
	Token  token.RawConfig `mapstructure:"token"`
	Revoke []string        `mapstructure:"revoke" validate:"dive,oneof=mint freeze update"`
	Fee    FeeConfig       `mapstructure:"fee"`
	Pool   PoolConfig      `mapstructure:"pool"`
	Steps  []Step          `mapstructure:"steps" validate:"dive"`
}

// FeeConfig: если lamports = 0, стоимость считает планировщик по приоритету
type FeeConfig struct {
	Lamports        uint64 `mapstructure:"lamports"`
	Priority        string `mapstructure:"priority" validate:"omitempty,oneof=none low medium high extreme"`
	ExchangeRate    string `mapstructure:"exchange_rate" validate:"required,decimal"`
	FiatCurrency    string `mapstructure:"fiat_currency" validate:"required,alpha,len=3"`
	NativePrecision int32  `mapstructure:"native_precision" validate:"gte=0,lte=18"`
	FiatPrecision   int32  `mapstructure:"fiat_precision" validate:"gte=0,lte=18"`
}

// Rate парсит курс SOL к фиатной валюте
func (f FeeConfig) Rate() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(f.ExchangeRate))
}

func (f FeeConfig) Options() fee.Options {
	return fee.Options{
		NativePrecision: f.NativePrecision,
		FiatPrecision:   f.FiatPrecision,
		FiatCurrency:    strings.ToUpper(f.FiatCurrency),
	}
}

type PoolConfig struct {
	SeedA               uint64 `mapstructure:"seed_a"`
	SeedB               uint64 `mapstructure:"seed_b"`
	FeeBps              uint16 `mapstructure:"fee_bps" validate:"lt=10000"`
	DepositToleranceBps uint16 `mapstructure:"deposit_tolerance_bps" validate:"lte=10000"`
}

// Enabled - пул задан хотя бы одним резервом; Validate требует оба
func (p PoolConfig) Enabled() bool {
	return p.SeedA > 0 || p.SeedB > 0
}

func (p PoolConfig) Params() cpmm.Params {
	return cpmm.Params{
		DefaultFeeBps:       p.FeeBps,
		DepositToleranceBps: p.DepositToleranceBps,
	}
}

// Step - один шаг сценария
type Step struct {
	Action    string `mapstructure:"action" validate:"required,oneof=swap deposit withdraw revoke enable undo"`
	Direction string `mapstructure:"direction" validate:"omitempty,oneof=a_to_b b_to_a buy sell"`
	Amount    uint64 `mapstructure:"amount"`
	AmountA   uint64 `mapstructure:"amount_a"`
	AmountB   uint64 `mapstructure:"amount_b"`
	Fraction  string `mapstructure:"fraction" validate:"omitempty,decimal"`
	Authority string `mapstructure:"authority" validate:"omitempty,oneof=mint freeze update"`
}

// check проверяет поля, обязательные для конкретного действия
func (s Step) check() error {
	switch s.Action {
	case ActionSwap:
		if s.Direction == "" || s.Amount == 0 {
			return errors.New("swap needs direction and amount")
		}
	case ActionDeposit:
		if s.AmountA == 0 || s.AmountB == 0 {
			return errors.New("deposit needs amount_a and amount_b")
		}
	case ActionWithdraw:
		if s.Fraction == "" {
			return errors.New("withdraw needs fraction")
		}
	case ActionRevoke, ActionEnable:
		if s.Authority == "" {
			return fmt.Errorf("%s needs authority", s.Action)
		}
	}
	return nil
}

// Load читает файл конфигурации (json, yaml, toml), применяет значения
// по умолчанию и переменные окружения TOKENSIM_*, затем проверяет структуру
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config error: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}
	socials, err := readSocials(path)
	if err != nil {
		return nil, fmt.Errorf("read socials error: %w", err)
	}
	cfg.Scenario.Token.Socials = socials
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// socialsFile - единственная секция, которую читаем в обход viper:
// viper приводит ключи к нижнему регистру и режет их по точкам,
// а метки соцсетей произвольные. Поэтому у RawConfig.Socials тег mapstructure:"-"
type socialsFile struct {
	Scenario struct {
		Token struct {
			Socials map[string]string `yaml:"socials" toml:"socials"`
		} `yaml:"token" toml:"token"`
	} `yaml:"scenario" toml:"scenario"`
}

func readSocials(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f socialsFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &f)
	case ".yaml", ".yml", ".json":
		// JSON - подмножество YAML
		err = yaml.Unmarshal(data, &f)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f.Scenario.Token.Socials, nil
}

// Default возвращает конфигурацию без сценария
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// значения по умолчанию всегда декодируются
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	defaults := map[string]interface{}{
		"app.debug_logging":                   false,
		"app.log_file":                        "",
		"app.output":                          "text",
		"network.name":                        NetworkMainnet,
		"scenario.token.decimals":             token.DefaultDecimals,
		"scenario.fee.priority":               string(fee.PriorityNone),
		"scenario.fee.exchange_rate":          "",
		"scenario.fee.fiat_currency":          "USD",
		"scenario.fee.native_precision":       fee.DefaultNativePrecision,
		"scenario.fee.fiat_precision":         fee.DefaultFiatPrecision,
		"scenario.pool.fee_bps":               cpmm.DefaultFeeBps,
		"scenario.pool.deposit_tolerance_bps": cpmm.DefaultDepositToleranceBps,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

func (c *Config) normalize() {
	c.App.Output = strings.ToLower(strings.TrimSpace(c.App.Output))
	c.Network.Name = strings.ToLower(strings.TrimSpace(c.Network.Name))
	for i, r := range c.Scenario.Revoke {
		c.Scenario.Revoke[i] = strings.ToLower(strings.TrimSpace(r))
	}
	for i := range c.Scenario.Steps {
		s := &c.Scenario.Steps[i]
		s.Action = strings.ToLower(strings.TrimSpace(s.Action))
		s.Direction = strings.ToLower(strings.TrimSpace(s.Direction))
		s.Authority = strings.ToLower(strings.TrimSpace(s.Authority))
	}
}

// Validate проверяет структуру конфигурации. Содержимое токена
// (имя, символ, supply) проверяет token.Validate.
func (c *Config) Validate() error {
	v, err := NewValidator()
	if err != nil {
		return err
	}
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	p := c.Scenario.Pool
	if p.Enabled() && (p.SeedA == 0 || p.SeedB == 0) {
		return fmt.Errorf("%w: pool needs both seed_a and seed_b", ErrInvalidConfig)
	}
	for i, s := range c.Scenario.Steps {
		if err := s.check(); err != nil {
			return fmt.Errorf("%w: step %d: %v", ErrInvalidConfig, i+1, err)
		}
		switch s.Action {
		case ActionSwap, ActionDeposit, ActionWithdraw:
			if !p.Enabled() {
				return fmt.Errorf("%w: step %d: %s requires a pool section", ErrInvalidConfig, i+1, s.Action)
			}
		}
	}
	return nil
}

// NewValidator регистрирует проверку десятичных строк
func NewValidator() (*validator.Validate, error) {
	v := validator.New()
	err := v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			panic(fmt.Errorf("%q is not a string", fl.FieldName()))
		}
		_, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil
	})
	return v, err
}
