// Package config 加载 gserve 命令行使用的配置：
// 默认值 < 配置文件 < GSERVE_* 环境变量 < 命令行参数。
package config

import (
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/legamerdc/gserve"
	"github.com/legamerdc/gserve/poller"
)

const EnvPrefix = "GSERVE"

// 配置键及其对应的命令行参数名
const (
	KeyPort               = "port"
	KeyBacklog            = "backlog"
	KeyReuseAddress       = "reuse_address"
	KeyVerbose            = "verbose"
	KeyStrategy           = "strategy"
	KeyTimeout            = "timeout"
	KeyBackend            = "backend"
	KeyOnMultiplexFailure = "on_multiplex_failure"
)

// Settings 是解析后的完整配置。
type Settings struct {
	Server             gserve.Config
	Strategy           gserve.Strategy
	Timeout            time.Duration // 0 表示无限等待
	Backend            poller.Backend
	OnMultiplexFailure gserve.MultiplexFailure
}

// FlagName 把配置键转成命令行参数名。
func FlagName(key string) string { return strings.ReplaceAll(key, "_", "-") }

// Load 读取配置；path 为空时不读文件，flags 可以为 nil。
func Load(path string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	def := gserve.DefaultConfig()
	v.SetDefault(KeyPort, def.Port)
	v.SetDefault(KeyBacklog, def.Backlog)
	v.SetDefault(KeyReuseAddress, def.ReuseAddress)
	v.SetDefault(KeyVerbose, def.Verbose)
	v.SetDefault(KeyStrategy, gserve.StrategySelect.String())
	v.SetDefault(KeyTimeout, time.Duration(0))
	v.SetDefault(KeyBackend, poller.BackendSelect.String())
	v.SetDefault(KeyOnMultiplexFailure, gserve.FailProcess.String())

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "config: read %s", path)
		}
	}

	if flags != nil {
		for _, key := range []string{
			KeyPort, KeyBacklog, KeyReuseAddress, KeyVerbose,
			KeyStrategy, KeyTimeout, KeyBackend, KeyOnMultiplexFailure,
		} {
			if f := flags.Lookup(FlagName(key)); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "config: bind flag %s", f.Name)
				}
			}
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Settings, error) {
	port := v.GetInt(KeyPort)
	if port < 0 || port > math.MaxUint16 {
		return nil, errors.Errorf("config: port %d out of range", port)
	}
	s := &Settings{
		Server: gserve.Config{
			Port:         uint16(port),
			Backlog:      v.GetInt(KeyBacklog),
			ReuseAddress: v.GetBool(KeyReuseAddress),
			Verbose:      v.GetBool(KeyVerbose),
		},
		Timeout: v.GetDuration(KeyTimeout),
	}
	if err := s.Server.Validate(); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	if s.Timeout < 0 {
		return nil, errors.Wrap(gserve.ErrInvalidTimeout, "config")
	}

	var err error
	if s.Strategy, err = gserve.ParseStrategy(v.GetString(KeyStrategy)); err != nil {
		return nil, err
	}
	if s.Backend, err = poller.ParseBackend(v.GetString(KeyBackend)); err != nil {
		return nil, err
	}
	if s.OnMultiplexFailure, err = gserve.ParseMultiplexFailure(v.GetString(KeyOnMultiplexFailure)); err != nil {
		return nil, err
	}
	return s, nil
}

// LifecycleOptions 把配置转成 gserve.Option。
func (s *Settings) LifecycleOptions() []gserve.Option {
	opts := []gserve.Option{
		gserve.WithBackend(s.Backend),
		gserve.WithMultiplexFailure(s.OnMultiplexFailure),
	}
	if s.Timeout > 0 {
		opts = append(opts, gserve.WithTimeout(s.Timeout))
	}
	return opts
}
