package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
)

type GlobalConfig struct {
	API    API    `mapstructure:",squash"`
	Batch  Batch  `mapstructure:",squash"`
	Server Server `mapstructure:",squash"`
	Log    Log    `mapstructure:",squash"`
}

var config = &GlobalConfig{}

func init() {
	if err := defaults.Set(config); err != nil {
		fmt.Printf("set default err: %+v", err)
		os.Exit(1)
	}
}

func Global() *GlobalConfig {
	return config
}

func (a *API) Timeout() time.Duration {
	return time.Duration(a.TimeoutSec) * time.Second
}

func (a *API) PollInterval() time.Duration {
	return time.Duration(a.PollIntervalMS) * time.Millisecond
}
