// Copyright(C) 2026 github.com/fsgo  All Rights Reserved.
// Author: hidu <duv123@gmail.com>
// Date: 2026/10/18

package main

import (
	"github.com/BurntSushi/toml"

	"github.com/hidu/tool/echo-bench/internal/result"
)

// ConfigFile is the optional toml config, explicit flags override it.
type ConfigFile struct {
	Address        string `toml:"address"`
	Length         int    `toml:"length"`
	Duration       int    `toml:"duration"` // seconds
	Number         int    `toml:"number"`
	ConnectTimeout string `toml:"connect_timeout"` // e.g. 5s
	IOTimeout      string `toml:"io_timeout"`
	Rate           int    `toml:"rate"`
	Speed          int    `toml:"speed"`
	Log            string `toml:"log"`

	Sink result.Options `toml:"sink"`
}

func LoadConfig(fp string) (*ConfigFile, error) {
	cf := &ConfigFile{}
	if _, err := toml.DecodeFile(fp, cf); err != nil {
		return nil, err
	}
	return cf, nil
}
