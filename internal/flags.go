// Copyright(C) 2026 github.com/fsgo  All Rights Reserved.
// Author: hidu <duv123@gmail.com>
// Date: 2026/10/18

package internal

import (
	"flag"
	"log"
	"os"
	"strconv"
	"time"
)

// FlagEnvString registers a string flag under every name in names, all sharing
// one value. A non-empty envKey value replaces the default.
func FlagEnvString(fs *flag.FlagSet, names []string, envKey string, value string, usage string) *string {
	ev := os.Getenv(envKey)
	if ev != "" {
		value = ev
	}
	usage += " ( Env Key: " + envKey + " )"
	p := new(string)
	for _, name := range names {
		fs.StringVar(p, name, value, usage)
	}
	return p
}

func FlagEnvInt(fs *flag.FlagSet, names []string, envKey string, value int, usage string) *int {
	ev := os.Getenv(envKey)
	if ev != "" {
		nv, err := strconv.Atoi(ev)
		if err == nil {
			value = nv
		} else {
			log.Printf("parser flag %q from env.%q=%q failed: %v\n", names[0], envKey, ev, err)
		}
	}
	usage += " ( Env Key: " + envKey + " )"
	p := new(int)
	for _, name := range names {
		fs.IntVar(p, name, value, usage)
	}
	return p
}

func FlagEnvDuration(fs *flag.FlagSet, names []string, envKey string, value time.Duration, usage string) *time.Duration {
	ev := os.Getenv(envKey)
	if ev != "" {
		nv, err := time.ParseDuration(ev)
		if err == nil {
			value = nv
		} else {
			log.Printf("parser flag %q from env.%q=%q failed: %v\n", names[0], envKey, ev, err)
		}
	}
	usage += " ( Env Key: " + envKey + " )"
	p := new(time.Duration)
	for _, name := range names {
		fs.DurationVar(p, name, value, usage)
	}
	return p
}

// FlagSetBy reports whether any of names was given explicitly on the command line.
func FlagSetBy(fs *flag.FlagSet, names ...string) bool {
	var found bool
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}
