package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	log "github.com/sirupsen/logrus"

	"github.com/pola/git-parameter-plugin/common"
)

var flags map[string]string

func init() {
	if err := LoadFlags(); err != nil {
		log.Fatal(err)
	}
}

// LoadFlags parses the default flags held in GIT_PARAMETER_OPTS
func LoadFlags() error {
	flags = make(map[string]string)

	opts, err := shellquote.Split(os.Getenv(common.EnvOpts))
	if err != nil {
		return err
	}

	var key string
	for _, opt := range opts {
		switch {
		case strings.HasPrefix(opt, "--"):
			if key != "" {
				flags[key] = "true"
			}
			kv := strings.SplitN(strings.TrimPrefix(opt, "--"), "=", 2)
			if len(kv) == 2 {
				flags[kv[0]] = kv[1]
				key = ""
			} else {
				key = kv[0]
			}
		case key != "":
			flags[key] = opt
			key = ""
		default:
			return errors.New(common.EnvOpts + " invalid at '" + opt + "'")
		}
	}
	if key != "" {
		flags[key] = "true"
	}
	return nil
}

func GetFlag(key, fallback string) string {
	if val, ok := flags[key]; ok {
		return val
	}
	return fallback
}

func GetBoolFlag(key string) bool {
	return GetFlag(key, "false") == "true"
}

func GetIntFlag(key string, fallback int) int {
	val, ok := flags[key]
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		log.Warnf("invalid int value for %s: %v, using fallback %d", key, err, fallback)
		return fallback
	}
	return v
}
