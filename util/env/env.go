package env

import (
	"maps"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Environ is an explicit set of environment variables. It is passed around as a value instead of
// reading the process environment from deep inside the resolution code.
type Environ map[string]string

// FromOS returns the current process environment
func FromOS() Environ {
	return FromList(os.Environ())
}

// FromList parses KEY=VALUE pairs. Entries without '=' are ignored.
func FromList(pairs []string) Environ {
	e := make(Environ, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			continue
		}
		e[k] = v
	}
	return e
}

// Merge returns a new Environ holding e overlaid by every override in order
func (e Environ) Merge(overrides ...map[string]string) Environ {
	merged := make(Environ, len(e))
	maps.Copy(merged, e)
	for _, o := range overrides {
		maps.Copy(merged, o)
	}
	return merged
}

// Envsubst expands $VAR and ${VAR} placeholders. `$$` is an escaped dollar. It returns the
// expanded text and the names of the placeholders which had no value; those are left untouched.
func (e Environ) Envsubst(s string) (string, []string) {
	var missing []string
	expanded := os.Expand(s, func(name string) string {
		if name == "$" {
			return "$"
		}
		if val, ok := e[name]; ok {
			return val
		}
		missing = append(missing, name)
		return "${" + name + "}"
	})
	return expanded, missing
}

// Helper function to parse a number from an environment variable. Returns a
// default if env is not set, is not parseable to a number, exceeds maximum (if
// maximum is greater than 0) or is less than minimum.
func ParseNumFromEnv(env string, defaultValue, minimum, maximum int) int {
	str := os.Getenv(env)
	if str == "" {
		return defaultValue
	}
	num, err := strconv.ParseInt(str, 10, 0)
	if err != nil {
		log.Warnf("Could not parse '%s' as a number from environment %s", str, env)
		return defaultValue
	}
	if num > math.MaxInt || num < math.MinInt {
		log.Warnf("Value in %s is %d is outside of the min and max %d allowed values. Using default %d", env, num, minimum, defaultValue)
		return defaultValue
	}
	if int(num) < minimum {
		log.Warnf("Value in %s is %d, which is less than minimum %d allowed", env, num, minimum)
		return defaultValue
	}
	if int(num) > maximum {
		log.Warnf("Value in %s is %d, which is greater than maximum %d allowed", env, num, maximum)
		return defaultValue
	}
	return int(num)
}

// Helper function to parse a time duration from an environment variable. Returns a
// default if env is not set, is not parseable to a duration, exceeds maximum (if
// maximum is greater than 0) or is less than minimum.
func ParseDurationFromEnv(env string, defaultValue, minimum, maximum time.Duration) time.Duration {
	str := os.Getenv(env)
	if str == "" {
		return defaultValue
	}
	dur, err := time.ParseDuration(str)
	if err != nil {
		log.Warnf("Could not parse '%s' as a duration string from environment %s", str, env)
		return defaultValue
	}

	if dur < minimum {
		log.Warnf("Value in %s is %s, which is less than minimum %s allowed", env, dur, minimum)
		return defaultValue
	}
	if dur > maximum {
		log.Warnf("Value in %s is %s, which is greater than maximum %s allowed", env, dur, maximum)
		return defaultValue
	}
	return dur
}

// StringFromEnv returns the value of env, or defaultValue when it is unset or empty
func StringFromEnv(env string, defaultValue string) string {
	if str := os.Getenv(env); str != "" {
		return str
	}
	return defaultValue
}

// ParseBoolFromEnv retrieves a boolean value from given environment envVar.
// Returns default value if envVar is not set.
func ParseBoolFromEnv(envVar string, defaultValue bool) bool {
	if val := os.Getenv(envVar); val != "" {
		if strings.EqualFold(val, "true") {
			return true
		} else if strings.EqualFold(val, "false") {
			return false
		}
	}
	return defaultValue
}
