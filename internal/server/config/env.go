package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "GOPHTASKS_"

// parseEnv overlays GOPHTASKS_* variables. Values from dotenv files fill in
// variables missing from the process environment; a missing file is skipped.
func parseEnv(config *Config, dotenvFiles ...string) {
	fileVars := map[string]string{}
	for _, name := range dotenvFiles {
		vars, err := godotenv.Read(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			panic(err)
		}
		for k, v := range vars {
			if _, seen := fileVars[k]; !seen {
				fileVars[k] = v
			}
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			return v, true
		}
		v, ok := fileVars[envPrefix+key]
		return v, ok
	}

	envString(lookup, "ADDRESS", &config.EndpointAddrHTTP)
	envString(lookup, "DATABASE_DSN", &config.DatabaseDSN)
	envString(lookup, "SECRET_KEY", &config.SecretKey)
	envDuration(lookup, "TOKEN_VALIDITY", &config.TokenValidityDuration)
	envString(lookup, "SESSION_POLICY", &config.SessionPolicy)
	envInt(lookup, "BCRYPT_COST", &config.BcryptCost)
	envString(lookup, "TOKEN_STORE", &config.TokenStore)
	envString(lookup, "REDIS_ADDR", &config.RedisAddr)
	envString(lookup, "REDIS_PASSWORD", &config.RedisPassword)
	envInt(lookup, "REDIS_DB", &config.RedisDB)
	envDuration(lookup, "READ_TIMEOUT", &config.ReadTimeout)
	envDuration(lookup, "WRITE_TIMEOUT", &config.WriteTimeout)
	envString(lookup, "LOG_LEVEL", &config.LogLevel)
}

type lookupFunc func(key string) (string, bool)

func envString(lookup lookupFunc, key string, dst *string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func envInt(lookup lookupFunc, key string, dst *int) {
	v, ok := lookup(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(errors.New(envPrefix + key + ": " + err.Error()))
	}
	*dst = n
}

func envDuration(lookup lookupFunc, key string, dst *time.Duration) {
	v, ok := lookup(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(errors.New(envPrefix + key + ": " + err.Error()))
	}
	*dst = d
}
