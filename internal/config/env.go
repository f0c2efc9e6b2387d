// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/log"
)

// EnvFileEnv names the environment variable holding an explicit dotenv path.
const EnvFileEnv = "RSHEET_ENV_FILE"

// Env holds the settings read from the environment. Values already present
// in the process environment win over the dotenv file.
type Env struct {
	Store      string `env:"RSHEET_STORE"`
	MongoURI   string `env:"MONGO_CONN_STRING"`
	Database   string `env:"RSHEET_DATABASE" envDefault:"myFirstDatabase"`
	Collection string `env:"RSHEET_COLLECTION" envDefault:"recipes"`
	IDField    string `env:"RSHEET_ID_FIELD"`
	Journal    string `env:"RSHEET_JOURNAL"`
	Limit      int    `env:"RSHEET_LIMIT" envDefault:"20"`
	PageSize   int    `env:"RSHEET_PAGE_SIZE" envDefault:"10"`
}

// StoreURI returns the store location, preferring RSHEET_STORE over the
// MongoDB connection string.
func (e Env) StoreURI() string {
	if e.Store != "" {
		return e.Store
	}
	return e.MongoURI
}

// LoadEnv merges the dotenv file into the process environment and decodes
// Env. A missing dotenv file is not an error. The optional path overrides
// RSHEET_ENV_FILE and the ".env" default.
func LoadEnv(path ...string) (Env, error) {
	file := ".env"
	if p := os.Getenv(EnvFileEnv); p != "" {
		file = p
	}
	if len(path) == 1 && path[0] != "" {
		file = path[0]
	}

	if err := godotenv.Load(file); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
		log.Debugf("no dotenv file: path=%s", file)
	} else {
		log.Debugf("dotenv loaded: path=%s", file)
	}

	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}
