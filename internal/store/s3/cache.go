// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"time"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/cacheutil"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/config"
)

// versionCache holds the bodies of one object's versions, keyed by version ID.
func (st *Store) versionCache() *cacheutil.Bucket {
	return cacheutil.Open("s3", st.Location.Bucket, st.Location.Key)
}

// purgeCache drops cache files older than cache.clean hours. Nothing is
// purged when the setting is absent.
func purgeCache() error {
	hours, _ := config.GetInt("cache.clean")
	return cacheutil.Purge(time.Duration(hours) * time.Hour)
}
