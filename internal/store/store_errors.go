// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ErrorContext carries request context used to render friendly errors.
type ErrorContext struct {
	Kind      string
	Location  string
	Operation string
}

// Friendly maps store errors to concise messages naming the store and the
// operation. The cause stays wrapped for errors.Is and errors.As.
func Friendly(err error, ec ErrorContext) error {
	if err == nil {
		return nil
	}

	op := nonEmpty(ec.Operation, "request")
	where := nonEmpty(ec.Location, "<unknown>")

	var noKey *types.NoSuchKey
	var noBucket *types.NoSuchBucket

	switch {
	case errors.Is(err, ErrNoMatch), errors.Is(err, ErrAmbiguous):
		return fmt.Errorf("%s in %s: %w", op, where, err)

	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s: collection file %s does not exist: %w", op, where, err)

	case errors.As(err, &noKey):
		return fmt.Errorf("%s: object %s does not exist: %w", op, where, err)

	case errors.As(err, &noBucket):
		return fmt.Errorf("%s: bucket for %s does not exist: %w", op, where, err)

	case errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err):
		return fmt.Errorf("%s on %s timed out. Check MONGO_CONN_STRING and that the server is reachable: %w",
			op, where, err)

	case mongo.IsNetworkError(err):
		return fmt.Errorf("%s: cannot reach %s: %w", op, where, err)
	}

	return fmt.Errorf("%s on %s %s: %w", op, nonEmpty(ec.Kind, "store"), where, err)
}

// ContextOf returns the ErrorContext for st and op.
func ContextOf(st Store, op string) ErrorContext {
	return ErrorContext{Kind: st.Type(), Location: redact(st.String()), Operation: op}
}

// redact hides the password of a connection string.
func redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.User == nil {
		return uri
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
