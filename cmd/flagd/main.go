// Command flagd serves a feature flag catalog over HTTP.
//
// The catalog is read once at startup from FEATURE_CATALOG (a local path or
// s3://bucket/key). Overrides with storage "cookie" use signed cookies when
// COOKIE_SECRETS is set; overrides with storage "local" use the backend named
// by FEATURE_LOCAL_STORE: memory, redis, postgres or mongo.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "flagd:", err)
		os.Exit(1)
	}
}
