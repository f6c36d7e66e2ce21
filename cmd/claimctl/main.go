// claimctl grants and revokes the manager custom claim. Manager status can
// only be changed out of band; there is intentionally no API endpoint for it.
//
// Usage:
//
//	claimctl grant <uid>
//	claimctl revoke <uid>
package main

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	"github.com/maxline/ordergate/claims"
	"github.com/maxline/ordergate/config"
	firestorestore "github.com/maxline/ordergate/docstore/firestore"
	"github.com/maxline/ordergate/logging"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) != 3 {
		usage()
	}
	verb, uid := os.Args[1], os.Args[2]

	logger := logging.NewDevLogger()
	ctx := logging.With(context.Background(), logger)

	cfg := &firebase.Config{ProjectID: config.String("firebase.projectId")}
	var opts []option.ClientOption
	if f := config.String("firebase.credentialsFile"); f != "" {
		opts = append(opts, option.WithCredentialsFile(f))
	}
	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		logger.Fatalw("initializing firebase app", "error", err)
	}

	tokens, err := claims.NewFirebaseTokenAdmin(ctx, app)
	if err != nil {
		logger.Fatalw("initializing token admin", "error", err)
	}
	store, err := firestorestore.NewFromApp(ctx, app)
	if err != nil {
		logger.Fatalw("initializing firestore", "error", err)
	}
	admin := claims.NewAdmin(tokens, store)

	switch verb {
	case "grant":
		err = admin.Grant(ctx, uid)
	case "revoke":
		err = admin.Revoke(ctx, uid)
	default:
		usage()
	}
	if err != nil {
		logger.Fatalw("updating manager status", "uid", uid, "error", err)
	}

	fmt.Printf("manager status updated for %s; takes effect on next token refresh\n", uid)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: claimctl grant|revoke <uid>")
	os.Exit(2)
}
