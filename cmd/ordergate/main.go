// The ordergate server: an HTTP API over the users and orders collections,
// with every operation checked against the collection policies.
package main

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	"github.com/maxline/ordergate/authz"
	"github.com/maxline/ordergate/config"
	"github.com/maxline/ordergate/docstore"
	firestorestore "github.com/maxline/ordergate/docstore/firestore"
	"github.com/maxline/ordergate/docstore/memstore"
	"github.com/maxline/ordergate/docstore/sqlitestore"
	"github.com/maxline/ordergate/httpapi"
	"github.com/maxline/ordergate/logging"
	"github.com/maxline/ordergate/principal"
	"github.com/maxline/ordergate/service"
)

func main() {
	// Local development reads .env; missing files are fine.
	_ = godotenv.Load()

	var logger logging.Logger
	if config.Bool("debug") {
		logger = logging.NewDevLogger()
	} else {
		logger = logging.NewProdLogger()
	}
	ctx := logging.With(context.Background(), logger)

	store := newStore(ctx, logger)
	verifier := newVerifier(ctx, logger)

	ev := authz.New(
		authz.ProfileReaderFn(func(ctx context.Context, uid string) (authz.Document, error) {
			doc, err := store.Get(ctx, authz.CollectionUsers, uid)
			return authz.Document(doc), err
		}),
		authz.WithAuditLogger(func(ctx context.Context, d authz.AuditDecision) {
			logger.Named("audit").Infow("authorization decision",
				"uid", d.UID,
				"collection", d.Collection,
				"docID", d.DocID,
				"op", string(d.Operation),
				"effect", d.Effect.String(),
				"reason", d.Reason,
			)
		}),
	)

	handler := httpapi.Handler(service.New(store, ev), verifier, logger, httpapi.Config{
		AllowedOrigins: config.Strings("server.corsOrigins"),
	})

	addr := net.JoinHostPort(config.String("server.host"), strconv.Itoa(config.Int("server.port")))
	logger.Infow("starting server", "name", config.String("name"), "addr", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		logger.Fatalw("server exited", "error", err)
	}
}

func newStore(ctx context.Context, logger logging.Logger) docstore.Store {
	driver := config.String("store.driver")
	switch driver {
	case "memory":
		return memstore.New()
	case "sqlite":
		return sqlitestore.New(config.String("store.sqlitePath"))
	case "firestore":
		store, err := firestorestore.NewFromApp(ctx, firebaseApp(ctx, logger))
		if err != nil {
			logger.Fatalw("initializing firestore", "error", err)
		}
		return store
	default:
		logger.Fatalw("unknown store driver", "driver", driver)
		return nil
	}
}

func newVerifier(ctx context.Context, logger logging.Logger) httpapi.TokenVerifier {
	switch mode := config.String("auth.mode"); mode {
	case "local":
		key := config.Bytes("auth.signingKey")
		if len(key) == 0 {
			logger.Fatalw("auth.signingKey is required in local auth mode")
		}
		return httpapi.NewLocalVerifier(principal.NewSigner(key, config.Duration("auth.tokenMaxAge")))
	case "firebase":
		verifier, err := httpapi.NewFirebaseVerifier(ctx, firebaseApp(ctx, logger))
		if err != nil {
			logger.Fatalw("initializing token verifier", "error", err)
		}
		return verifier
	default:
		logger.Fatalw("unknown auth mode", "mode", mode)
		return nil
	}
}

func firebaseApp(ctx context.Context, logger logging.Logger) *firebase.App {
	cfg := &firebase.Config{ProjectID: config.String("firebase.projectId")}
	var opts []option.ClientOption
	if f := config.String("firebase.credentialsFile"); f != "" {
		opts = append(opts, option.WithCredentialsFile(f))
	}
	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		logger.Fatalw("initializing firebase app", "error", err)
	}
	return app
}
