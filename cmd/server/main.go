package main

import (
	"context"
	"os"

	"github.com/MarcoSafwat16/AMScout/cache"
	"github.com/MarcoSafwat16/AMScout/dispatch"
	"github.com/MarcoSafwat16/AMScout/model"
	"github.com/MarcoSafwat16/AMScout/server"
	"github.com/MarcoSafwat16/AMScout/server/middlewares"
	"github.com/MarcoSafwat16/AMScout/store"
	"github.com/MarcoSafwat16/AMScout/store/blob"
	"github.com/MarcoSafwat16/AMScout/store/redisstore"
	"github.com/MarcoSafwat16/AMScout/suggest"
	"github.com/MarcoSafwat16/AMScout/utils/dotenv"
	. "github.com/MarcoSafwat16/AMScout/utils/flag"
	. "github.com/MarcoSafwat16/AMScout/utils/log"
)

func newBlobStore() store.BlobStore {
	if IsDevelopment {
		return &blob.FakeBlobStore{}
	}
	s3, err := blob.NewS3BlobStore(blob.ProdS3Bucket)
	if err != nil {
		Log.Fatal("failed to create blob store: ", err)
	}
	return s3
}

func newSuggester() suggest.Suggester {
	if os.Getenv("AI_API_KEY") == "" {
		Log.Info("suggestion service not configured, AI features disabled")
		return suggest.Disabled{}
	}
	return suggest.NewHTTPSuggester()
}

func main() {
	Parse()
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	if err := middlewares.Setup(); err != nil {
		Log.Fatal("failed to setup middlewares: ", err)
	}

	docs := redisstore.NewStore()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := cache.NewEngine(docs)
	if err := engine.Start(ctx); err != nil {
		// Without the users subscription nothing can hydrate; refuse to come
		// up half-broken.
		Log.Fatal("failed to start sync engine: ", err)
	}

	dispatcher := dispatch.NewDispatcher(docs, newBlobStore(), func() map[string]model.User {
		return engine.Latest().Users
	})

	handler := server.NewHandler(engine, dispatcher, newSuggester(), docs)
	router := server.NewRouter(handler)

	Log.Info("api server starts up")
	if err := router.Run(":8080"); err != nil {
		Log.Fatal("api server exited: ", err)
	}
}
