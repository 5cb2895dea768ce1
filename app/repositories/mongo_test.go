package repositories_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inkwell/app/repositories"
	"github.com/shashiranjanraj/inkwell/pkg/database"
)

// TestMongoStore needs a reachable server: MONGO_TEST_URI=mongodb://localhost:27017
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	storeSuite(t, func(t *testing.T) *repositories.Store {
		ctx := context.Background()
		name := fmt.Sprintf("inkwell_test_%d", time.Now().UnixNano())

		client, db, err := database.ConnectMongo(ctx, uri, name)
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = db.Drop(context.Background())
			_ = client.Disconnect(context.Background())
		})

		s := repositories.NewMongoStore(db)
		require.NoError(t, s.Migrate(ctx))
		return s
	})
}
