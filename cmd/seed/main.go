package main

import (
	"context"
	"dyslexiatutor/internal/cache"
	"dyslexiatutor/internal/model"
	"dyslexiatutor/internal/repository"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load question banks into MongoDB",
	Long: "Loads mode<N>.json (or .yaml) from the question directory into the questions collection,\n" +
		"replacing whatever each mode held before. When a Redis address is given the cached\n" +
		"pools are dropped so servers pick up the new banks.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("dir", envOr("QUESTION_DIR", "static/json"), "Directory holding mode<N> bank files")
	rootCmd.Flags().String("mongo-uri", envOr("MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection string")
	rootCmd.Flags().String("db", envOr("MONGO_DB", "dyslexiatutor"), "MongoDB database name")
	rootCmd.Flags().String("redis-addr", os.Getenv("REDIS_ADDR"), "Redis address whose cached pools should be dropped")

	rootCmd.AddCommand(validateCmd)
}

func runSeed(cmd *cobra.Command) error {
	dir, _ := cmd.Flags().GetString("dir")
	mongoURI, _ := cmd.Flags().GetString("mongo-uri")
	dbName, _ := cmd.Flags().GetString("db")
	redisAddr, _ := cmd.Flags().GetString("redis-addr")

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer client.Disconnect(ctx)

	repo := repository.NewMongoQuestionRepo(client.Database(dbName))

	var pools cache.PoolCache
	if addr := strings.TrimPrefix(redisAddr, "redis://"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		defer rdb.Close()
		pools = cache.NewPoolCache(rdb, 0)
	}

	out := cmd.OutOrStdout()
	for _, mode := range model.Modes {
		path := repository.LocateBank(dir, mode)
		questions, err := repository.ReadBankFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := repo.ReplaceMode(ctx, mode, questions); err != nil {
			return fmt.Errorf("seed mode %s: %w", mode, err)
		}
		if pools != nil {
			if err := pools.DeletePool(ctx, mode); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to drop cached pool for mode %s: %v\n", mode, err)
			}
		}
		fmt.Fprintf(out, "Seeded %d %s questions from %s\n", len(questions), mode.DisplayName(), path)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
