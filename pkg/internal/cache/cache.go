package cache

import (
	"context"

	"github.com/dgraph-io/ristretto"
	lib_store "github.com/eko/gocache/lib/v4/store"
	redis_store "github.com/eko/gocache/store/redis/v4"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// S is the shared side cache (redis), holding sessions and one-time codes.
// L is the in-process cache used for hot read paths like the feed query.
var (
	S lib_store.StoreInterface
	L lib_store.StoreInterface
)

func NewStore() error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     viper.GetString("cache.addr"),
		Password: viper.GetString("cache.password"),
		DB:       viper.GetInt("cache.database"),
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return err
	}
	S = redis_store.NewRedis(rdb)

	local, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e6,
		MaxCost:     1 << 28,
		BufferItems: 64,
	})
	if err != nil {
		return err
	}
	L = ristretto_store.NewRistretto(local)

	return nil
}
