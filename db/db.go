package db

import (
	"context"
	"database/sql"
	"gateway/config"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	_ "github.com/lib/pq" // PostgreSQL driver
)

var (
	onceDB sync.Once
	conn   *sql.DB

	retryCount uint64 = 3
	retryDelay        = time.Second
)

func getConnStr(config *config.DBConfig) string {
	return "host=" + config.Host +
		" port=" + strconv.Itoa(config.Port) +
		" user=" + config.User +
		" password=" + getPassword() +
		" dbname=" + config.Database +
		" sslmode=" + config.SSLMode
}

func getPassword() string {
	data, err := os.ReadFile("/secret/postgres/password")
	if err != nil {
		log.Fatalf("failed to read password file: %s", err)
	}

	return string(data)
}

func Init(config *config.DBConfig) error {
	var err error
	onceDB.Do(func() {
		conn, err = sql.Open("postgres", getConnStr(config))
		if err != nil {
			return
		}

		retryCount = config.Retry.Count
		retryDelay = config.Retry.Delay

		backoff := retry.WithMaxRetries(retryCount, retry.NewConstant(retryDelay))
		err = retry.Do(context.Background(), backoff, func(ctx context.Context) error {
			return retry.RetryableError(conn.PingContext(ctx))
		})
	})

	return err
}

func GetConn() *sql.DB {
	return conn
}
