//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tsc11539/iaas-webhost/internal/config"
)

const createPosts = `CREATE TABLE posts (
	id INT AUTO_INCREMENT PRIMARY KEY,
	title VARCHAR(255),
	content TEXT,
	created_at DATETIME
)`

// startMySQL runs a MySQL 8.4 container and returns a config pointing at it.
func startMySQL(t *testing.T, ctx context.Context) config.DBConfig {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8.4",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "root",
			"MYSQL_DATABASE":      "iaas_demo",
			"MYSQL_USER":          "iaasuser",
			"MYSQL_PASSWORD":      "iaaspass",
		},
		// The init server logs "port: 0"; only the final server listens on 3306.
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").
			WithStartupTimeout(2 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start MySQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MySQL container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306")
	require.NoError(t, err)

	return config.DBConfig{
		Host:           host,
		Port:           port.Int(),
		Name:           "iaas_demo",
		User:           "iaasuser",
		Password:       "iaaspass",
		ConnectTimeout: 5 * time.Second,
	}
}

func TestStoreAgainstMySQL(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	cfg := startMySQL(t, ctx)

	db, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s := New(db)

	require.Eventually(t, func() bool {
		return s.Ping(ctx) == nil
	}, 30*time.Second, 500*time.Millisecond)

	now, err := s.Now(ctx)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), now, 24*time.Hour)

	_, err = db.ExecContext(ctx, createPosts)
	require.NoError(t, err)

	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	_, err = db.ExecContext(ctx, `INSERT INTO posts (title, content, created_at) VALUES
		('Oldest', 'first', '2026-01-01 10:00:00'),
		('Newest', '<b>third</b>', '2026-03-01 10:00:00'),
		('Middle', 'second', '2026-02-01 10:00:00'),
		(NULL, NULL, NULL)`)
	require.NoError(t, err)

	posts, err = s.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 4)
	assert.Equal(t, "Newest", posts[0].Title)
	assert.Equal(t, "<b>third</b>", posts[0].Content)
	assert.Equal(t, "Middle", posts[1].Title)
	assert.Equal(t, "Oldest", posts[2].Title)
	// MySQL sorts NULL first ascending, so last descending.
	assert.Empty(t, posts[3].Title)
	assert.True(t, posts[3].CreatedAt.IsZero())
}

func TestStoreUnreachable(t *testing.T) {
	db, err := Open(config.DBConfig{
		Host:           "127.0.0.1",
		Port:           1,
		Name:           "iaas_demo",
		User:           "iaasuser",
		Password:       "iaaspass",
		ConnectTimeout: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = New(db).Now(context.Background())
	assert.ErrorIs(t, err, ErrDataAccess)
}
