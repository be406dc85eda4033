package shared_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lokvista_admin/internal/shared"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NOTIFY_MODE", "")
	c := shared.Load()

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "lokvista", c.MongoDB)
	assert.Equal(t, 60*time.Second, c.CacheTTL)
	assert.Equal(t, "direct", c.NotifyMode)
	assert.Equal(t, 465, c.SMTPPort)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("MONGO_TRANSACTIONS", "true")
	t.Setenv("CACHE_TTL_SECONDS", "5")
	t.Setenv("NOTIFY_MODE", " HTTP ")
	t.Setenv("MAIL_RPS", "0.5")

	c := shared.Load()
	assert.True(t, c.MongoTransactions)
	assert.Equal(t, 5*time.Second, c.CacheTTL)
	assert.Equal(t, "http", c.NotifyMode)
	assert.Equal(t, 0.5, c.MailRPS)
}
