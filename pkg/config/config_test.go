package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimalConfig = `
service_name = "storefront"

[http]
port = 8080

[database]
dsn = "user:pass@tcp(localhost:3306)/shop"
`

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "storefront", cfg.ServiceName)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "shop_session", cfg.Session.CookieName)
	assert.Equal(t, 30, cfg.Session.IdleTimeout)
	assert.Equal(t, "clamp", cfg.Checkout.QuantityPolicy)
	assert.False(t, cfg.Order.StrictTransitions)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "shop.cart.events", cfg.Kafka.CartTopic)
	assert.Equal(t, "shop.order.events", cfg.Kafka.OrderTopic)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
[checkout]
quantity_policy = "reject"

[order]
strict_transitions = true
`))
	require.NoError(t, err)
	assert.Equal(t, "reject", cfg.Checkout.QuantityPolicy)
	assert.True(t, cfg.Order.StrictTransitions)
}

func TestValidate(t *testing.T) {
	t.Run("missing service name", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
[http]
port = 8080

[database]
dsn = "x"
`))
		assert.Error(t, err)
	})

	t.Run("missing dsn", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
service_name = "storefront"

[http]
port = 8080
`))
		assert.Error(t, err)
	})

	t.Run("bad quantity policy", func(t *testing.T) {
		_, err := Load(writeConfig(t, minimalConfig+`
[checkout]
quantity_policy = "allow"
`))
		assert.Error(t, err)
	})

	t.Run("kafka enabled without brokers", func(t *testing.T) {
		_, err := Load(writeConfig(t, minimalConfig+`
[kafka]
enabled = true
brokers = []
`))
		assert.Error(t, err)
	})
}
