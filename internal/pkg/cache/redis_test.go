package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	c, err := NewRedisCache("localhost:0", "storefront")
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "storefront:products:all", c.GenerateKey("products", "all"))
	assert.Equal(t, "storefront:category:Home & Kitchen", c.GenerateKey("category", "Home & Kitchen"))
}
