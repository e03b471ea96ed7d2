package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func parseQuery(t *testing.T, query string) Params {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return Parse(c)
}

func TestParseDefaults(t *testing.T) {
	p := parseQuery(t, "")
	assert.Equal(t, Params{Page: 1, Limit: 20, Offset: 0}, p)
}

func TestParseComputesOffset(t *testing.T) {
	p := parseQuery(t, "page=3&limit=10")
	assert.Equal(t, Params{Page: 3, Limit: 10, Offset: 20}, p)
}

func TestParseClampsLimit(t *testing.T) {
	p := parseQuery(t, "limit=5000")
	assert.Equal(t, 100, p.Limit)
}

func TestParseRejectsGarbage(t *testing.T) {
	p := parseQuery(t, "page=abc&limit=-4")
	assert.Equal(t, Params{Page: 1, Limit: 20, Offset: 0}, p)
}
