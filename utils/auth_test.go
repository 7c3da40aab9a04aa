package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("secret124", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	token, issued, err := GenerateToken(secret, "user-1", time.Hour, now)
	require.NoError(t, err)

	claims, err := ParseToken(secret, token, func() time.Time { return now.Add(30 * time.Minute) })
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())

	_, err = ParseToken(secret, token, func() time.Time { return now.Add(2 * time.Hour) })
	assert.Error(t, err)

	_, err = ParseToken([]byte("other-secret"), token, func() time.Time { return now })
	assert.Error(t, err)
}

func TestGenerateToken_NoSecret(t *testing.T) {
	_, _, err := GenerateToken(nil, "user-1", time.Hour, time.Now())
	assert.Error(t, err)
}

func TestGenerateJWTSecret(t *testing.T) {
	a, b := GenerateJWTSecret(), GenerateJWTSecret()
	assert.Len(t, a, 44)
	assert.NotEqual(t, a, b)
}

func TestExtractToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"bearer", "Bearer abc.def", "", "abc.def"},
		{"lowercase bearer", "bearer abc.def", "", "abc.def"},
		{"raw header", "abc.def", "", "abc.def"},
		{"cookie", "", "from-cookie", "from-cookie"},
		{"header wins", "Bearer abc.def", "from-cookie", "abc.def"},
		{"none", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: tt.cookie})
			}
			c.Request = req
			assert.Equal(t, tt.want, ExtractToken(c))
		})
	}
}
