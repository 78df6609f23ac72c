package echoServer

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	jwtutil "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/jwt"
)

func TestJWTAuthSetsLibrarianID(t *testing.T) {
	token, err := jwtutil.Issue("secret", "B3", "librarian", 1)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := JWTAuth("secret")(func(c echo.Context) error {
		called = true
		require.Equal(t, "B3", c.Get("librarian_id"))
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, h(c))
	require.True(t, called)
}

func TestJWTAuthRejectsMissingOrBadToken(t *testing.T) {
	e := echo.New()

	for _, header := range []string{"", "Bearer garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		c := e.NewContext(req, httptest.NewRecorder())

		h := JWTAuth("secret")(func(c echo.Context) error {
			t.Fatal("handler must not run without a valid token")
			return nil
		})

		err := h(c)
		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		require.Equal(t, http.StatusUnauthorized, he.Code)
	}
}
