package site

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greensocial/green/internal/config"
	controller "github.com/greensocial/green/internal/db/controller/site"
	"github.com/greensocial/green/internal/db/dbtest"
	"github.com/greensocial/green/internal/db/uow"
	"github.com/greensocial/green/internal/web/handler"
	"github.com/greensocial/green/internal/web/middleware/unitofwork"
)

func TestService(t *testing.T) {
	db := dbtest.Open(t)

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	api := app.Group("/api", unitofwork.New(db))

	s := &Service{}
	require.NoError(t, s.Init(api, &config.Config{}))

	request := func(method, body string) (int, []byte) {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}

		req := httptest.NewRequest(method, "/api/site", reader)
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)

		defer func() {
			_ = resp.Body.Close()
		}()

		out, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		return resp.StatusCode, out
	}

	// nothing stored yet
	status, body := request(http.MethodGet, "")
	require.Equal(t, fiber.StatusOK, status)

	var got controller.Settings
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, controller.Defaults(), got)
	assert.Zero(t, dbtest.Count(t, db))

	// invalid page size
	status, body = request(http.MethodPut, `{"title":"Green","pageSize":500}`)
	require.Equal(t, fiber.StatusBadRequest, status)

	var errResp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	require.Len(t, errResp.Fields, 1)
	assert.Equal(t, "pageSize", errResp.Fields[0].Field)
	assert.Equal(t, "max", errResp.Fields[0].Tag)

	// valid update
	want := controller.Settings{Title: "Green Dev", Description: "dev", RegistrationOpen: false, PageSize: 50}
	payload, err := json.Marshal(want)
	require.NoError(t, err)

	status, _ = request(http.MethodPut, string(payload))
	require.Equal(t, fiber.StatusOK, status)

	status, body = request(http.MethodGet, "")
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, want, got)

	var stored controller.Settings
	require.NoError(t, stored.Load(uow.New(db)))
	assert.Equal(t, want, stored)
}
