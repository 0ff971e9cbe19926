package validators

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email string `validate:"required,email"`
	Count int    `validate:"min=1"`
}

func TestValidateRejectsInvalidStruct(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sampleRequest{Email: "not-an-email"})
	require.Error(t, err)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestValidateAcceptsValidStruct(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(&sampleRequest{Email: "a@b.io", Count: 2}))
}

func TestValidateSatisfiesEchoInterface(t *testing.T) {
	// Wiring check: a context backed by an Echo instance carrying this
	// validator must route Context.Validate through it
	e := echo.New()
	e.Validator = NewValidator()

	req, _ := http.NewRequest(http.MethodPost, "/", nil)
	c := e.NewContext(req, nil)

	err := c.Validate(&sampleRequest{})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
}
