package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSON_DoesNotEscapeReplyCopy(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, map[string]string{"response": "Use only letters & spaces <2+>"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"response":"Use only letters & spaces <2+>"}`, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "letters & spaces")
}

func TestValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, map[string]string{"Mobile": "Mobile is required"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Validation failed","error":{"Mobile":"Mobile is required"}}`, rec.Body.String())
}
