// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapHandlerFunc(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{nil, http.StatusOK},
		{BadRequest(errors.New("bad")), http.StatusBadRequest},
		{NotFound(errors.New("missing")), http.StatusNotFound},
		{HTTPError(errors.New("conflict"), http.StatusConflict), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		WrapHandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
			if c.err != nil {
				return c.err
			}
			return WriteJSON(w, map[string]int{"a": 1})
		})(rec, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, c.status, rec.Code)
		if c.err == nil {
			assert.Equal(t, JSONContentType, rec.Header().Get("Content-Type"))
			assert.JSONEq(t, `{"a":1}`, rec.Body.String())
		} else {
			assert.Contains(t, rec.Body.String(), c.err.Error())
		}
	}
}

func TestParseJSON(t *testing.T) {
	var v struct{ A int }
	require.NoError(t, ParseJSON(strings.NewReader(`{"A":1}`), &v))
	assert.Equal(t, 1, v.A)
	assert.Error(t, ParseJSON(strings.NewReader(`{"B":1}`), &v))
}

func TestParseUint(t *testing.T) {
	v, err := ParseUint("", 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)
	v, err = ParseUint("42", 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)
	_, err = ParseUint("-1", 7)
	assert.Error(t, err)
}
