package auth

import (
	"net/http"
	"net/http/httptest"
)

func httptestServe(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
