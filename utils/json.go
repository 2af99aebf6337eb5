package utils

import (
	"encoding/json"
	"net/http"
)

// ParseJSON decodes the request body into v. Numbers are kept as
// json.Number so large phone numbers survive unchanged.
func ParseJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(v)
}
