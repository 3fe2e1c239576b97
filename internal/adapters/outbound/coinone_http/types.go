package coinone_http

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const resultSuccess = "success"

// code accepts error_code as either a JSON string or number.
type code string

func (c *code) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = code(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("error_code: %w", err)
	}
	*c = code(n.String())
	return nil
}

// envelope is the result/error_code pair every Coinone response carries.
type envelope struct {
	Result    string `json:"result"`
	ErrorCode code   `json:"error_code"`
}

func (e envelope) ok() bool { return e.Result == resultSuccess }

// APIError is a well-formed response whose result is not "success".
type APIError struct {
	Path      string
	Result    string
	ErrorCode string
	Body      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coinone %s: result=%s error_code=%s body=%s", e.Path, e.Result, e.ErrorCode, e.Body)
}

func apiError(path string, env envelope, body []byte) *APIError {
	return &APIError{
		Path:      path,
		Result:    env.Result,
		ErrorCode: string(env.ErrorCode),
		Body:      string(body),
	}
}
