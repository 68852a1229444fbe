package middleware

import (
	"net/http"

	"github.com/emicklei/go-restful/v3"
)

// ErrorResponse is the JSON error body for every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// HandleError writes err as an ErrorResponse with the given status code.
func HandleError(resp *restful.Response, err error, code int) {
	if code == 0 {
		code = http.StatusInternalServerError
	}
	_ = resp.WriteHeaderAndEntity(code, ErrorResponse{
		Error: err.Error(),
		Code:  code,
	})
}
