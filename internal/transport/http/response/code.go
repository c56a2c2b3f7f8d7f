package response

import "net/http"

// Fallback messages for failures raised outside a handler.
var defaultMsg = map[int]string{
	http.StatusBadRequest:            "Bad request",
	http.StatusUnauthorized:          "Missing token",
	http.StatusForbidden:             "Not authorized",
	http.StatusNotFound:              "Not found",
	http.StatusRequestEntityTooLarge: "Request body too large",
	http.StatusTooManyRequests:       "Too many requests",
	http.StatusInternalServerError:   "Internal server error",
	http.StatusServiceUnavailable:    "Server busy",
	http.StatusGatewayTimeout:        "Request timed out",
}

func MessageFor(status int) string {
	if m, ok := defaultMsg[status]; ok {
		return m
	}
	if t := http.StatusText(status); t != "" {
		return t
	}
	return "Error"
}
