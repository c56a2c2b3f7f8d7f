package service

import "github.com/prometheus/client_golang/prometheus"

var loginAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "auth_login_attempts_total", Help: "Login attempts by result"},
	[]string{"result"},
)

func init() { prometheus.MustRegister(loginAttempts) }

const (
	loginSuccess = "success"
	loginInvalid = "invalid"
	loginError   = "error"
)
