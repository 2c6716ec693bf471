package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/taskflow/auth-service/internal/core/domain"
)

func TestRegister_Idempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if err := Register(reg); err != nil {
		t.Fatalf("second Register returned error: %v", err)
	}

	LoginsTotal.WithLabelValues(ResultSuccess).Inc()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "auth_logins_total" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected auth_logins_total to be gathered")
	}
}

func TestResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ResultSuccess},
		{domain.ErrInvalidCredentials, ResultDenied},
		{domain.NewFieldError("email", domain.ErrDuplicateAccount, "taken"), ResultInvalid},
		{domain.ValidationErrors{domain.NewFieldError("password", domain.ErrWeakPassword, "weak")}, ResultInvalid},
		{errors.New("boom"), ResultError},
	}
	for _, tt := range tests {
		if got := Result(tt.err); got != tt.want {
			t.Fatalf("Result(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
