package main

import (
	"bytes"
	"strings"
	"testing"

	"go-erp/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTokenCmd(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	out, err := run(t, "token", "--user", "u-1", "--company", "c-1", "--employee", "e-1", "--role", "admin", "--ttl", "1h")
	require.NoError(t, err)

	claims, err := middleware.ParseToken(strings.TrimSpace(out), []byte("cli-secret"))
	require.NoError(t, err)
	assert.Equal(t, "c-1", claims.CompanyID)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokenCmd_MissingIdentity(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	_, err := run(t, "token", "--user", "u-1")

	assert.ErrorContains(t, err, "required")
}

func TestSalaryRevertCmd_NeedsCompany(t *testing.T) {
	_, err := run(t, "salary", "revert", "e-1")

	assert.ErrorContains(t, err, "--company is required")
}

func TestPrintYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printYAML(&buf, map[string]int{"scanned": 3}))
	assert.Equal(t, "scanned: 3\n", buf.String())
}
