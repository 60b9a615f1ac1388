package rbac_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/rbac"
)

func TestValidateCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{name: "simple", code: "user:read", wantErr: false},
		{name: "underscores", code: "audit_log:export_csv", wantErr: false},
		{name: "missing action", code: "user:", wantErr: true},
		{name: "missing resource", code: ":read", wantErr: true},
		{name: "no separator", code: "userread", wantErr: true},
		{name: "uppercase rejected", code: "User:Read", wantErr: true},
		{name: "wildcard reserved", code: "*", wantErr: true},
		{name: "glob suffix rejected", code: "user:*", wantErr: true},
		{name: "empty", code: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rbac.ValidateCode(tt.code)
			if tt.wantErr {
				assert.ErrorIs(t, err, rbac.ErrInvalidPermissionCode)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPermissionSet(t *testing.T) {
	t.Run("no glob matching", func(t *testing.T) {
		set := rbac.NewPermissionSet("user:read")
		assert.True(t, set.Contains("user:read"))
		assert.False(t, set.Contains("user:write"))

		// A stored "user:*" code is opaque: it matches only itself.
		glob := rbac.NewPermissionSet("user:*")
		assert.False(t, glob.Contains("user:read"))
		assert.True(t, glob.Contains("user:*"))
	})

	t.Run("wildcard matches everything", func(t *testing.T) {
		set := rbac.Wildcard()
		assert.True(t, set.IsWildcard())
		assert.True(t, set.Contains("anything:at_all"))
	})

	t.Run("json survives wildcard and dedup", func(t *testing.T) {
		set := rbac.NewPermissionSet("doc:read", "doc:read", "doc:write")
		data, err := json.Marshal(set)
		require.NoError(t, err)

		var decoded rbac.PermissionSet
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.ElementsMatch(t, []string{"doc:read", "doc:write"}, decoded.Codes())

		data, err = json.Marshal(rbac.Wildcard())
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, decoded.IsWildcard())
	})
}
