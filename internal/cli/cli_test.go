package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marquinacarlos/portablogio-backend/internal/apperr"
	"github.com/marquinacarlos/portablogio-backend/internal/models"
)

type fakeAccounts struct {
	exists      bool
	setPassword string
}

func (f *fakeAccounts) Register(_ context.Context, username, email, _ string) (*models.User, error) {
	if f.exists {
		return nil, apperr.AlreadyExists("user")
	}
	return &models.User{ID: 1, Username: username, Email: email}, nil
}

func (f *fakeAccounts) SetPassword(_ context.Context, _, password string) error {
	f.setPassword = password
	return nil
}

func TestSeedAdmin(t *testing.T) {
	opts := seedOptions{email: "carlos@x.dev", password: "pw", username: "carlos"}

	t.Run("creates user", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, seedAdmin(context.Background(), &fakeAccounts{}, opts, &out))
		assert.Equal(t, "user created: id=1 username=carlos email=carlos@x.dev\n", out.String())
	})

	t.Run("existing user without update", func(t *testing.T) {
		accounts := &fakeAccounts{exists: true}
		var out bytes.Buffer
		require.NoError(t, seedAdmin(context.Background(), accounts, opts, &out))
		assert.Contains(t, out.String(), "already exists")
		assert.Empty(t, accounts.setPassword)
	})

	t.Run("existing user with update", func(t *testing.T) {
		accounts := &fakeAccounts{exists: true}
		withUpdate := opts
		withUpdate.update = true
		var out bytes.Buffer
		require.NoError(t, seedAdmin(context.Background(), accounts, withUpdate, &out))
		assert.Equal(t, "pw", accounts.setPassword)
		assert.Equal(t, "password updated\n", out.String())
	})
}

func TestSeedOptionsFromEnv(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "owner@site.dev")
	t.Setenv("ADMIN_PASSWORD", "pw")
	t.Setenv("ADMIN_USERNAME", "")
	t.Setenv("ADMIN_UPDATE", "1")

	opts := seedOptions{}
	require.NoError(t, opts.applyEnv())
	assert.Equal(t, "owner@site.dev", opts.email)
	assert.Equal(t, "pw", opts.password)
	assert.Equal(t, "owner", opts.username)
	assert.True(t, opts.update)

	flagged := seedOptions{email: "flag@site.dev", username: "boss"}
	require.NoError(t, flagged.applyEnv())
	assert.Equal(t, "flag@site.dev", flagged.email)
	assert.Equal(t, "boss", flagged.username)
}

func TestSeedOptionsUpdateFlagFromEnv(t *testing.T) {
	tests := []struct {
		value   string
		want    bool
		wantErr bool
	}{
		{value: "", want: false},
		{value: "1", want: true},
		{value: "true", want: true},
		{value: "false", want: false},
		{value: "0", want: false},
		{value: "maybe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("ADMIN_UPDATE="+tt.value, func(t *testing.T) {
			t.Setenv("ADMIN_UPDATE", tt.value)

			opts := seedOptions{email: "a@b.dev"}
			err := opts.applyEnv()
			if tt.wantErr {
				assert.ErrorContains(t, err, "ADMIN_UPDATE")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, opts.update)
		})
	}

	t.Setenv("ADMIN_UPDATE", "false")
	flagged := seedOptions{email: "a@b.dev", update: true}
	require.NoError(t, flagged.applyEnv())
	assert.True(t, flagged.update)
}

func TestDefaultUsername(t *testing.T) {
	assert.Equal(t, "carlos", defaultUsername("carlos@x.dev"))
	assert.Equal(t, "admin", defaultUsername(""))
	assert.Equal(t, "admin", defaultUsername("@x.dev"))
}

func TestRootCommandWiring(t *testing.T) {
	root := NewRootCommand()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "seed-admin"})
	assert.NotNil(t, root.Flags().Lookup("skip-migrate"))
}

func TestSeedAdminRequiresCredentials(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("ADMIN_UPDATE", "")

	root := NewRootCommand()
	root.SetArgs([]string{"seed-admin"})
	err := root.Execute()
	assert.EqualError(t, err, "ADMIN_EMAIL and ADMIN_PASSWORD are required")
}
