package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shiv-727-nov/E-commerce/internal/api"
	"github.com/Shiv-727-nov/E-commerce/internal/apperr"
	"github.com/Shiv-727-nov/E-commerce/internal/domain"
	"github.com/Shiv-727-nov/E-commerce/internal/lifecycle"
)

type mockAuthAPI struct {
	session domain.Session
	err     error

	signUpCalled bool
}

func (m *mockAuthAPI) SignIn(context.Context, api.SignInRequest) (domain.Session, error) {
	if m.err != nil {
		return domain.Session{}, m.err
	}
	return m.session, nil
}

func (m *mockAuthAPI) SignUp(context.Context, api.SignUpRequest) error {
	m.signUpCalled = true
	return m.err
}

func adminSession() domain.Session {
	return domain.Session{
		Token: "jwt-token",
		User:  domain.User{ID: 1, Name: "Root", Email: "root@example.com", Role: domain.RoleAdmin},
	}
}

func TestLogin_Success(t *testing.T) {
	creds := NewMemoryCredentialStore()
	store := NewStore(&mockAuthAPI{session: adminSession()}, creds, nil, nil)

	err := store.Login(context.Background(), "root@example.com", "secret")
	require.NoError(t, err)

	assert.True(t, store.Current().IsAuthenticated())
	assert.Equal(t, "jwt-token", store.Token())
	assert.Equal(t, lifecycle.StatusFulfilled, store.State().Status)

	// Credentials were persisted
	saved, err := creds.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", saved.Token)
}

func TestLogin_ValidationRejectedLocally(t *testing.T) {
	mock := &mockAuthAPI{err: errors.New("should not be called")}
	store := NewStore(mock, NewMemoryCredentialStore(), nil, nil)

	err := store.Login(context.Background(), "not-an-email", "pw")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	// No call dispatched, lifecycle untouched
	assert.Equal(t, lifecycle.StatusIdle, store.State().Status)
}

func TestLogin_ServerErrorSurfacesMessage(t *testing.T) {
	mock := &mockAuthAPI{err: apperr.ServerErr("Invalid credentials", nil)}
	store := NewStore(mock, NewMemoryCredentialStore(), nil, nil)

	err := store.Login(context.Background(), "root@example.com", "wrong")
	require.Error(t, err)

	state := store.State()
	assert.Equal(t, lifecycle.StatusRejected, state.Status)
	assert.Equal(t, "Invalid credentials", state.Err)
	assert.False(t, store.Current().IsAuthenticated())
}

func TestRegister_DoesNotAuthenticate(t *testing.T) {
	mock := &mockAuthAPI{}
	store := NewStore(mock, NewMemoryCredentialStore(), nil, nil)

	err := store.Register(context.Background(), "Jane", "jane@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, mock.signUpCalled)
	assert.False(t, store.Current().IsAuthenticated())
}

func TestLogout_ClearsSessionAndCredentials(t *testing.T) {
	creds := NewMemoryCredentialStore()
	store := NewStore(&mockAuthAPI{session: adminSession()}, creds, nil, nil)
	require.NoError(t, store.Login(context.Background(), "root@example.com", "secret"))

	store.Logout(context.Background())

	assert.False(t, store.Current().IsAuthenticated())
	assert.Equal(t, lifecycle.StatusIdle, store.State().Status)
	_, err := creds.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestRestore_LoadsPersistedSession(t *testing.T) {
	creds := NewMemoryCredentialStore()
	require.NoError(t, creds.Save(context.Background(), adminSession()))

	store := NewStore(&mockAuthAPI{}, creds, nil, nil)
	store.Restore(context.Background())

	assert.True(t, store.Current().IsAuthenticated())
	assert.Equal(t, domain.RoleAdmin, store.Current().User.Role)
}

func TestRequireAdmin_GatesByRole(t *testing.T) {
	customer := adminSession()
	customer.User.Role = domain.RoleCustomer

	store := NewStore(&mockAuthAPI{session: customer}, NewMemoryCredentialStore(), nil, nil)
	require.NoError(t, store.Login(context.Background(), "root@example.com", "secret"))

	require.NoError(t, store.RequireAuth())
	err := store.RequireAdmin()
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Authorization))
}
