package authstate_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golid-ai/dashkit/pkg/apiclient"
	"github.com/golid-ai/dashkit/pkg/authcookie"
	"github.com/golid-ai/dashkit/pkg/authstate"
	"github.com/golid-ai/dashkit/pkg/tokens"
	"github.com/golid-ai/dashkit/pkg/validator"
)

type fakeAPI struct {
	meCalls     atomic.Int32
	loginCalls  atomic.Int32
	logoutCalls atomic.Int32
	logoutFails bool
	meStatus    atomic.Int32
	loginStatus int
	loginBody   string
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/me", func(w http.ResponseWriter, r *http.Request) {
		f.meCalls.Add(1)
		time.Sleep(10 * time.Millisecond)
		if status := int(f.meStatus.Load()); status != 0 {
			writeJSON(w, status, map[string]string{"message": "nope"})
			return
		}
		writeJSON(w, http.StatusOK, apiclient.User{ID: "u1", Email: "ada@example.com", Type: "admin", FirstName: "Ada"})
	})
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.loginCalls.Add(1)
		if f.loginStatus != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.loginStatus)
			_, _ = w.Write([]byte(f.loginBody))
			return
		}
		writeJSON(w, http.StatusOK, apiclient.AuthResponse{AccessToken: "acc", RefreshToken: "ref"})
	})
	mux.HandleFunc("POST /api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var body apiclient.RegisterRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Email == "taken@example.com" {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Email already registered", "code": "conflict"})
			return
		}
		writeJSON(w, http.StatusCreated, apiclient.AuthResponse{AccessToken: "acc", RefreshToken: "ref"})
	})
	mux.HandleFunc("POST /api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.logoutCalls.Add(1)
		if f.logoutFails {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type recordingCookie struct {
	mu     sync.Mutex
	values []bool
}

func (c *recordingCookie) SetAuthenticated(v bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = append(c.values, v)
	return nil
}

func (c *recordingCookie) last() (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.values) == 0 {
		return false, false
	}
	return c.values[len(c.values)-1], true
}

type fixture struct {
	api    *fakeAPI
	client *apiclient.Client
	store  *authstate.Store
	tokens *tokens.MemoryStore
	cookie *recordingCookie
}

func newFixture(t *testing.T, api *fakeAPI, initial tokens.Pair) *fixture {
	t.Helper()

	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	ts := tokens.NewMemoryStore()
	if !initial.IsZero() {
		require.NoError(t, ts.Save(context.Background(), initial))
	}
	client := apiclient.New(srv.URL, apiclient.WithTokenStore(ts))
	cookie := &recordingCookie{}
	store := authstate.New(client, authstate.WithCookie(cookie))
	t.Cleanup(func() {
		_ = store.Close()
		_ = client.Close()
	})

	return &fixture{api: api, client: client, store: store, tokens: ts, cookie: cookie}
}

func TestInitialize(t *testing.T) {
	t.Parallel()

	t.Run("without token makes no request", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, &fakeAPI{}, tokens.Pair{})
		f.store.Initialize(context.Background())

		st := f.store.State()
		assert.True(t, st.Initialized)
		assert.Nil(t, st.User)
		assert.Zero(t, f.api.meCalls.Load())

		v, ok := f.cookie.last()
		require.True(t, ok)
		assert.False(t, v)
	})

	t.Run("with token loads the user once", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, &fakeAPI{}, tokens.Pair{Access: "acc", Refresh: "ref"})

		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				f.store.Initialize(context.Background())
			}()
		}
		wg.Wait()
		f.store.Initialize(context.Background())

		assert.Equal(t, int32(1), f.api.meCalls.Load())
		assert.True(t, f.store.IsAuthenticated())
		assert.True(t, f.store.IsAdmin())
		assert.Equal(t, "Ada", f.store.DisplayName())

		v, _ := f.cookie.last()
		assert.True(t, v)
	})

	t.Run("rejected token clears the session", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{}
		api.meStatus.Store(http.StatusForbidden)
		f := newFixture(t, api, tokens.Pair{Access: "stale"})
		f.store.Initialize(context.Background())

		st := f.store.State()
		assert.True(t, st.Initialized)
		assert.False(t, st.IsAuthenticated())
		assert.Empty(t, st.Error)

		pair, err := f.tokens.Load(context.Background())
		require.NoError(t, err)
		assert.True(t, pair.IsZero())

		v, _ := f.cookie.last()
		assert.False(t, v)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("success stores tokens and user", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, &fakeAPI{}, tokens.Pair{})
		user, err := f.store.Login(context.Background(), authstate.LoginCredentials{Email: "ada@example.com", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)

		st := f.store.State()
		assert.True(t, st.Initialized)
		assert.False(t, st.Loading)
		assert.Equal(t, user, st.User)

		pair, err := f.tokens.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, tokens.Pair{Access: "acc", Refresh: "ref"}, pair)

		v, _ := f.cookie.last()
		assert.True(t, v)
	})

	t.Run("server message is recorded", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{loginStatus: http.StatusUnauthorized, loginBody: `{"message":"Invalid credentials","code":"unauthorized"}`}
		f := newFixture(t, api, tokens.Pair{})

		user, err := f.store.Login(context.Background(), authstate.LoginCredentials{Email: "ada@example.com", Password: "bad"})
		require.Error(t, err)
		assert.Nil(t, user)
		assert.True(t, apiclient.HasStatus(err, http.StatusUnauthorized))

		st := f.store.State()
		assert.Equal(t, "Invalid credentials", st.Error)
		assert.Nil(t, st.User)
		assert.False(t, st.Loading)

		v, _ := f.cookie.last()
		assert.False(t, v)

		f.store.ClearError()
		assert.Empty(t, f.store.State().Error)
	})

	t.Run("empty server message falls back", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{loginStatus: http.StatusInternalServerError, loginBody: `{"message":""}`}
		f := newFixture(t, api, tokens.Pair{})

		_, err := f.store.Login(context.Background(), authstate.LoginCredentials{Email: "ada@example.com", Password: "x"})
		require.Error(t, err)
		assert.Equal(t, "Request failed: Internal Server Error", f.store.State().Error)
	})

	t.Run("invalid input never reaches the server", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, &fakeAPI{}, tokens.Pair{})
		_, err := f.store.Login(context.Background(), authstate.LoginCredentials{Email: "nope"})
		require.ErrorIs(t, err, validator.ErrValidationFailed)
		assert.Zero(t, f.api.loginCalls.Load())
		assert.Equal(t, "Invalid email address", f.store.State().Error)
	})
}

func TestSignup(t *testing.T) {
	t.Parallel()

	data := authstate.SignupData{
		Email:           "ada@example.com",
		Password:        "longenough",
		ConfirmPassword: "longenough",
		FirstName:       "Ada",
		LastName:        "Lovelace",
	}

	f := newFixture(t, &fakeAPI{}, tokens.Pair{})
	user, err := f.store.Signup(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	data.Email = "taken@example.com"
	f2 := newFixture(t, &fakeAPI{}, tokens.Pair{})
	_, err = f2.store.Signup(context.Background(), data)
	require.Error(t, err)
	assert.Equal(t, "Email already registered", f2.store.State().Error)
	assert.False(t, f2.store.IsAuthenticated())
}

func TestLogout(t *testing.T) {
	t.Parallel()

	for _, fails := range []bool{false, true} {
		f := newFixture(t, &fakeAPI{logoutFails: fails}, tokens.Pair{Access: "acc", Refresh: "ref"})
		f.store.Initialize(context.Background())
		require.True(t, f.store.IsAuthenticated())

		f.store.Logout(context.Background())

		assert.False(t, f.store.IsAuthenticated(), "server failure: %v", fails)
		assert.True(t, f.store.State().Initialized)
		assert.Equal(t, int32(1), f.api.logoutCalls.Load())

		pair, err := f.tokens.Load(context.Background())
		require.NoError(t, err)
		assert.True(t, pair.IsZero())

		v, _ := f.cookie.last()
		assert.False(t, v)
	}
}

func TestSessionExpiredResetsState(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	f := newFixture(t, api, tokens.Pair{Access: "acc"})
	f.store.Initialize(context.Background())
	require.True(t, f.store.IsAuthenticated())

	api.meStatus.Store(http.StatusUnauthorized)
	_, err := f.client.Users().Me(context.Background())
	require.Error(t, err)

	require.Eventually(t, func() bool {
		return !f.store.IsAuthenticated()
	}, time.Second, 5*time.Millisecond)

	v, _ := f.cookie.last()
	assert.False(t, v)
	assert.Zero(t, api.logoutCalls.Load())
}

func TestUpdateUserAndSubscribe(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &fakeAPI{}, tokens.Pair{})
	sub := f.store.Subscribe(context.Background())
	defer sub.Close()

	f.store.UpdateUser(&apiclient.User{ID: "u2", FirstName: "Grace", LastName: "Hopper"})

	select {
	case msg := <-sub.Receive():
		assert.Equal(t, "u2", msg.Data.User.ID)
	case <-time.After(time.Second):
		t.Fatal("no state published")
	}
	assert.Equal(t, "Grace Hopper", f.store.DisplayName())
	assert.False(t, f.store.State().Initialized)
}

func TestGoDiscardsCanceledScope(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &fakeAPI{}, tokens.Pair{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	future := f.store.Go(ctx, func(ctx context.Context) error {
		_, err := f.store.Login(ctx, authstate.LoginCredentials{Email: "ada@example.com", Password: "x"})
		return err
	})
	_, err := future.Await()
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, f.store.IsAuthenticated())
}

func TestJarCookieIntegration(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	jar, err := authcookie.NewJar(nil, srv.URL)
	require.NoError(t, err)

	client := apiclient.New(srv.URL)
	store := authstate.New(client, authstate.WithCookie(jar))
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Login(context.Background(), authstate.LoginCredentials{Email: "ada@example.com", Password: "x"})
	require.NoError(t, err)
	assert.True(t, jar.Authenticated())

	store.Logout(context.Background())
	assert.False(t, jar.Authenticated())
}

func TestLoginProfileFailureClearsTokens(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	api.meStatus.Store(http.StatusInternalServerError)
	f := newFixture(t, api, tokens.Pair{})

	user, err := f.store.Login(context.Background(), authstate.LoginCredentials{Email: "ada@example.com", Password: "password1"})
	require.Error(t, err)
	assert.Nil(t, user)
	assert.False(t, f.store.IsAuthenticated())

	pair, err := f.tokens.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, pair.IsZero(), "tokens must not outlive a failed sign-in")

	cookie, ok := f.cookie.last()
	require.True(t, ok)
	assert.False(t, cookie)

	// A later Initialize must not resurrect the failed session.
	calls := api.meCalls.Load()
	f.store.Initialize(context.Background())
	assert.Equal(t, calls, api.meCalls.Load())
	assert.False(t, f.store.IsAuthenticated())
}

// cancelAwareStore fails every operation on a finished context, like a
// network-backed store would.
type cancelAwareStore struct {
	*tokens.MemoryStore
}

func (s cancelAwareStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.MemoryStore.Clear(ctx)
}

func TestLogoutClearsTokensAfterCanceledContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer((&fakeAPI{}).handler())
	t.Cleanup(srv.Close)

	ts := cancelAwareStore{tokens.NewMemoryStore()}
	require.NoError(t, ts.Save(context.Background(), tokens.Pair{Access: "acc", Refresh: "ref"}))
	client := apiclient.New(srv.URL, apiclient.WithTokenStore(ts))
	store := authstate.New(client)
	t.Cleanup(func() {
		_ = store.Close()
		_ = client.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store.Logout(ctx)

	pair, err := ts.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, pair.IsZero())
	assert.False(t, store.IsAuthenticated())
	assert.True(t, store.State().Initialized)
}
