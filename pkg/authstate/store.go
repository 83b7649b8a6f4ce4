package authstate

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/golid-ai/dashkit/pkg/apiclient"
	"github.com/golid-ai/dashkit/pkg/async"
	"github.com/golid-ai/dashkit/pkg/authcookie"
	"github.com/golid-ai/dashkit/pkg/broadcast"
	"github.com/golid-ai/dashkit/pkg/logger"
	"github.com/golid-ai/dashkit/pkg/tokens"
	"github.com/golid-ai/dashkit/pkg/validator"
)

const (
	loginFallback  = "Login failed"
	signupFallback = "Signup failed"
)

// Store owns the session. Tokens live in the API client's token store and
// the auth cookie is written through a authcookie.Setter on every
// transition, so both always agree with State.
type Store struct {
	client  *apiclient.Client
	cookie  authcookie.Setter
	logger  *slog.Logger
	changes *broadcast.MemoryBroadcaster[State]

	init singleflight.Group

	mu    sync.RWMutex
	state State

	stop context.CancelFunc
	done chan struct{}
}

type Option func(*Store)

// WithCookie sets where the auth flag is mirrored. Defaults to authcookie.Nop.
func WithCookie(c authcookie.Setter) Option {
	return func(s *Store) {
		if c != nil {
			s.cookie = c
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Store and starts listening for the client's session-expired
// signal. Call Close to stop.
func New(client *apiclient.Client, opts ...Option) *Store {
	s := &Store{
		client:  client,
		cookie:  authcookie.Nop{},
		logger:  logger.Discard(),
		changes: broadcast.NewMemoryBroadcaster[State](8),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("authstate"))

	ctx, cancel := context.WithCancel(context.Background())
	s.stop = cancel
	sub := client.SessionExpired(ctx)
	go s.watchExpiry(ctx, sub)

	return s
}

func (s *Store) watchExpiry(ctx context.Context, sub broadcast.Subscriber[apiclient.SessionExpired]) {
	defer close(s.done)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Receive():
			if !ok {
				return
			}
			s.logger.InfoContext(ctx, "session expired", slog.String("path", msg.Data.Path))
			s.setCookie(ctx, false)
			s.set(State{Initialized: true})
		}
	}
}

// Close stops session-expired handling and closes state subscriptions.
func (s *Store) Close() error {
	s.stop()
	<-s.done
	return s.changes.Close()
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe delivers every new snapshot until ctx ends. A slow subscriber
// loses intermediate snapshots, never the latest one.
func (s *Store) Subscribe(ctx context.Context) broadcast.Subscriber[State] {
	return s.changes.Subscribe(ctx)
}

func (s *Store) User() *apiclient.User { return s.State().User }

func (s *Store) IsAuthenticated() bool { return s.State().IsAuthenticated() }

func (s *Store) IsAdmin() bool { return s.State().IsAdmin() }

func (s *Store) DisplayName() string { return s.State().DisplayName() }

// Initialize resolves the session once. Without an access token it settles
// anonymous with no request. Otherwise it loads the profile; any failure
// clears tokens and settles anonymous. Concurrent callers share one fetch
// and later calls return immediately.
func (s *Store) Initialize(ctx context.Context) {
	if s.State().Initialized {
		return
	}

	ch := s.init.DoChan("init", func() (any, error) {
		s.initialize(context.WithoutCancel(ctx))
		return nil, nil
	})

	select {
	case <-ch:
	case <-ctx.Done():
	}
}

func (s *Store) initialize(ctx context.Context) {
	if s.State().Initialized {
		return
	}

	if s.client.AccessToken(ctx) == "" {
		s.setCookie(ctx, false)
		s.update(func(st *State) { st.Initialized = true })
		return
	}

	s.update(func(st *State) {
		st.Loading = true
		st.Error = ""
	})

	user, err := s.client.Users().Me(ctx)
	if err != nil {
		s.logger.InfoContext(ctx, "stored session rejected", logger.Error(err))
		s.clearTokens(ctx)
		s.setCookie(ctx, false)
		s.set(State{Initialized: true})
		return
	}

	s.setCookie(ctx, true)
	s.set(State{User: user, Initialized: true})
}

// Login validates the credentials, exchanges them for tokens and loads the
// profile. On failure the display message is recorded in State.Error and
// the original error is returned.
func (s *Store) Login(ctx context.Context, creds LoginCredentials) (*apiclient.User, error) {
	return s.authenticate(ctx, loginFallback,
		func() error { return ValidateLogin(creds) },
		func(ctx context.Context) (*apiclient.AuthResponse, error) {
			return s.client.Auth().Login(ctx, creds.Email, creds.Password)
		},
	)
}

// Signup registers an account and signs it in, like Login.
func (s *Store) Signup(ctx context.Context, data SignupData) (*apiclient.User, error) {
	return s.authenticate(ctx, signupFallback,
		func() error { return ValidateSignup(data) },
		func(ctx context.Context) (*apiclient.AuthResponse, error) {
			return s.client.Auth().Register(ctx, apiclient.RegisterRequest{
				Email:     data.Email,
				Password:  data.Password,
				FirstName: data.FirstName,
				LastName:  data.LastName,
			})
		},
	)
}

func (s *Store) authenticate(
	ctx context.Context,
	fallback string,
	validate func() error,
	exchange func(context.Context) (*apiclient.AuthResponse, error),
) (*apiclient.User, error) {
	if err := validate(); err != nil {
		msg := fallback
		if verrs := validator.ExtractValidationErrors(err); verrs != nil {
			msg = verrs.First()
		}
		s.update(func(st *State) { st.Error = msg })
		return nil, err
	}

	s.update(func(st *State) {
		st.Loading = true
		st.Error = ""
	})

	user, err := s.signIn(ctx, exchange)
	if err != nil {
		s.setCookie(ctx, false)
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.update(func(st *State) { st.Loading = false })
			return nil, ctxErr
		}
		msg := apiclient.ErrorMessage(err, fallback)
		s.update(func(st *State) {
			st.Loading = false
			st.Error = msg
		})
		return nil, err
	}

	s.setCookie(ctx, true)
	s.set(State{User: user, Initialized: true})
	s.logger.InfoContext(ctx, "signed in", logger.UserID(user.ID))
	return user, nil
}

func (s *Store) signIn(
	ctx context.Context,
	exchange func(context.Context) (*apiclient.AuthResponse, error),
) (*apiclient.User, error) {
	resp, err := exchange(ctx)
	if err != nil {
		return nil, err
	}

	pair := tokens.Pair{Access: resp.AccessToken, Refresh: resp.RefreshToken}
	if err := s.client.Tokens().Save(ctx, pair); err != nil {
		return nil, err
	}

	user, err := s.client.Users().Me(ctx)
	if err != nil {
		// Tokens and cookie must agree: a failed sign-in leaves neither behind.
		s.clearTokens(context.WithoutCancel(ctx))
		return nil, err
	}
	return user, nil
}

// Logout tells the server, ignoring any failure, then always clears tokens
// and the cookie and settles anonymous.
func (s *Store) Logout(ctx context.Context) {
	if err := s.client.Auth().Logout(ctx); err != nil {
		s.logger.InfoContext(ctx, "server logout failed", logger.Error(err))
	}
	s.clearTokens(context.WithoutCancel(ctx))
	s.setCookie(ctx, false)
	s.set(State{Initialized: true})
}

// UpdateUser replaces the user, leaving the rest of the state untouched.
func (s *Store) UpdateUser(user *apiclient.User) {
	s.update(func(st *State) { st.User = user })
}

func (s *Store) ClearError() {
	s.update(func(st *State) { st.Error = "" })
}

// Go runs op bound to ctx and resolves with the state it left behind. If
// ctx ends first the future resolves with the context error instead.
func (s *Store) Go(ctx context.Context, op func(context.Context) error) *async.Future[State] {
	return async.Go(ctx, func(ctx context.Context) (State, error) {
		if err := op(ctx); err != nil {
			return s.State(), err
		}
		return s.State(), nil
	})
}

func (s *Store) set(next State) {
	s.update(func(st *State) { *st = next })
}

// update applies fn to a copy of the state and publishes the result while
// holding the lock, so subscribers see snapshots in order.
func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	fn(&next)
	s.state = next

	if err := s.changes.Broadcast(broadcast.Message[State]{Data: next}); err != nil && !errors.Is(err, broadcast.ErrClosed) {
		s.logger.Warn("failed to publish state", logger.Error(err))
	}
}

func (s *Store) clearTokens(ctx context.Context) {
	if err := s.client.Tokens().Clear(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to clear tokens", logger.Error(err))
	}
}

func (s *Store) setCookie(ctx context.Context, authenticated bool) {
	if err := s.cookie.SetAuthenticated(authenticated); err != nil {
		s.logger.WarnContext(ctx, "failed to write auth cookie", logger.Error(err))
	}
}
