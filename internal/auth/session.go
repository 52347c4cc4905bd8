// Package auth implements account login for the gated broadcaster
// sites and credential storage in the OS keyring.
package auth

import (
	"errors"

	"github.com/rs/zerolog"

	"zender/internal/httputil"
)

var (
	// ErrLoginRequired means a site needs an account and none is
	// configured.
	ErrLoginRequired = errors.New("login required")

	// ErrLoginFailed means the login handshake ran and was rejected.
	ErrLoginFailed = errors.New("login failed")
)

// State tracks where a session is in its lifecycle.
type State int

const (
	LoggedOut State = iota
	Authenticating
	LoggedIn
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case LoggedIn:
		return "logged in"
	default:
		return "logged out"
	}
}

// Credentials is an account login pair.
type Credentials struct {
	Username string
	Password string
}

// Session holds login state for VRT NU. The session itself stores no
// tokens; the HTTP client's cookie jar carries the proof of login.
type Session struct {
	client *httputil.Client
	creds  Credentials
	log    zerolog.Logger
	state  State

	// Handshake endpoints, overridable in tests.
	gigyaBase string
	tokenURL  string
}

// NewSession creates a session for the given account. Empty credentials
// are allowed; EnsureLoggedIn then fails with ErrLoginRequired.
func NewSession(client *httputil.Client, creds Credentials, log zerolog.Logger) *Session {
	return &Session{
		client:    client,
		creds:     creds,
		log:       log.With().Str("component", "auth").Logger(),
		gigyaBase: defaultGigyaBase,
		tokenURL:  defaultTokenURL,
	}
}

// State reports the session's lifecycle state.
func (s *Session) State() State {
	return s.state
}

// EnsureLoggedIn logs in on first use and is a no-op afterwards.
func (s *Session) EnsureLoggedIn() error {
	if s.state == LoggedIn {
		return nil
	}
	if s.creds.Username == "" || s.creds.Password == "" {
		return ErrLoginRequired
	}
	return s.Login()
}

// Login runs the handshake unconditionally. Any failure resets the
// session to logged out.
func (s *Session) Login() error {
	s.state = Authenticating
	s.log.Debug().Str("username", s.creds.Username).Msg("logging in")
	if err := s.login(); err != nil {
		s.state = LoggedOut
		return err
	}
	s.state = LoggedIn
	s.log.Info().Msg("login succeeded")
	return nil
}
