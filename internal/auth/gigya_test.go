package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"zender/internal/httputil"
)

func TestUnwrapJSONP(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		callback string
		want     string
		wantErr  bool
	}{
		{
			name:     "plain payload",
			body:     `DUMMY({"UID":"u-1"});`,
			callback: "DUMMY",
			want:     `{"UID":"u-1"}`,
		},
		{
			name:     "surrounding noise",
			body:     "/* gigya */\nDUMMY({\"a\":{\"b\":1}});\n",
			callback: "DUMMY",
			want:     `{"a":{"b":1}}`,
		},
		{
			name:     "other callback name",
			body:     `gigya_cb_7({"ok":true});`,
			callback: "gigya_cb_7",
			want:     `{"ok":true}`,
		},
		{
			name:     "wrong callback",
			body:     `OTHER({"UID":"u-1"});`,
			callback: "DUMMY",
			wantErr:  true,
		},
		{
			name:     "not jsonp at all",
			body:     `{"UID":"u-1"}`,
			callback: "DUMMY",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := unwrapJSONP(tt.body, tt.callback)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("payload = %q, want %q", got, tt.want)
			}
		})
	}
}

func testSession(t *testing.T, handler http.Handler, creds Credentials) (*Session, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := NewSession(httputil.NewClient(), creds, zerolog.Nop())
	s.gigyaBase = srv.URL
	s.tokenURL = srv.URL + "/token"
	return s, srv
}

func TestLoginMissingCookiesFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts.login", func(w http.ResponseWriter, r *http.Request) {
		// Bad credentials: gigya answers 200 but sets no session cookies.
		w.Write([]byte(`{"errorCode":403042}`))
	})

	s, _ := testSession(t, mux, Credentials{Username: "nora@example.be", Password: "wrong"})
	err := s.Login()
	if !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("err = %v, want ErrLoginFailed", err)
	}
	if s.State() != LoggedOut {
		t.Errorf("state = %v, want logged out", s.State())
	}
}

func TestLoginHandshake(t *testing.T) {
	var tokenCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts.login", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing login form: %v", err)
			return
		}
		if got := r.PostForm.Get("loginID"); got != "nora@example.be" {
			t.Errorf("loginID = %q", got)
		}
		if got := r.PostForm.Get("authMode"); got != "cookie" {
			t.Errorf("authMode = %q", got)
		}
		if got := r.URL.Query().Get("saveResponseID"); got == "" {
			t.Error("missing saveResponseID query parameter")
		}
		http.SetCookie(w, &http.Cookie{Name: "ucid", Value: "u"})
		http.SetCookie(w, &http.Cookie{Name: "gmid", Value: "g"})
		w.Write([]byte(`{"statusCode":200}`))
	})
	mux.HandleFunc("/socialize.getSavedResponse", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("format"); got != "jsonp" {
			t.Errorf("format = %q", got)
		}
		w.Write([]byte(`DUMMY({"UID":"u-1","UIDSignature":"sig==","signatureTimestamp":"1603441512","profile":{"email":"nora@example.be"}});`))
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		if got := r.Header.Get("Origin"); got != "https://www.vrt.be" {
			t.Errorf("Origin = %q", got)
		}
		var body struct {
			UID   string          `json:"uid"`
			TS    json.RawMessage `json:"ts"`
			Email string          `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding token request: %v", err)
			return
		}
		if body.UID != "u-1" {
			t.Errorf("uid = %q", body.UID)
		}
		if string(body.TS) != `"1603441512"` {
			t.Errorf("ts = %s, want the timestamp passed through verbatim", body.TS)
		}
		if body.Email != "nora@example.be" {
			t.Errorf("email = %q", body.Email)
		}
	})

	s, _ := testSession(t, mux, Credentials{Username: "nora@example.be", Password: "secret"})
	if err := s.EnsureLoggedIn(); err != nil {
		t.Fatalf("EnsureLoggedIn: %v", err)
	}
	if s.State() != LoggedIn {
		t.Fatalf("state = %v, want logged in", s.State())
	}

	// A second call must reuse the session instead of logging in again.
	if err := s.EnsureLoggedIn(); err != nil {
		t.Fatalf("EnsureLoggedIn (second): %v", err)
	}
	if tokenCalls != 1 {
		t.Errorf("token endpoint called %d times, want 1", tokenCalls)
	}
}

func TestEnsureLoggedInWithoutCredentials(t *testing.T) {
	s := NewSession(httputil.NewClient(), Credentials{}, zerolog.Nop())
	err := s.EnsureLoggedIn()
	if !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("err = %v, want ErrLoginRequired", err)
	}
	if s.State() != LoggedOut {
		t.Errorf("state = %v, want logged out", s.State())
	}
}
