package lastfm

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// AuthCallbackPort is the port used for the local authorization callback server.
	AuthCallbackPort = 9847
)

// ErrAuthTimeout is returned when the user did not authorize in time.
var ErrAuthTimeout = errors.New("no authorization received")

var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head><title>Moosack - Last.fm Authorization</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 50px;">
{{if .}}<h1>Authorization Successful!</h1>
<p>You can close this window and return to Moosack.</p>
{{else}}<h1>Authorization Failed</h1>
<p>No token received. Please try again.</p>
{{end}}</body>
</html>`))

// AuthServer handles the authorization callback.
type AuthServer struct {
	server    *http.Server
	listener  net.Listener
	tokenChan chan string
	done      chan struct{}
}

// StartAuthServer starts a local HTTP server on addr to receive the callback.
// An empty addr listens on AuthCallbackPort.
func StartAuthServer(addr string) (*AuthServer, error) {
	if addr == "" {
		addr = fmt.Sprintf("localhost:%d", AuthCallbackPort)
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	as := &AuthServer{
		listener:  listener,
		tokenChan: make(chan string, 1),
		done:      make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", as.handleCallback)
	as.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		_ = as.server.Serve(listener)
		close(as.done)
	}()

	return as, nil
}

// Last.fm redirects here after the user authorizes, with the token in the query.
func (as *AuthServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	w.Header().Set("Content-Type", "text/html")
	if err := callbackPage.Execute(w, token != ""); err != nil {
		log.WithError(err).Debug("write lastfm callback page")
	}

	if token == "" {
		return
	}
	select {
	case as.tokenChan <- token:
	default:
	}
}

// CallbackURL returns the URL Last.fm should redirect to.
func (as *AuthServer) CallbackURL() string {
	return "http://" + as.listener.Addr().String() + "/callback"
}

// TokenChan returns the channel that receives the auth token.
func (as *AuthServer) TokenChan() <-chan string {
	return as.tokenChan
}

// Shutdown stops the auth server.
func (as *AuthServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = as.server.Shutdown(ctx)
	<-as.done
}

// OpenBrowser opens the given URL in the default browser.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// Authenticator is the part of Client used to link an account.
type Authenticator interface {
	GetToken() (string, error)
	GetAuthURL(token, callback string) string
	GetSession(token string) (username, sessionKey string, err error)
}

// SessionStore persists the linked session.
type SessionStore interface {
	SaveLastfmSession(username, sessionKey string) error
}

// LinkOptions configures Link.
type LinkOptions struct {
	Addr    string             // callback listen address, defaults to localhost:AuthCallbackPort
	Timeout time.Duration      // defaults to AuthTimeout
	Open    func(string) error // defaults to OpenBrowser
	Prompt  func(authURL string)
}

// Link runs the desktop authorization flow: it asks the user to authorize
// in a browser, waits for the callback and stores the resulting session.
// It returns the linked username.
func Link(auth Authenticator, store SessionStore, opts LinkOptions) (string, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = AuthTimeout
	}
	if opts.Open == nil {
		opts.Open = OpenBrowser
	}

	server, err := StartAuthServer(opts.Addr)
	if err != nil {
		return "", err
	}
	defer server.Shutdown()

	token, err := auth.GetToken()
	if err != nil {
		return "", err
	}
	authURL := auth.GetAuthURL(token, server.CallbackURL())
	if opts.Prompt != nil {
		opts.Prompt(authURL)
	}
	if err := opts.Open(authURL); err != nil {
		log.WithError(err).Warn("open browser")
	}

	if WaitForCallback(server.TokenChan(), opts.Timeout) == "" {
		return "", ErrAuthTimeout
	}

	// The session is issued for the token requested above; the callback
	// only signals that the user authorized it.
	username, sessionKey, err := auth.GetSession(token)
	if err != nil {
		return "", err
	}
	if err := store.SaveLastfmSession(username, sessionKey); err != nil {
		return "", fmt.Errorf("save lastfm session: %w", err)
	}
	return username, nil
}
