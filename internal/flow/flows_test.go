package flow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tkerns/gatehouse/internal/idp"
	"github.com/tkerns/gatehouse/internal/notify"
	"github.com/tkerns/gatehouse/internal/session"
)

// fakeClient records provider calls and answers from canned responses.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	signInErr error
	signUpErr error
	resetErr  error

	// blockSignIn, when set, makes SignIn wait until the channel closes.
	blockSignIn chan struct{}
}

func (f *fakeClient) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeClient) callCount(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeClient) SignIn(_ context.Context, email, _ string) (*session.Session, error) {
	f.record("signIn")
	if f.blockSignIn != nil {
		<-f.blockSignIn
	}
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &session.Session{UID: "uid-1", Email: email}, nil
}

func (f *fakeClient) SignUp(_ context.Context, email, _ string) (*session.Session, error) {
	f.record("signUp")
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return &session.Session{UID: "uid-1", Email: email}, nil
}

func (f *fakeClient) SendPasswordReset(_ context.Context, _ string) error {
	f.record("sendReset")
	return f.resetErr
}

func (f *fakeClient) SignOut(_ context.Context) error {
	f.record("signOut")
	return nil
}

func TestLoginLocalValidationSkipsProvider(t *testing.T) {
	client := &fakeClient{}
	login := NewLogin(client)

	res := login.Submit(context.Background(), "", "")
	if res.Error != "Please fill all fields" {
		t.Errorf("unexpected error: %q", res.Error)
	}
	if len(client.calls) != 0 {
		t.Errorf("provider was called %d times, want 0", len(client.calls))
	}
}

func TestLoginWrongPassword(t *testing.T) {
	// The canonical scenario: a@b.com with a wrong password shows the
	// invalid-credentials message and stays on the screen.
	client := &fakeClient{signInErr: idp.NewError(idp.CodeWrongPassword, "INVALID_PASSWORD")}
	login := NewLogin(client)

	res := login.Submit(context.Background(), "a@b.com", "wrong")
	if res.Error != "Invalid email or password. Please try again." {
		t.Errorf("unexpected error: %q", res.Error)
	}
	if res.Redirect != "" {
		t.Errorf("failure must not navigate, got redirect %q", res.Redirect)
	}
}

func TestLoginSuccessNavigates(t *testing.T) {
	client := &fakeClient{}
	login := NewLogin(client)

	res := login.Submit(context.Background(), "a@b.com", "secret1")
	if res.Error != "" {
		t.Fatalf("unexpected error: %q", res.Error)
	}
	if res.Redirect != "/dashboard" {
		t.Errorf("redirect = %q, want /dashboard", res.Redirect)
	}
}

func TestLoginDuplicateSubmissionIsNoop(t *testing.T) {
	// While a provider call is in flight the flow accepts further
	// submissions as no-ops, so a double click issues one request.
	client := &fakeClient{blockSignIn: make(chan struct{})}
	login := NewLogin(client)

	done := make(chan Result, 1)
	go func() {
		done <- login.Submit(context.Background(), "a@b.com", "secret1")
	}()

	// Wait until the first submission is in flight.
	deadline := time.After(time.Second)
	for login.Phase() != PhaseSubmitting {
		select {
		case <-deadline:
			t.Fatal("flow never reached submitting")
		case <-time.After(time.Millisecond):
		}
	}

	second := login.Submit(context.Background(), "a@b.com", "secret1")
	if second != (Result{}) {
		t.Errorf("duplicate submission returned %+v, want zero result", second)
	}

	close(client.blockSignIn)
	<-done

	if got := client.callCount("signIn"); got != 1 {
		t.Errorf("provider sign-in called %d times, want 1", got)
	}
}

func TestRegisterShortPasswordRejectedLocally(t *testing.T) {
	// abc12 is five characters; the check fires before any network call.
	client := &fakeClient{}
	register := NewRegister(client)

	res := register.Submit(context.Background(), "a@b.com", "abc12", "abc12")
	if res.Error != "Password must be at least 6 characters" {
		t.Errorf("unexpected error: %q", res.Error)
	}
	if len(client.calls) != 0 {
		t.Errorf("provider was called %d times, want 0", len(client.calls))
	}
}

func TestRegisterProviderErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"email in use", idp.NewError(idp.CodeEmailInUse, "EMAIL_EXISTS"),
			"Email is already registered. Please use a different email or login."},
		{"weak password", idp.NewError(idp.CodeWeakPassword, "WEAK_PASSWORD : too short"),
			"Password is too weak. Please choose a stronger password."},
		{"anything else", idp.NewError(idp.CodeUnknown, "OPERATION_NOT_ALLOWED"),
			"Registration failed. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{signUpErr: tt.err}
			register := NewRegister(client)

			res := register.Submit(context.Background(), "a@b.com", "secret1", "secret1")
			if res.Error != tt.want {
				t.Errorf("error = %q, want %q", res.Error, tt.want)
			}
			if res.Redirect != "" {
				t.Errorf("failure must not navigate, got %q", res.Redirect)
			}
		})
	}
}

func TestRegisterSuccessNavigates(t *testing.T) {
	client := &fakeClient{}
	register := NewRegister(client)

	res := register.Submit(context.Background(), "a@b.com", "secret1", "secret1")
	if res.Redirect != "/dashboard" {
		t.Errorf("redirect = %q, want /dashboard", res.Redirect)
	}
}

func TestResetUnregisteredEmailShortCircuits(t *testing.T) {
	// The probe reports the email as unknown, so no reset email is
	// dispatched and an error toast is raised.
	client := &fakeClient{signInErr: idp.NewError(idp.CodeUserNotFound, "EMAIL_NOT_FOUND")}
	toasts := notify.NewCenter(time.Minute)
	reset := NewReset(client, toasts)

	res := reset.Submit(context.Background(), "nobody@example.com")
	if res.Error != "This email is not registered. Please check your email or create a new account." {
		t.Errorf("unexpected error: %q", res.Error)
	}
	if got := client.callCount("sendReset"); got != 0 {
		t.Errorf("reset email dispatched %d times, want 0", got)
	}

	active := toasts.Active()
	if len(active) != 1 || active[0].Severity != notify.SeverityError {
		t.Errorf("expected one error toast, got %+v", active)
	}
}

func TestResetRegisteredEmailSucceeds(t *testing.T) {
	// Probe reports registered (wrong-password), dispatch succeeds:
	// success message, success toast, input cleared.
	client := &fakeClient{signInErr: idp.NewError(idp.CodeWrongPassword, "INVALID_PASSWORD")}
	toasts := notify.NewCenter(time.Minute)
	reset := NewReset(client, toasts)

	res := reset.Submit(context.Background(), "a@b.com")
	if res.Error != "" {
		t.Fatalf("unexpected error: %q", res.Error)
	}
	if res.Message != "Password reset email sent successfully! Please check your inbox and spam folder." {
		t.Errorf("unexpected message: %q", res.Message)
	}
	if !res.ClearInput {
		t.Error("success must clear the input field")
	}
	if got := client.callCount("sendReset"); got != 1 {
		t.Errorf("reset email dispatched %d times, want 1", got)
	}

	active := toasts.Active()
	if len(active) != 1 || active[0].Severity != notify.SeveritySuccess {
		t.Errorf("expected one success toast, got %+v", active)
	}
}

func TestResetDispatchFailure(t *testing.T) {
	// Probe passes but the dispatch itself fails; the error is
	// classified and toasted, and the screen stays interactive.
	client := &fakeClient{
		signInErr: idp.NewError(idp.CodeWrongPassword, "INVALID_PASSWORD"),
		resetErr:  idp.NewError(idp.CodeTooManyRequests, "TOO_MANY_ATTEMPTS_TRY_LATER"),
	}
	toasts := notify.NewCenter(time.Minute)
	reset := NewReset(client, toasts)

	res := reset.Submit(context.Background(), "a@b.com")
	if res.Error != "Too many requests. Please wait a moment before trying again." {
		t.Errorf("unexpected error: %q", res.Error)
	}
	if res.Message != "" {
		t.Errorf("error and success message are mutually exclusive, got message %q", res.Message)
	}
}
