package handlers_test

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestForgotUnknownEmailIssuesNothing(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "alice", "alice@example.com", "hunter2hunter2")

	c := app.client(t)
	rec := c.postForm("/forgot", url.Values{"email": {"nobody@example.com"}})
	wantRedirect(t, rec, "/forgot")

	if len(app.mailer.sent) != 0 {
		t.Error("mail sent for unknown email")
	}
	user, _ := app.users.GetUserByUsername(context.Background(), "alice")
	if user.ResetPasswordToken != "" {
		t.Error("token issued for a different account")
	}

	rec = c.get("/forgot")
	if !strings.Contains(rec.Body.String(), "No account with that email address exists.") {
		t.Errorf("unknown-email flash missing from %s", rec.Body.String())
	}
}

func TestForgotKnownEmailMailsResetLink(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "alice", "alice@example.com", "hunter2hunter2")

	c := app.client(t)
	rec := c.postForm("/forgot", url.Values{"email": {"alice@example.com"}})
	wantRedirect(t, rec, "/forgot")

	user, _ := app.users.GetUserByUsername(context.Background(), "alice")
	if user.ResetPasswordToken == "" {
		t.Fatal("no reset token stored")
	}
	if len(user.ResetPasswordToken) != 40 {
		t.Errorf("token length = %d, want 40 hex chars", len(user.ResetPasswordToken))
	}

	if len(app.mailer.sent) != 1 {
		t.Fatalf("mails sent = %d, want 1", len(app.mailer.sent))
	}
	mail := app.mailer.sent[0]
	if mail.To != "alice@example.com" {
		t.Errorf("mail to = %q", mail.To)
	}
	if !strings.Contains(mail.Body, "/reset/"+user.ResetPasswordToken) {
		t.Error("mail body missing the reset link")
	}
}

func TestResetInvalidTokenRedirects(t *testing.T) {
	app := newTestApp(t)
	c := app.client(t)

	rec := c.get("/reset/bogus-token")
	wantRedirect(t, rec, "/forgot")

	rec = c.get("/forgot")
	if !strings.Contains(rec.Body.String(), "Password reset token is invalid or has expired.") {
		t.Errorf("invalid-token flash missing from %s", rec.Body.String())
	}
}

func TestResetMismatchedConfirmKeepsToken(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "alice", "alice@example.com", "hunter2hunter2")

	c := app.client(t)
	c.postForm("/forgot", url.Values{"email": {"alice@example.com"}})
	ctx := context.Background()
	user, _ := app.users.GetUserByUsername(ctx, "alice")
	token := user.ResetPasswordToken

	rec := c.postForm("/reset/"+token, url.Values{
		"password": {"new-password-1"},
		"confirm":  {"new-password-2"},
	})
	wantRedirect(t, rec, "/reset/"+token)

	if _, err := app.users.GetUserByResetToken(ctx, token); err != nil {
		t.Error("token consumed by a failed attempt")
	}
	user, _ = app.users.GetUserByUsername(ctx, "alice")
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("hunter2hunter2")); err != nil {
		t.Error("password changed by a failed attempt")
	}
}

func TestResetSuccessChangesPasswordAndSignsIn(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "alice", "alice@example.com", "hunter2hunter2")

	c := app.client(t)
	c.postForm("/forgot", url.Values{"email": {"alice@example.com"}})
	ctx := context.Background()
	user, _ := app.users.GetUserByUsername(ctx, "alice")
	token := user.ResetPasswordToken

	rec := c.postForm("/reset/"+token, url.Values{
		"password": {"brand-new-secret"},
		"confirm":  {"brand-new-secret"},
	})
	wantRedirect(t, rec, "/blogs")

	user, _ = app.users.GetUserByUsername(ctx, "alice")
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("brand-new-secret")); err != nil {
		t.Error("new password not stored")
	}
	if user.ResetPasswordToken != "" {
		t.Error("token not cleared after a successful reset")
	}
	if len(app.mailer.sent) != 2 {
		t.Errorf("mails sent = %d, want reset link plus confirmation", len(app.mailer.sent))
	}

	rec = c.get("/blogs")
	if !strings.Contains(rec.Body.String(), "Success! Your password has been changed.") {
		t.Errorf("success flash missing from %s", rec.Body.String())
	}

	rec = c.get("/blogs/new")
	if rec.Code != 200 {
		t.Errorf("reset did not sign the user in, /blogs/new = %d", rec.Code)
	}
}

func TestResetTokenIsSingleUse(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "alice", "alice@example.com", "hunter2hunter2")

	c := app.client(t)
	c.postForm("/forgot", url.Values{"email": {"alice@example.com"}})
	user, _ := app.users.GetUserByUsername(context.Background(), "alice")
	token := user.ResetPasswordToken

	c.postForm("/reset/"+token, url.Values{
		"password": {"brand-new-secret"},
		"confirm":  {"brand-new-secret"},
	})

	rec := c.get("/reset/" + token)
	wantRedirect(t, rec, "/forgot")
}
