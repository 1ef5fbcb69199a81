// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package auth_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duybui/inkwell/internal/auth"
	"github.com/duybui/inkwell/internal/platform/apperr"
	"github.com/duybui/inkwell/internal/platform/sec"
)

// # Test Fakes

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu       sync.Mutex
	byID     map[string]*auth.User
	failFind bool // simulates an internal store error on every lookup
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*auth.User{}}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFind {
		return nil, errors.New("store offline")
	}
	if user, ok := r.byID[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFind {
		return nil, errors.New("store offline")
	}
	for _, user := range r.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFind {
		return nil, errors.New("store offline")
	}
	for _, user := range r.byID {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Username == user.Username {
			return apperr.ConflictField(auth.FieldUsername, "Username already exists")
		}
		if existing.Email == user.Email {
			return apperr.ConflictField(auth.FieldEmail, "Email already exists")
		}
	}
	copied := *user
	r.byID[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID, newHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

// fakeRefreshRepo is an in-memory RefreshTokenRepository keyed by token hash.
type fakeRefreshRepo struct {
	mu      sync.Mutex
	records map[string]*auth.RefreshTokenRecord
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{records: map[string]*auth.RefreshTokenRecord{}}
}

func (r *fakeRefreshRepo) Store(_ context.Context, record *auth.RefreshTokenRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *record
	r.records[record.TokenHash] = &copied
	return nil
}

func (r *fakeRefreshRepo) ConsumeIfValid(_ context.Context, tokenHash, userID string) (time.Time, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[tokenHash]
	if !ok || record.UserID != userID {
		return time.Time{}, false, nil
	}
	delete(r.records, tokenHash)
	return record.ExpiresAt, true, nil
}

func (r *fakeRefreshRepo) RevokeOne(_ context.Context, tokenHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[tokenHash]
	delete(r.records, tokenHash)
	return ok, nil
}

func (r *fakeRefreshRepo) RevokeAllForUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, record := range r.records {
		if record.UserID == userID {
			delete(r.records, hash)
		}
	}
	return nil
}

func (r *fakeRefreshRepo) RevokeOthers(_ context.Context, userID, keepTokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, record := range r.records {
		if record.UserID == userID && hash != keepTokenHash {
			delete(r.records, hash)
		}
	}
	return nil
}

func (r *fakeRefreshRepo) DeleteExpired(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, record := range r.records {
		if record.ExpiresAt.Before(time.Now()) {
			delete(r.records, hash)
		}
	}
	return nil
}

func (r *fakeRefreshRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// backdate rewrites a stored record's expiry, simulating an aged token.
func (r *fakeRefreshRepo) backdate(tokenHash string, expiresAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record, ok := r.records[tokenHash]; ok {
		record.ExpiresAt = expiresAt
	}
}

// fakeResetRepo mimics the Redis dual-key scheme in memory.
type fakeResetRepo struct {
	mu      sync.Mutex
	byHash  map[string]string // tokenHash -> userID
	byUser  map[string]string // userID -> tokenHash
	expiry  map[string]time.Time
	failSet bool
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{
		byHash: map[string]string{},
		byUser: map[string]string{},
		expiry: map[string]time.Time{},
	}
}

func (r *fakeResetRepo) Set(_ context.Context, userID, tokenHash string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSet {
		return errors.New("store offline")
	}
	if previous, ok := r.byUser[userID]; ok {
		delete(r.byHash, previous)
		delete(r.expiry, previous)
	}
	r.byHash[tokenHash] = userID
	r.byUser[userID] = tokenHash
	r.expiry[tokenHash] = time.Now().Add(ttl)
	return nil
}

func (r *fakeResetRepo) Get(_ context.Context, tokenHash string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, ok := r.byHash[tokenHash]
	if !ok || r.expiry[tokenHash].Before(time.Now()) {
		return "", auth.ErrResetTokenNotFound
	}
	return userID, nil
}

func (r *fakeResetRepo) Delete(_ context.Context, userID, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byHash, tokenHash)
	delete(r.expiry, tokenHash)
	delete(r.byUser, userID)
	return nil
}

// fakeMailer captures outgoing reset tokens instead of sending email.
type fakeMailer struct {
	mu         sync.Mutex
	recipients []string
	tokens     []string
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, recipient, resetToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recipients = append(m.recipients, recipient)
	m.tokens = append(m.tokens, resetToken)
	return nil
}

func (m *fakeMailer) lastToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.tokens) == 0 {
		return ""
	}
	return m.tokens[len(m.tokens)-1]
}

// # Test Harness

type harness struct {
	service *auth.Service
	users   *fakeUserRepo
	refresh *fakeRefreshRepo
	resets  *fakeResetRepo
	mailer  *fakeMailer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	codec, err := sec.NewCodec("access-test-secret", "refresh-test-secret", time.Minute, time.Hour, "inkwell.blog")
	require.NoError(t, err)

	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	resets := newFakeResetRepo()
	mailer := &fakeMailer{}

	// MinCost keeps the bcrypt work cheap in tests.
	hasher := sec.NewHasher(4, 2)

	service := auth.NewService(users, refresh, resets, hasher, codec, mailer, 30*time.Minute)

	return &harness{
		service: service,
		users:   users,
		refresh: refresh,
		resets:  resets,
		mailer:  mailer,
	}
}

func (h *harness) register(t *testing.T, username, email, password string) *auth.Session {
	t.Helper()
	session, err := h.service.Register(context.Background(), auth.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	require.NotNil(t, session)
	return session
}

// # Registration & Login

/*
TestRegister_IssuesSessionAndRejectsDuplicates verifies that registration
returns a usable token pair and that duplicate identities conflict with the
offending field named.
*/
func TestRegister_IssuesSessionAndRejectsDuplicates(t *testing.T) {
	h := newHarness(t)

	session := h.register(t, "duybui", "duy@example.com", "correct-horse-1")
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, "duybui", session.User.Username)
	assert.NotEqual(t, "correct-horse-1", session.User.PasswordHash)
	assert.Equal(t, 1, h.refresh.count())

	// Duplicate username
	_, err := h.service.Register(context.Background(), auth.RegisterInput{
		Username: "duybui", Email: "other@example.com", Password: "correct-horse-1",
	})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
	assert.Equal(t, auth.FieldUsername, ae.Details[0].Field)

	// Duplicate email
	_, err = h.service.Register(context.Background(), auth.RegisterInput{
		Username: "someoneelse", Email: "duy@example.com", Password: "correct-horse-1",
	})
	require.Error(t, err)
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, auth.FieldEmail, ae.Details[0].Field)
}

/*
TestLogin_GenericFailure ensures that an unknown identity and a wrong
password are externally indistinguishable.
*/
func TestLogin_GenericFailure(t *testing.T) {
	h := newHarness(t)
	h.register(t, "duybui", "duy@example.com", "correct-horse-1")

	_, unknownErr := h.service.Login(context.Background(), auth.LoginInput{
		Login: "nobody@example.com", Password: "whatever123",
	})
	_, wrongPassErr := h.service.Login(context.Background(), auth.LoginInput{
		Login: "duy@example.com", Password: "wrong-password",
	})

	require.Error(t, unknownErr)
	require.Error(t, wrongPassErr)
	assert.Equal(t, unknownErr.Error(), wrongPassErr.Error())
	assert.Equal(t, apperr.As(unknownErr).Code, apperr.As(wrongPassErr).Code)
}

/*
TestLogin_StoreFailureIsNotAnAuthVerdict ensures that a broken user store
surfaces as an internal error, never as a credentials rejection.
*/
func TestLogin_StoreFailureIsNotAnAuthVerdict(t *testing.T) {
	h := newHarness(t)
	h.register(t, "duybui", "duy@example.com", "correct-horse-1")

	h.users.failFind = true
	_, err := h.service.Login(context.Background(), auth.LoginInput{
		Login: "duy@example.com", Password: "correct-horse-1",
	})
	h.users.failFind = false

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	assert.NotEqual(t, "UNAUTHORIZED", appErr.Code)
}

/*
TestLogin_ByUsernameOrEmail verifies the flexible login lookup.
*/
func TestLogin_ByUsernameOrEmail(t *testing.T) {
	h := newHarness(t)
	h.register(t, "duybui", "duy@example.com", "correct-horse-1")

	byEmail, err := h.service.Login(context.Background(), auth.LoginInput{
		Login: "duy@example.com", Password: "correct-horse-1",
	})
	require.NoError(t, err)

	byUsername, err := h.service.Login(context.Background(), auth.LoginInput{
		Login: "duybui", Password: "correct-horse-1",
	})
	require.NoError(t, err)

	assert.Equal(t, byEmail.User.ID, byUsername.User.ID)
}

// # Token Rotation

/*
TestRefresh_RotationIsSingleUse walks the full replay scenario: a rotated
token can never refresh again, and replaying it kills its successor too.
*/
func TestRefresh_RotationIsSingleUse(t *testing.T) {
	h := newHarness(t)
	first := h.register(t, "duybui", "duy@example.com", "correct-horse-1")

	// First rotation succeeds and yields a different raw token.
	second, err := h.service.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// Replaying the consumed token fails with a generic auth error.
	_, err = h.service.Refresh(context.Background(), first.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	// The replay revoked the whole lineage: the successor is dead as well.
	_, err = h.service.Refresh(context.Background(), second.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	assert.Equal(t, 0, h.refresh.count())
}

/*
TestRefresh_ExpiredStoredRecord checks that an expired persisted record is
consumed (slot burned) and the remaining lineage revoked.
*/
func TestRefresh_ExpiredStoredRecord(t *testing.T) {
	h := newHarness(t)
	session := h.register(t, "duybui", "duy@example.com", "correct-horse-1")

	// A second live session for the same user.
	other, err := h.service.Login(context.Background(), auth.LoginInput{
		Login: "duybui", Password: "correct-horse-1",
	})
	require.NoError(t, err)
	require.Equal(t, 2, h.refresh.count())

	// Age the first record past its stored expiry. The signed token itself is
	// still within its JWT lifetime, so only the persisted check can catch it.
	h.refresh.backdate(sec.HashToken(session.RefreshToken), time.Now().Add(-time.Minute))

	_, err = h.service.Refresh(context.Background(), session.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	// Defensive cleanup took the other session down too.
	_, err = h.service.Refresh(context.Background(), other.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, 0, h.refresh.count())
}

/*
TestRefresh_RejectsForgedToken ensures a token signed with the wrong key
never reaches the store.
*/
func TestRefresh_RejectsForgedToken(t *testing.T) {
	h := newHarness(t)
	h.register(t, "duybui", "duy@example.com", "correct-horse-1")

	forgedCodec, err := sec.NewCodec("attacker-access", "attacker-refresh", time.Minute, time.Hour, "inkwell.blog")
	require.NoError(t, err)
	forged, err := forgedCodec.SignRefresh("some-user-id")
	require.NoError(t, err)

	_, err = h.service.Refresh(context.Background(), forged)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	assert.Equal(t, 1, h.refresh.count(), "legitimate session must be untouched")
}

/*
TestLogout_Idempotent verifies that revoking the same token twice reports
the same successful outcome both times.
*/
func TestLogout_Idempotent(t *testing.T) {
	h := newHarness(t)
	session := h.register(t, "duybui", "duy@example.com", "correct-horse-1")

	require.NoError(t, h.service.Logout(context.Background(), session.RefreshToken))
	assert.Equal(t, 0, h.refresh.count())

	// Second call: record already gone, still no error.
	require.NoError(t, h.service.Logout(context.Background(), session.RefreshToken))

	// The logged-out token no longer refreshes.
	_, err := h.service.Refresh(context.Background(), session.RefreshToken)
	require.Error(t, err)
}

// # Password Recovery

/*
TestForgotPassword_EnumerationResistance asserts the identical generic
outcome for unknown email, known email, and a failing store.
*/
func TestForgotPassword_EnumerationResistance(t *testing.T) {
	h := newHarness(t)
	h.register(t, "duybui", "duy@example.com", "correct-horse-1")

	// Known email: succeeds and delivers.
	assert.NoError(t, h.service.ForgotPassword(context.Background(), "duy@example.com"))
	assert.Len(t, h.mailer.tokens, 1)

	// Unknown email: same nil outcome, nothing delivered.
	assert.NoError(t, h.service.ForgotPassword(context.Background(), "ghost@example.com"))
	assert.Len(t, h.mailer.tokens, 1)

	// Forced internal error during lookup: still the same nil outcome.
	h.users.failFind = true
	assert.NoError(t, h.service.ForgotPassword(context.Background(), "duy@example.com"))
	assert.Len(t, h.mailer.tokens, 1)

	// Forced internal error during token storage: same again.
	h.users.failFind = false
	h.resets.failSet = true
	assert.NoError(t, h.service.ForgotPassword(context.Background(), "duy@example.com"))
	assert.Len(t, h.mailer.tokens, 1)
}

/*
TestForgotPassword_NewTokenInvalidatesPrior checks the at-most-one-live
invariant: issuing a replacement reset token kills the previous one.
*/
func TestForgotPassword_NewTokenInvalidatesPrior(t *testing.T) {
	h := newHarness(t)
	h.register(t, "duybui", "duy@example.com", "correct-horse-1")

	require.NoError(t, h.service.ForgotPassword(context.Background(), "duy@example.com"))
	firstToken := h.mailer.lastToken()
	require.NotEmpty(t, firstToken)

	require.NoError(t, h.service.ForgotPassword(context.Background(), "duy@example.com"))
	secondToken := h.mailer.lastToken()
	require.NotEqual(t, firstToken, secondToken)

	// The first token is dead.
	err := h.service.ResetPassword(context.Background(), firstToken, "brand-new-pass-1")
	require.Error(t, err)
	assert.Equal(t, "INVALID_TOKEN", apperr.As(err).Code)

	// The second still works.
	require.NoError(t, h.service.ResetPassword(context.Background(), secondToken, "brand-new-pass-1"))
}

/*
TestResetPassword_FullScenario walks the recovery flow end to end: reset
succeeds, pre-reset refresh tokens die, old password stops working, and the
consumed reset token cannot be reused.
*/
func TestResetPassword_FullScenario(t *testing.T) {
	h := newHarness(t)
	session := h.register(t, "duybui", "duy@example.com", "old-password-1")

	require.NoError(t, h.service.ForgotPassword(context.Background(), "duy@example.com"))
	resetToken := h.mailer.lastToken()
	require.NotEmpty(t, resetToken)

	require.NoError(t, h.service.ResetPassword(context.Background(), resetToken, "new-password-1"))

	// Every refresh token issued before the reset is gone.
	_, err := h.service.Refresh(context.Background(), session.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, 0, h.refresh.count())

	// Old password fails, new password works.
	_, err = h.service.Login(context.Background(), auth.LoginInput{
		Login: "duybui", Password: "old-password-1",
	})
	require.Error(t, err)

	_, err = h.service.Login(context.Background(), auth.LoginInput{
		Login: "duybui", Password: "new-password-1",
	})
	require.NoError(t, err)

	// The reset token was single-use.
	err = h.service.ResetPassword(context.Background(), resetToken, "another-password-1")
	require.Error(t, err)
	assert.Equal(t, "INVALID_TOKEN", apperr.As(err).Code)
}

/*
TestResetPassword_GenericInvalidToken collapses garbage and unknown tokens
into one indistinguishable outcome.
*/
func TestResetPassword_GenericInvalidToken(t *testing.T) {
	h := newHarness(t)

	garbage := h.service.ResetPassword(context.Background(), "not-a-real-token", "new-password-1")
	unknown := h.service.ResetPassword(context.Background(), "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", "new-password-1")

	require.Error(t, garbage)
	require.Error(t, unknown)
	assert.Equal(t, garbage.Error(), unknown.Error())
	assert.Equal(t, apperr.As(garbage).Code, apperr.As(unknown).Code)
}

/*
TestChangePassword_KeepsCurrentSession verifies the authenticated password
change: wrong current password is rejected, and on success every session
except the presented one is revoked.
*/
func TestChangePassword_KeepsCurrentSession(t *testing.T) {
	h := newHarness(t)
	current := h.register(t, "duybui", "duy@example.com", "old-password-1")

	other, err := h.service.Login(context.Background(), auth.LoginInput{
		Login: "duybui", Password: "old-password-1",
	})
	require.NoError(t, err)
	require.Equal(t, 2, h.refresh.count())

	userID := current.User.ID

	// Wrong current password.
	err = h.service.ChangePassword(context.Background(), userID, "wrong-password", "new-password-1", current.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	// Successful change.
	require.NoError(t, h.service.ChangePassword(context.Background(), userID, "old-password-1", "new-password-1", current.RefreshToken))

	// The other device's session is gone; the current one still rotates.
	_, err = h.service.Refresh(context.Background(), other.RefreshToken)
	require.Error(t, err)

	_, err = h.service.Refresh(context.Background(), current.RefreshToken)
	require.NoError(t, err)

	// New password is live.
	_, err = h.service.Login(context.Background(), auth.LoginInput{
		Login: "duybui", Password: "new-password-1",
	})
	require.NoError(t, err)
}
