package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/storely/auth-service/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	byID map[string]domain.User

	// injected errors (if set, method returns error)
	getErr     error
	createErr  error
	saveErr    error
	addRoleErr error
	rmRoleErr  error
	countErr   error
	listErr    error

	// record calls
	saves int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]domain.User{}}
}

func (f *fakeUserRepo) put(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
}

func (f *fakeUserRepo) get(id string) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	for _, u := range f.byID {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.User{}, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) Save(ctx context.Context, u domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.saveErr != nil {
		return f.saveErr
	}
	if _, ok := f.byID[u.ID]; !ok {
		return domain.ErrUserNotFound()
	}
	f.byID[u.ID] = u
	f.saves++
	return nil
}

func (f *fakeUserRepo) AddRole(ctx context.Context, userID string, roleID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.addRoleErr != nil {
		return f.addRoleErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	r, ok := domain.RoleFromID(roleID)
	if !ok {
		return errors.New("unknown role")
	}
	if !u.HasRole(r) {
		u.Roles = append(u.Roles, r)
		f.byID[userID] = u
	}
	return nil
}

func (f *fakeUserRepo) RemoveRole(ctx context.Context, userID string, roleID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.rmRoleErr != nil {
		return f.rmRoleErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	keep := u.Roles[:0]
	for _, r := range u.Roles {
		if r.ID != roleID {
			keep = append(keep, r)
		}
	}
	u.Roles = keep
	f.byID[userID] = u
	return nil
}

func (f *fakeUserRepo) CountActiveByRole(ctx context.Context, roleID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for _, u := range f.byID {
		if !u.Active {
			continue
		}
		for _, r := range u.Roles {
			if r.ID == roleID {
				n++
			}
		}
	}
	return n, nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

type fakePermRepo struct {
	// grants overrides domain.DefaultGrants when set
	grants map[int][]string
	err    error
}

func (f *fakePermRepo) PermissionsForRoles(ctx context.Context, roleIDs []int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	grants := f.grants
	if grants == nil {
		grants = map[int][]string{}
		for roleID, permIDs := range domain.DefaultGrants {
			for _, pid := range permIDs {
				p, _ := domain.PermissionFromID(pid)
				grants[roleID] = append(grants[roleID], p.Name)
			}
		}
	}
	var out []string
	for _, id := range roleIDs {
		out = append(out, grants[id]...)
	}
	return out, nil
}

type fakeHasher struct {
	hashFn    func(pw string) (string, error)
	compareFn func(hash, pw string) error
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(password)
	}
	return "hash:" + password, nil
}

func (h *fakeHasher) Compare(hash string, password string) error {
	if h.compareFn != nil {
		return h.compareFn(hash, password)
	}
	if hash == "hash:"+password {
		return nil
	}
	return errors.New("mismatch")
}

// fakeIssuer mints sequenced opaque tokens and remembers the subject and
// expiry of everything it issued, so rotation is observable.
type fakeIssuer struct {
	mu  sync.Mutex
	seq int

	subjects map[string]string
	expiries map[string]time.Time

	issueErr   error
	extractErr error
}

func newFakeIssuer() *fakeIssuer {
	return &fakeIssuer{
		subjects: map[string]string{},
		expiries: map[string]time.Time{},
	}
}

// register makes an externally crafted token known to the fake.
func (s *fakeIssuer) register(token, userID string, exp time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects[token] = userID
	s.expiries[token] = exp
}

func (s *fakeIssuer) IssueAccessToken(userID string, permissions []string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.issueErr != nil {
		return "", s.issueErr
	}
	s.seq++
	tok := fmt.Sprintf("at-%s-%d-%s", userID, s.seq, strings.Join(permissions, ","))
	s.subjects[tok] = userID
	s.expiries[tok] = time.Now().Add(15 * time.Minute)
	return tok, nil
}

func (s *fakeIssuer) IssueRefreshToken(userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.issueErr != nil {
		return "", s.issueErr
	}
	s.seq++
	tok := fmt.Sprintf("rt-%s-%d", userID, s.seq)
	s.subjects[tok] = userID
	s.expiries[tok] = time.Now().Add(7 * 24 * time.Hour)
	return tok, nil
}

func (s *fakeIssuer) VerifyAccessToken(token string) (TokenClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid, ok := s.subjects[token]
	if !ok {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	return TokenClaims{UserID: uid, Exp: s.expiries[token]}, nil
}

func (s *fakeIssuer) ExtractSubject(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.extractErr != nil {
		return "", s.extractErr
	}
	uid, ok := s.subjects[token]
	if !ok {
		return "", domain.ErrTokenInvalid()
	}
	return uid, nil
}

func (s *fakeIssuer) TokenExpiry(token string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.expiries[token]
	if !ok {
		return time.Time{}, domain.ErrTokenInvalid()
	}
	return exp, nil
}

type fakePublisher struct {
	registeredErr error
	lockedOutErr  error

	registered []UserRegisteredEvent
	lockedOut  []UserLockedOutEvent
}

func (p *fakePublisher) PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error {
	if p.registeredErr != nil {
		return p.registeredErr
	}
	p.registered = append(p.registered, evt)
	return nil
}

func (p *fakePublisher) PublishUserLockedOut(ctx context.Context, evt UserLockedOutEvent) error {
	if p.lockedOutErr != nil {
		return p.lockedOutErr
	}
	p.lockedOut = append(p.lockedOut, evt)
	return nil
}

/*
Service factory for tests
*/

type svcFixture struct {
	svc    *Service
	users  *fakeUserRepo
	perms  *fakePermRepo
	hasher *fakeHasher
	issuer *fakeIssuer
	pub    *fakePublisher
	audits *[]auditEntry
}

func newSvcForTest(t *testing.T) svcFixture {
	t.Helper()

	users := newFakeUserRepo()
	perms := &fakePermRepo{}
	hasher := &fakeHasher{}
	issuer := newFakeIssuer()
	pub := &fakePublisher{}

	audits := &[]auditEntry{}
	cfg := Config{
		AccessTTL:       15 * time.Minute,
		AccessFailedMax: 3,
		LockoutDuration: 5 * time.Minute,
	}

	svc := NewService(users, perms, hasher, issuer, pub, cfg).
		WithAudit(func(action string, fields map[string]string) {
			cp := map[string]string{}
			for k, v := range fields {
				cp[k] = v
			}
			*audits = append(*audits, auditEntry{action: action, fields: cp})
		})

	return svcFixture{
		svc:    svc,
		users:  users,
		perms:  perms,
		hasher: hasher,
		issuer: issuer,
		pub:    pub,
		audits: audits,
	}
}

// activeUser seeds a plain Registered user with password "pw-"+id.
func (fx svcFixture) activeUser(id, username, email string) domain.User {
	u := domain.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: "hash:pw-" + id,
		Active:       true,
		Roles:        []domain.Role{domain.RoleRegistered},
	}
	fx.users.put(u)
	return u
}

/*
Small assertions
*/

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}

func metaOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *domain.Error, got %T (%v)", err, err)
	}
	return de.Meta
}

func lastAudit(audits *[]auditEntry) (auditEntry, bool) {
	if audits == nil || len(*audits) == 0 {
		return auditEntry{}, false
	}
	return (*audits)[len(*audits)-1], true
}

func requireAuditAction(t *testing.T, audits *[]auditEntry, wantAction string) auditEntry {
	t.Helper()
	e, ok := lastAudit(audits)
	if !ok {
		t.Fatalf("expected audit entry, got none")
	}
	if e.action != wantAction {
		t.Fatalf("expected audit action %q, got %q", wantAction, e.action)
	}
	return e
}
