package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/krishirakshak/krishirakshak/internal/dbx"
	"github.com/krishirakshak/krishirakshak/internal/logging"
	"github.com/krishirakshak/krishirakshak/internal/server/auth"
	"github.com/krishirakshak/krishirakshak/internal/server/models"
	"github.com/krishirakshak/krishirakshak/internal/server/repositories/profiles"
	"github.com/krishirakshak/krishirakshak/internal/server/repositories/repomanager"
	usersrepo "github.com/krishirakshak/krishirakshak/internal/server/repositories/users"
)

const testIterations = 1000

// newSQLiteDB returns a migrated in-memory database.
func newSQLiteDB(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	rm, err := repomanager.New("sqlite")
	require.NoError(t, err)
	require.NoError(t, rm.RunMigrations(context.Background(), db))
	return db, rm
}

func newTokens() *auth.TokenService {
	return auth.NewTokenService(auth.SigningConfig{
		Secret:    []byte("test-secret"),
		Issuer:    "krishirakshak-ai",
		AccessTTL: time.Hour,
	})
}

func newTestUserService(db *sql.DB, rm repomanager.RepositoryManager) *UserService {
	return NewUserService(db, rm, auth.NewPasswordHasher(testIterations), newTokens(), logging.Nop())
}

// fakeUsersRepo and fakeRepoManager let tests force repository failures.
type fakeUsersRepo struct {
	createErr error
	getOut    *models.User
	getErr    error
	created   *models.User
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.created = u
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = 1
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeProfilesRepo struct {
	getOut *models.FarmProfile
	err    error
	gets   int
}

func (f *fakeProfilesRepo) Get(context.Context, int64) (*models.FarmProfile, error) {
	f.gets++
	if f.err != nil {
		return nil, f.err
	}
	return f.getOut, nil
}

func (f *fakeProfilesRepo) UpsertLocation(context.Context, int64, models.Location, time.Time) error {
	return f.err
}

func (f *fakeProfilesRepo) UpsertSoilFarm(context.Context, int64, models.SoilFarmDetails, time.Time) error {
	return f.err
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakeProfilesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository     { return m.u }
func (m *fakeRepoManager) Profiles(db dbx.DBTX) profiles.Repository   { return m.p }

func fp(v float64) *float64 { return &v }
func sp(v string) *string   { return &v }
