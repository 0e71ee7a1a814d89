package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cleanup-ventures/internal/database"
	"cleanup-ventures/internal/models"
	"cleanup-ventures/internal/repository"
)

var testDBSeq atomic.Int64

// setupTestDB opens a uniquely-named shared in-memory sqlite database so
// every connection in gorm's pool sees the same data. The sequence number
// keeps repeated runs of one test from reusing an earlier database, and the
// pool is capped at one connection so concurrent transactions queue instead
// of tripping sqlite's write locking.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect database")

	sqlDB, err := db.DB()
	require.NoError(t, err, "failed to access connection pool")
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db), "failed to migrate database")
	return db
}

type testServices struct {
	db         *gorm.DB
	repo       *repository.Repository
	wallets    *WalletService
	settlement *SettlementService
	ventures   *VentureService
	membership *MembershipService
	requests   *RequestService
	tasks      *TaskService
}

func newTestServices(t *testing.T, startingBalance int64) *testServices {
	t.Helper()
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	wallets := NewWalletService(db, repo, startingBalance, nil)
	settlement := NewSettlementService(db, repo, wallets, nil)
	return &testServices{
		db:         db,
		repo:       repo,
		wallets:    wallets,
		settlement: settlement,
		ventures:   NewVentureService(db, repo, settlement, nil),
		membership: NewMembershipService(db, repo, settlement, nil),
		requests:   NewRequestService(db, repo, settlement, nil),
		tasks:      NewTaskService(db, repo),
	}
}

// createVenture launches a venture owned by the given user and returns it.
func createVenture(t *testing.T, s *testServices, owner string) *models.Venture {
	t.Helper()
	venture, err := s.ventures.Create(context.Background(), CreateVentureInput{
		Name:             "Riverbank cleanup",
		Description:      "Clear the south riverbank",
		Budget:           1000,
		EAC:              100,
		OwnerUsername:    owner,
		OwnerDisplayName: owner,
		OwnerRole:        models.RoleVolunteer,
	})
	require.NoError(t, err)
	return venture
}

// approveJoin submits and approves a join request with the given pitch.
func approveJoin(t *testing.T, s *testServices, ventureID uint, user string, pitch int64) *models.JoinRequest {
	t.Helper()
	ctx := context.Background()
	request, err := s.requests.Submit(ctx, SubmitJoinRequestInput{
		VentureID:    ventureID,
		AuthUsername: user,
		DisplayName:  user,
		Role:         models.RoleContributingVolunteer,
		Privilege:    models.PrivilegeViewer,
		Pitch:        pitch,
	})
	require.NoError(t, err)

	request, err = s.requests.Approve(ctx, ventureID, request.ID)
	require.NoError(t, err)
	return request
}
