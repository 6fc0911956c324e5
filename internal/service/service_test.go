package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"orderdesk/internal/database/dbtest"
	"orderdesk/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	db     *sql.DB
	ctx    context.Context
	users  *UserService
	orders *OrderService
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupSuite() {
	s.db = dbtest.Open(s.T())
	s.ctx = context.Background()
	s.users = NewUserService(s.db)
	s.orders = NewOrderService(s.db)
}

func (s *ServiceSuite) SetupTest() {
	dbtest.Truncate(s.T(), s.db)
}

func (s *ServiceSuite) mustRegister(name, email, password string) *model.User {
	u, err := s.users.Register(s.ctx, name, email, password)
	s.Require().NoError(err)
	return u
}

func (s *ServiceSuite) mustCreateOrder(email, description string) *model.Order {
	o, err := s.orders.Create(s.ctx, email, description)
	s.Require().NoError(err)
	return o
}

func (s *ServiceSuite) TestRegisterThenFind() {
	created := s.mustRegister("bob", "bob@x.com", "pw")
	s.NotZero(created.ID)

	found, err := s.users.FindByEmail(s.ctx, "bob@x.com")
	s.Require().NoError(err)
	s.Equal(created.ID, found.ID)
	s.Equal("bob", found.Name)
	s.NotEqual("pw", found.HashedPassword)
	s.True(CheckPassword(found.HashedPassword, "pw"))
	s.False(CheckPassword(found.HashedPassword, "pw "))
	s.False(CheckPassword(found.HashedPassword, ""))
}

func (s *ServiceSuite) TestFindByEmailIsExact() {
	s.mustRegister("bob", "bob@x.com", "pw")

	_, err := s.users.FindByEmail(s.ctx, "BOB@x.com")
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *ServiceSuite) TestDuplicateUserKeepsOriginal() {
	original := s.mustRegister("bob", "bob@x.com", "pw")

	_, err := s.users.Register(s.ctx, "impostor", "bob@x.com", "other")
	s.ErrorIs(err, ErrDuplicateUser)

	found, err := s.users.FindByEmail(s.ctx, "bob@x.com")
	s.Require().NoError(err)
	s.Equal(original.ID, found.ID)
	s.Equal("bob", found.Name)
	s.True(CheckPassword(found.HashedPassword, "pw"))
}

func (s *ServiceSuite) TestConcurrentRegistrationOnlyOneWins() {
	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		dups int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.users.Create(s.ctx, "racer", "race@x.com", "hash")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrDuplicateUser):
				dups++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, ok)
	s.Equal(n-1, dups)
}

func (s *ServiceSuite) TestVerifyCredentials() {
	s.mustRegister("bob", "bob@x.com", "pw")

	ok, err := s.users.VerifyCredentials(s.ctx, "bob@x.com", "pw")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.users.VerifyCredentials(s.ctx, "bob@x.com", "wrong")
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.users.VerifyCredentials(s.ctx, "nobody@x.com", "pw")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ServiceSuite) TestCreateOrderIsPending() {
	s.mustRegister("bob", "bob@x.com", "pw")

	a := s.mustCreateOrder("bob@x.com", "fix printer")
	b := s.mustCreateOrder("bob@x.com", "order toner")

	s.Equal(model.StatusPending, a.Status)
	s.Equal("fix printer", a.Description)
	s.Equal("bob@x.com", a.Email)
	s.NotZero(a.ID)
	s.NotEqual(a.ID, b.ID)

	found, err := s.orders.FindByID(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(a.ID, found.ID)
	s.Equal(a.Email, found.Email)
	s.Equal(a.Description, found.Description)
	s.Equal(model.StatusPending, found.Status)
	s.WithinDuration(a.CreatedAt, found.CreatedAt, 0)
}

func (s *ServiceSuite) TestCreateOrderOwnerChecks() {
	_, err := s.orders.Create(s.ctx, "", "nobody's")
	s.ErrorIs(err, ErrMissingOwner)

	_, err = s.orders.Create(s.ctx, "   ", "nobody's")
	s.ErrorIs(err, ErrMissingOwner)

	_, err = s.orders.Create(s.ctx, "ghost@x.com", "orphan")
	s.ErrorIs(err, ErrOwnerNotFound)
}

func (s *ServiceSuite) TestListByOwnerAndStatus() {
	s.mustRegister("bob", "bob@x.com", "pw")
	s.mustRegister("alice", "alice@x.com", "pw")

	first := s.mustCreateOrder("bob@x.com", "one")
	second := s.mustCreateOrder("bob@x.com", "two")
	s.mustCreateOrder("alice@x.com", "hers")

	pending, err := s.orders.ListByOwnerAndStatus(s.ctx, "bob@x.com", model.StatusPending)
	s.Require().NoError(err)
	s.Require().Len(pending, 2)
	s.Equal(first.ID, pending[0].ID)
	s.Equal(second.ID, pending[1].ID)

	processed, err := s.orders.ListByOwnerAndStatus(s.ctx, "bob@x.com", model.StatusProcessed)
	s.Require().NoError(err)
	s.NotNil(processed)
	s.Empty(processed)

	_, err = s.orders.ListByOwnerAndStatus(s.ctx, "bob@x.com", model.OrderStatus("Shipped"))
	s.ErrorIs(err, ErrInvalidStatus)
}

func (s *ServiceSuite) TestSetStatusMovesOrderBetweenLists() {
	s.mustRegister("bob", "bob@x.com", "pw")
	o := s.mustCreateOrder("bob@x.com", "fix printer")

	updated, err := s.orders.SetStatus(s.ctx, o.ID, model.StatusProcessed)
	s.Require().NoError(err)
	s.Equal(model.StatusProcessed, updated.Status)

	processed, err := s.orders.ListByOwnerAndStatus(s.ctx, "bob@x.com", model.StatusProcessed)
	s.Require().NoError(err)
	s.Require().Len(processed, 1)
	s.Equal(o.ID, processed[0].ID)

	pending, err := s.orders.ListByOwnerAndStatus(s.ctx, "bob@x.com", model.StatusPending)
	s.Require().NoError(err)
	s.Empty(pending)

	again, err := s.orders.SetStatus(s.ctx, o.ID, model.StatusProcessed)
	s.Require().NoError(err)
	s.Equal(model.StatusProcessed, again.Status)
}

func (s *ServiceSuite) TestSetStatusRejections() {
	s.mustRegister("bob", "bob@x.com", "pw")
	o := s.mustCreateOrder("bob@x.com", "fix printer")

	_, err := s.orders.SetStatus(s.ctx, o.ID+1000, model.StatusProcessed)
	s.ErrorIs(err, ErrOrderNotFound)

	_, err = s.orders.SetStatus(s.ctx, o.ID, model.OrderStatus("Shipped"))
	s.ErrorIs(err, ErrInvalidStatus)

	_, err = s.orders.SetStatus(s.ctx, o.ID, model.StatusProcessed)
	s.Require().NoError(err)

	_, err = s.orders.SetStatus(s.ctx, o.ID, model.StatusPending)
	s.ErrorIs(err, ErrInvalidTransition)

	found, err := s.orders.FindByID(s.ctx, o.ID)
	s.Require().NoError(err)
	s.Equal(model.StatusProcessed, found.Status)
}

func (s *ServiceSuite) TestDeleteAllProcessedForOwner() {
	s.mustRegister("bob", "bob@x.com", "pw")
	s.mustRegister("alice", "alice@x.com", "pw")

	keep := s.mustCreateOrder("bob@x.com", "still pending")
	for _, d := range []string{"a", "b"} {
		o := s.mustCreateOrder("bob@x.com", d)
		_, err := s.orders.SetStatus(s.ctx, o.ID, model.StatusProcessed)
		s.Require().NoError(err)
	}
	hers := s.mustCreateOrder("alice@x.com", "hers")
	_, err := s.orders.SetStatus(s.ctx, hers.ID, model.StatusProcessed)
	s.Require().NoError(err)

	n, err := s.orders.DeleteAllProcessedForOwner(s.ctx, "bob@x.com")
	s.Require().NoError(err)
	s.EqualValues(2, n)

	n, err = s.orders.DeleteAllProcessedForOwner(s.ctx, "bob@x.com")
	s.Require().NoError(err)
	s.Zero(n)

	_, err = s.orders.FindByID(s.ctx, keep.ID)
	s.NoError(err)
	_, err = s.orders.FindByID(s.ctx, hers.ID)
	s.NoError(err)
}

func (s *ServiceSuite) TestCountByStatus() {
	counts, err := s.orders.CountByStatus(s.ctx)
	s.Require().NoError(err)
	s.Equal(map[model.OrderStatus]int64{model.StatusPending: 0, model.StatusProcessed: 0}, counts)

	s.mustRegister("bob", "bob@x.com", "pw")
	s.mustCreateOrder("bob@x.com", "one")
	o := s.mustCreateOrder("bob@x.com", "two")
	_, err = s.orders.SetStatus(s.ctx, o.ID, model.StatusProcessed)
	s.Require().NoError(err)

	counts, err = s.orders.CountByStatus(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(1, counts[model.StatusPending])
	s.EqualValues(1, counts[model.StatusProcessed])
}

func (s *ServiceSuite) TestOrderLifecycleScenario() {
	s.mustRegister("bob", "bob@x.com", "pw")

	o := s.mustCreateOrder("bob@x.com", "fix printer")
	s.Equal(model.StatusPending, o.Status)

	o, err := s.orders.SetStatus(s.ctx, o.ID, model.StatusProcessed)
	s.Require().NoError(err)
	s.Equal(model.StatusProcessed, o.Status)

	n, err := s.orders.DeleteAllProcessedForOwner(s.ctx, "bob@x.com")
	s.Require().NoError(err)
	s.EqualValues(1, n)

	processed, err := s.orders.ListByOwnerAndStatus(s.ctx, "bob@x.com", model.StatusProcessed)
	s.Require().NoError(err)
	s.Empty(processed)
}
