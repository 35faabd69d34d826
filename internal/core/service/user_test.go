package service_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	. "userapp/pkg/test"

	"userapp/internal/adapter/database/sqlite/repository"
	"userapp/internal/core/domain"
	"userapp/internal/core/service"
)

type UserServiceTestSuite struct {
	suite.Suite
	Service *service.UserService
}

func (s *UserServiceTestSuite) SetupTest() {
	db := InitTestDB()

	s.Service = service.NewUserService(repository.NewUserRepository(db, nil))
}

func TestUserServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) TestService_Create_SetsTimestamps() {
	before := time.Now().UTC()

	user, err := s.Service.Create(context.Background(), "Alice", "alice@example.com", nil)

	Expect(err).To(BeNil())
	Expect(user.CreatedAt.Before(before)).To(BeFalse())
	Expect(user.CreatedAt).To(Equal(user.UpdatedAt))
}

func (s *UserServiceTestSuite) TestService_Create_DuplicateEmail() {
	_, err := s.Service.Create(context.Background(), "Alice", "alice@example.com", nil)
	Expect(err).To(BeNil())

	_, err = s.Service.Create(context.Background(), "Other", "alice@example.com", nil)

	Expect(err).To(MatchError(domain.ErrEmailTaken))
}

func (s *UserServiceTestSuite) TestService_Update_EmptyPatchRefreshesUpdatedAt() {
	user, _ := s.Service.Create(context.Background(), "Alice", "alice@example.com", nil)

	time.Sleep(5 * time.Millisecond)

	updated, err := s.Service.Update(context.Background(), user.ID, domain.UserPatch{})

	Expect(err).To(BeNil())
	Expect(updated.Name).To(Equal("Alice"))
	Expect(updated.UpdatedAt.After(user.UpdatedAt)).To(BeTrue())
}

func (s *UserServiceTestSuite) TestService_Update_PartialFields() {
	age := 30
	user, _ := s.Service.Create(context.Background(), "Alice", "alice@example.com", &age)

	updated, err := s.Service.Update(context.Background(), user.ID, domain.UserPatch{
		Email: domain.Some("alicia@example.com"),
	})

	Expect(err).To(BeNil())
	Expect(updated.Email).To(Equal("alicia@example.com"))
	Expect(updated.Name).To(Equal("Alice"))
	Expect(*updated.Age).To(Equal(30))
}

func (s *UserServiceTestSuite) TestService_Delete_ReturnsDeletedUser() {
	user, _ := s.Service.Create(context.Background(), "Alice", "alice@example.com", nil)

	deleted, err := s.Service.Delete(context.Background(), user.ID)

	Expect(err).To(BeNil())
	Expect(deleted.ID).To(Equal(user.ID))

	_, err = s.Service.GetByID(context.Background(), user.ID)
	Expect(err).To(MatchError(domain.ErrUserNotFound))
}
