package service_test

import (
	"context"

	userdomain "github.com/myflix/backend/internal/user/domain"
	userrepo "github.com/myflix/backend/internal/user/repository"
)

type mockUserRepo struct {
	createFunc         func(ctx context.Context, user userdomain.User) error
	findByUsernameFunc func(ctx context.Context, username string) (userdomain.User, error)
	findByIDFunc       func(ctx context.Context, id userdomain.ID) (userdomain.User, error)
	listFunc           func(ctx context.Context) ([]userdomain.User, error)
	updateFunc         func(ctx context.Context, user userdomain.User) error
	deleteFunc         func(ctx context.Context, id userdomain.ID) error
	addFavoriteFunc    func(ctx context.Context, id userdomain.ID, movieID string) error
	removeFavoriteFunc func(ctx context.Context, id userdomain.ID, movieID string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) List(ctx context.Context) ([]userdomain.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user userdomain.User) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id userdomain.ID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockUserRepo) AddFavorite(ctx context.Context, id userdomain.ID, movieID string) error {
	if m.addFavoriteFunc != nil {
		return m.addFavoriteFunc(ctx, id, movieID)
	}
	return nil
}

func (m *mockUserRepo) RemoveFavorite(ctx context.Context, id userdomain.ID, movieID string) error {
	if m.removeFavoriteFunc != nil {
		return m.removeFavoriteFunc(ctx, id, movieID)
	}
	return nil
}

type mockHasher struct {
	hashFunc   func(password string) (string, error)
	verifyFunc func(password, hash string) bool
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Verify(password, hash string) bool {
	if m.verifyFunc != nil {
		return m.verifyFunc(password, hash)
	}
	return hash == "hashed:"+password
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "id-1", nil
}
