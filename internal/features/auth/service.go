package auth

import (
	"context"
	"errors"
	"sort"

	"go-pipeline/internal/models"
	"go-pipeline/internal/remote"
	"go-pipeline/internal/state"
	"go-pipeline/pkg/utils"

	"go.uber.org/zap"
)

var ErrUnknownRole = errors.New("auth: unknown role")

// LoginLists are the name lists the login screen offers.
type LoginLists struct {
	SalesPersons []string `json:"salesPersons"`
	Interns      []string `json:"interns"`
}

type AuthService interface {
	// FetchLoginLists pulls the user sheet and splits it into the two
	// selectable name lists.
	FetchLoginLists(ctx context.Context) (LoginLists, error)
	// Login authenticates against the record store and, on success, opens
	// the local session and returns its token.
	Login(ctx context.Context, name, password, storeRole string) (string, models.Role, error)
	Logout()
	// PrimarySalesPerson derives which salesperson an intern mostly works
	// for: the most frequent owner among the intern's contacts.
	PrimarySalesPerson(internName string) string

	ListUsers(ctx context.Context) ([]models.User, error)
	AddUser(ctx context.Context, user models.User) error
	UpdateUser(ctx context.Context, user models.User) error
	DeleteUser(ctx context.Context, userRow int) error
}

type AuthServiceImpl struct {
	Remote remote.Client
	State  *state.AppState
	Logger *zap.Logger
}

func NewAuthService(client remote.Client, appState *state.AppState, logger *zap.Logger) AuthService {
	return &AuthServiceImpl{
		Remote: client,
		State:  appState,
		Logger: logger,
	}
}

func (s *AuthServiceImpl) FetchLoginLists(ctx context.Context) (LoginLists, error) {
	users, err := s.Remote.ListUsers(ctx)
	if err != nil {
		return LoginLists{}, err
	}

	lists := LoginLists{SalesPersons: []string{}, Interns: []string{}}
	for _, user := range users {
		switch user.Role {
		case models.StoreRoleSalesPerson:
			lists.SalesPersons = append(lists.SalesPersons, user.Name)
		case models.StoreRoleIntern:
			lists.Interns = append(lists.Interns, user.Name)
		}
	}
	sort.Strings(lists.SalesPersons)
	sort.Strings(lists.Interns)
	return lists, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, name, password, storeRole string) (string, models.Role, error) {
	role, err := sessionRole(storeRole)
	if err != nil {
		return "", "", err
	}

	if err := s.Remote.Authenticate(ctx, name, password, storeRole); err != nil {
		return "", "", err
	}

	token, err := utils.GenerateToken(name, string(role))
	if err != nil {
		return "", "", err
	}

	s.State.SetSession(name, role)
	s.Logger.Info("session opened", zap.String("user", name), zap.String("role", string(role)))
	return token, role, nil
}

func (s *AuthServiceImpl) Logout() {
	if session, ok := s.State.Session(); ok {
		s.Logger.Info("session closed", zap.String("user", session.User))
	}
	s.State.Clear()
}

func (s *AuthServiceImpl) PrimarySalesPerson(internName string) string {
	counts := make(map[string]int)
	for _, c := range s.State.Snapshot().Contacts {
		if c.InternName == internName && c.SalesPerson != "" {
			counts[c.SalesPerson]++
		}
	}

	primary := ""
	best := 0
	for person, n := range counts {
		if n > best || (n == best && primary != "" && person < primary) {
			primary = person
			best = n
		}
	}
	return primary
}

func (s *AuthServiceImpl) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Remote.ListUsers(ctx)
}

func (s *AuthServiceImpl) AddUser(ctx context.Context, user models.User) error {
	return s.Remote.AddUser(ctx, user)
}

func (s *AuthServiceImpl) UpdateUser(ctx context.Context, user models.User) error {
	return s.Remote.UpdateUser(ctx, user)
}

func (s *AuthServiceImpl) DeleteUser(ctx context.Context, userRow int) error {
	return s.Remote.DeleteUser(ctx, userRow)
}

func sessionRole(storeRole string) (models.Role, error) {
	switch storeRole {
	case models.StoreRoleSalesPerson:
		return models.RoleSalesPerson, nil
	case models.StoreRoleIntern:
		return models.RoleIntern, nil
	case models.StoreRoleAdmin:
		return models.RoleAdmin, nil
	default:
		return "", ErrUnknownRole
	}
}
