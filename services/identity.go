package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SindhuAbhirami/civic-watch/models"
	"github.com/SindhuAbhirami/civic-watch/store"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// bcrypt only accepts passwords up to 72 bytes; max counts runes.
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= n
	})
	return v
}

// check runs struct validation and reports failures as a ValidationError.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out.Fields[fe.Field()] = "failed on the '" + rule + "' rule"
	}
	return out
}

type RegisterInput struct {
	Role       models.Role `json:"role" validate:"required,oneof=citizen official"`
	Username   string      `json:"phone" validate:"required,min=3,max=32"`
	Password   string      `json:"password" validate:"required,min=6,maxbytes=72"`
	Fullname   string      `json:"fullname" validate:"required,max=100"`
	Age        int         `json:"age" validate:"gte=0,lte=150"`
	Address    string      `json:"address" validate:"required_if=Role citizen,max=200"`
	Department string      `json:"department" validate:"required_if=Role official,max=100"`
	PhotoRef   *string     `json:"-"`
}

type ProfileUpdate struct {
	Fullname   string `json:"fullname" validate:"required,max=100"`
	Age        int    `json:"age" validate:"gte=0,lte=150"`
	Address    string `json:"address" validate:"max=200"`
	Department string `json:"department" validate:"max=100"`
}

// Identity registers and authenticates citizens and officials.
type Identity struct {
	actors store.ActorStore
	ids    *idSource
	// registerMu serializes the username check and insert of a registration.
	registerMu sync.Mutex
}

func NewIdentity(actors store.ActorStore, now func() time.Time) *Identity {
	return &Identity{actors: actors, ids: newIDSource(now)}
}

func (s *Identity) Register(ctx context.Context, in RegisterInput) (*models.PublicProfile, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := check(in); err != nil {
		return nil, err
	}

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	_, err := s.actors.FindActorByUsername(ctx, in.Role, in.Username)
	if err == nil {
		return nil, ErrDuplicateUsername
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	id, now := s.ids.next()
	actor := models.Actor{
		ID:        id,
		Username:  in.Username,
		Fullname:  in.Fullname,
		Age:       in.Age,
		Role:      in.Role,
		PhotoRef:  in.PhotoRef,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Role == models.RoleOfficial {
		actor.Official = &models.OfficialDetails{Department: in.Department}
	} else {
		actor.Citizen = &models.CitizenDetails{Address: in.Address}
	}
	if err := actor.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.actors.SaveActor(ctx, &actor); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("save actor: %w", err)
	}
	profile := actor.Profile()
	return &profile, nil
}

// Authenticate looks the username up among officials first, then
// citizens, and verifies the password against the stored hash.
func (s *Identity) Authenticate(ctx context.Context, username, password string) (*models.Actor, error) {
	username = strings.TrimSpace(username)
	for _, role := range []models.Role{models.RoleOfficial, models.RoleCitizen} {
		actor, err := s.actors.FindActorByUsername(ctx, role, username)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("find %s: %w", role, err)
		}
		if !actor.ComparePassword(password) {
			return nil, ErrInvalidCredentials
		}
		return actor, nil
	}
	return nil, ErrInvalidCredentials
}

func (s *Identity) find(ctx context.Context, id int64, role models.Role) (*models.Actor, error) {
	if !role.Valid() {
		return nil, ErrActorNotFound
	}
	actor, err := s.actors.FindActor(ctx, role, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrActorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find actor: %w", err)
	}
	return actor, nil
}

func (s *Identity) GetProfile(ctx context.Context, id int64, role models.Role) (*models.PublicProfile, error) {
	actor, err := s.find(ctx, id, role)
	if err != nil {
		return nil, err
	}
	profile := actor.Profile()
	return &profile, nil
}

// UpdateProfile overwrites fullname, age and the role's own field. Other
// fields, including the username and password, are left as they are.
func (s *Identity) UpdateProfile(ctx context.Context, id int64, role models.Role, in ProfileUpdate) error {
	if err := check(in); err != nil {
		return err
	}
	actor, err := s.find(ctx, id, role)
	if err != nil {
		return err
	}

	actor.Fullname = in.Fullname
	actor.Age = in.Age
	if role == models.RoleOfficial {
		actor.Official = &models.OfficialDetails{Department: in.Department}
	} else {
		actor.Citizen = &models.CitizenDetails{Address: in.Address}
	}
	actor.UpdatedAt = s.ids.now()

	if err := s.actors.SaveActor(ctx, actor); err != nil {
		return fmt.Errorf("save actor: %w", err)
	}
	return nil
}

// ChangePassword rotates the password hash after re-verifying the current
// password. The record must match both id and username.
func (s *Identity) ChangePassword(ctx context.Context, id int64, role models.Role, username, current, next string) error {
	actor, err := s.find(ctx, id, role)
	if err != nil {
		return err
	}
	if actor.Username != username {
		return ErrActorNotFound
	}
	if !actor.ComparePassword(current) {
		return ErrInvalidCredentials
	}
	switch {
	case len(next) < 6:
		return invalid("newPassword", "failed on the 'min=6' rule")
	case len(next) > 72:
		return invalid("newPassword", "failed on the 'maxbytes=72' rule")
	}

	if err := actor.SetPassword(next); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	actor.UpdatedAt = s.ids.now()
	if err := s.actors.SaveActor(ctx, actor); err != nil {
		return fmt.Errorf("save actor: %w", err)
	}
	return nil
}
