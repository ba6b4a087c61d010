package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/cppla/wemake/models"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_-]{3,20}$`)

// ValidUsername reports whether s is 3 to 20 lowercase letters, digits, underscores or dashes.
func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

// Identity is a sign-in coming from outside the password flow: an OAuth provider or an emailed code.
type Identity struct {
	Provider   string
	ProviderID string
	Email      string
	Username   string
	Name       string
	Avatar     string
}

// ProfileUpdate carries the editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name     *string
	Role     *string
	Headline *string
	Bio      *string
	Avatar   *string
}

// CreateProfile inserts a profile. A taken username or email is ErrDuplicate.
func (s *Store) CreateProfile(ctx context.Context, p *models.Profile) error {
	if !ValidUsername(p.Username) {
		return fmt.Errorf("%w: username %q", ErrInvalidInput, p.Username)
	}
	if p.Role != "" && !lo.Contains(models.ProfileRoles, p.Role) {
		return fmt.Errorf("%w: role %q", ErrInvalidInput, p.Role)
	}
	return translate(s.db.WithContext(ctx).Create(p).Error)
}

// ProfileByID loads a profile by id.
func (s *Store) ProfileByID(ctx context.Context, id uint) (models.Profile, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).Where("profile_id = ?", id).Take(&p).Error
	return p, translate(err)
}

// ProfileByUsername loads a profile by its unique username.
func (s *Store) ProfileByUsername(ctx context.Context, username string) (models.Profile, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).Where("username = ?", strings.ToLower(strings.TrimSpace(username))).Take(&p).Error
	return p, translate(err)
}

// ProfileByLogin resolves an email address or a username.
func (s *Store) ProfileByLogin(ctx context.Context, login string) (models.Profile, error) {
	login = strings.TrimSpace(login)
	if strings.Contains(login, "@") {
		var p models.Profile
		err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(login)).Take(&p).Error
		return p, translate(err)
	}
	return s.ProfileByUsername(ctx, login)
}

// FindOrCreateProfile returns the profile linked to the identity, linking by email or creating a
// new profile with a unique username when none matches.
func (s *Store) FindOrCreateProfile(ctx context.Context, id Identity) (models.Profile, error) {
	db := s.db.WithContext(ctx)
	email := strings.ToLower(strings.TrimSpace(id.Email))

	var p models.Profile
	var err error
	if id.ProviderID != "" {
		err = db.Where("provider = ? AND provider_id = ?", id.Provider, id.ProviderID).Take(&p).Error
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return p, err
		}
	}
	if email != "" {
		err = db.Where("email = ?", email).Take(&p).Error
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return p, err
		}
	}

	base := id.Username
	if base == "" && email != "" {
		base = strings.SplitN(email, "@", 2)[0]
	}
	username, err := s.uniqueUsername(ctx, base, id.Provider, id.ProviderID)
	if err != nil {
		return models.Profile{}, err
	}
	p = models.Profile{
		Name:       lo.Ternary(strings.TrimSpace(id.Name) != "", strings.TrimSpace(id.Name), username),
		Username:   username,
		Provider:   id.Provider,
		ProviderID: id.ProviderID,
		Avatar:     id.Avatar,
	}
	if email != "" {
		p.Email = &email
	}
	if err := db.Create(&p).Error; err != nil {
		return models.Profile{}, translate(err)
	}
	return p, nil
}

// UpdateProfile applies the non-nil fields of u and returns the stored profile.
func (s *Store) UpdateProfile(ctx context.Context, id uint, u ProfileUpdate) (models.Profile, error) {
	updates := map[string]interface{}{}
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" || utf8.RuneCountInString(name) > 64 {
			return models.Profile{}, fmt.Errorf("%w: name must be 1 to 64 characters", ErrInvalidInput)
		}
		updates["name"] = name
	}
	if u.Role != nil {
		if !lo.Contains(models.ProfileRoles, *u.Role) {
			return models.Profile{}, fmt.Errorf("%w: role %q", ErrInvalidInput, *u.Role)
		}
		updates["role"] = *u.Role
	}
	if u.Headline != nil {
		if utf8.RuneCountInString(*u.Headline) > 255 {
			return models.Profile{}, fmt.Errorf("%w: headline is too long", ErrInvalidInput)
		}
		updates["headline"] = strings.TrimSpace(*u.Headline)
	}
	if u.Bio != nil {
		updates["bio"] = strings.TrimSpace(*u.Bio)
	}
	if u.Avatar != nil {
		updates["avatar"] = strings.TrimSpace(*u.Avatar)
	}
	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Profile{}).Where("profile_id = ?", id).Updates(updates)
		if res.Error != nil {
			return models.Profile{}, res.Error
		}
	}
	return s.ProfileByID(ctx, id)
}

// uniqueUsername derives a valid username from base and appends a numeric suffix until it is free.
func (s *Store) uniqueUsername(ctx context.Context, base, provider, providerID string) (string, error) {
	base = normalizeUsername(base)
	if len(base) < 3 {
		base = normalizeUsername(provider + "_" + providerID)
	}
	if len(base) < 3 {
		base = "maker"
	}
	if len(base) > 16 {
		base = base[:16]
	}

	candidate := base
	for suffix := 1; suffix < 1000; suffix++ {
		var n int64
		if err := s.db.WithContext(ctx).Model(&models.Profile{}).Where("username = ?", candidate).Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", base, suffix)
	}
	return "", ErrDuplicate
}

func normalizeUsername(input string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == '_' || r == '.' || r == ' ':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_-")
}
