package validation

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"identity/internal/domain/entity"
	"identity/internal/domain/repository"
	"identity/internal/errors"

	"github.com/google/uuid"
)

const (
	nameMaxLength     = 50
	passwordMinLength = 6
	passwordMaxLength = 40
)

// emailPattern accepts local part, '@', and a dotted domain. The mandatory
// trailing `\.[a-z]+` rejects domains ending in a dot, and commas are not in
// any character class.
var emailPattern = regexp.MustCompile(`(?i)^[\w+\-.]+@[a-z\d\-.]+\.[a-z]+$`)

// UserValidator enforces field-level and cross-record rules before a
// candidate may be persisted. It is stateless: validating the same
// candidate twice against the same store yields the same violations.
type UserValidator struct {
	users repository.UserRepository
}

// NewUserValidator is the constructor for UserValidator. Pass a
// transaction-bound repository so the uniqueness pre-check and the
// subsequent write observe the same snapshot.
func NewUserValidator(users repository.UserRepository) *UserValidator {
	return &UserValidator{users: users}
}

// ValidateCreate checks a candidate for a new user. It returns a
// *validation.Error aggregating every violated rule, a store error if the
// uniqueness lookup failed, or nil when the candidate may be persisted.
func (v *UserValidator) ValidateCreate(ctx context.Context, candidate *entity.UserCandidate) error {
	return v.validate(ctx, candidate, uuid.Nil, false)
}

// ValidateUpdate checks a candidate against an existing user identified by
// selfID. The uniqueness rule excludes the user's own record, and the
// password rules are skipped entirely when both password fields are empty
// (an update that leaves credentials untouched).
func (v *UserValidator) ValidateUpdate(ctx context.Context, candidate *entity.UserCandidate, selfID uuid.UUID) error {
	return v.validate(ctx, candidate, selfID, true)
}

func (v *UserValidator) validate(ctx context.Context, candidate *entity.UserCandidate, selfID uuid.UUID, onUpdate bool) error {
	var violations Violations

	violations = append(violations, checkName(candidate.Name)...)

	emailViolations := checkEmailFormat(candidate.Email)
	violations = append(violations, emailViolations...)

	// Uniqueness is only consulted for a well-formed email: a malformed
	// address can never conflict, so no lookup is wasted on it.
	if len(emailViolations) == 0 {
		taken, err := v.emailTaken(ctx, candidate.Email, selfID, onUpdate)
		if err != nil {
			return errors.Wrap(err, "failed to check email uniqueness")
		}
		if taken {
			violations = append(violations, RuleEmailTaken)
		}
	}

	skipPassword := onUpdate && candidate.Password == "" && candidate.PasswordConfirmation == ""
	if !skipPassword {
		violations = append(violations, checkPassword(candidate.Password)...)
		if candidate.Password != candidate.PasswordConfirmation {
			violations = append(violations, RulePasswordConfirmation)
		}
	}

	if len(violations) > 0 {
		return newError(violations)
	}

	return nil
}

func (v *UserValidator) emailTaken(ctx context.Context, email string, selfID uuid.UUID, onUpdate bool) (bool, error) {
	existing, err := v.users.FindByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, nil
		}

		return false, err
	}

	if onUpdate && existing.ID == selfID {
		return false, nil
	}

	return true, nil
}

func checkName(name string) Violations {
	if isBlank(name) {
		return Violations{RuleNameBlank}
	}
	if utf8.RuneCountInString(name) > nameMaxLength {
		return Violations{RuleNameTooLong}
	}

	return nil
}

func checkEmailFormat(email string) Violations {
	if isBlank(email) {
		return Violations{RuleEmailBlank}
	}
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return Violations{RuleEmailInvalid}
	}

	return nil
}

func checkPassword(password string) Violations {
	if isBlank(password) {
		return Violations{RulePasswordBlank}
	}

	switch length := utf8.RuneCountInString(password); {
	case length < passwordMinLength:
		return Violations{RulePasswordTooShort}
	case length > passwordMaxLength:
		return Violations{RulePasswordTooLong}
	}

	return nil
}

// isBlank treats whitespace-only values as absent, not merely empty.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
